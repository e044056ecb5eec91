package hr

import (
	"fmt"

	"github.com/gmllt/talentboard/internal/board"
)

// Step is the stage an application has reached.
type Step string

const (
	StepHunting                        Step = "HUNTING"
	StepDatabase                       Step = "DATABASE"
	StepHRInterview                    Step = "HR_INTERVIEW"
	StepLeadershipInterview            Step = "LEADERSHIP_INTERVIEW"
	StepTechnicalChallenge             Step = "TECHNICAL_CHALLENGE"
	StepTechnicalChallengeNotSubmitted Step = "TECHNICAL_CHALLENGE_NOT_SUBMITTED"
	StepRejected                       Step = "REJECTED"
	StepDeclined                       Step = "DECLINED"
	StepStandBy                        Step = "STAND_BY"
	StepOfferPhase                     Step = "OFFER_PHASE"
	StepOnboarding                     Step = "ONBOARDING"
)

// DefaultStep is where newly registered applications, and applications with
// no step recorded, are placed.
const DefaultStep = StepDatabase

var stepColumns = []board.Column{
	{ID: string(StepHunting), Title: "Caça a Talentos"},
	{ID: string(StepDatabase), Title: "Banco de Talentos"},
	{ID: string(StepHRInterview), Title: "Entrevista com a RH"},
	{ID: string(StepLeadershipInterview), Title: "Entrevista Líder"},
	{ID: string(StepTechnicalChallenge), Title: "Desafio Técnico"},
	{ID: string(StepTechnicalChallengeNotSubmitted), Title: "Desafio Não Enviado"},
	{ID: string(StepRejected), Title: "Rejeitado"},
	{ID: string(StepDeclined), Title: "Recusado"},
	{ID: string(StepStandBy), Title: "Em Espera"},
	{ID: string(StepOfferPhase), Title: "Fase de Oferta"},
	{ID: string(StepOnboarding), Title: "Onboarding"},
}

// StepColumns returns the applications board columns in display order.
func StepColumns() []board.Column {
	return append([]board.Column(nil), stepColumns...)
}

func ParseStep(s string) (Step, error) {
	for _, c := range stepColumns {
		if c.ID == s {
			return Step(s), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// Category is the business area a selection process belongs to.
type Category string

const (
	CategoryAdministrativeFinancial Category = "administrative_financial"
	CategoryCommercial              Category = "commercial"
	CategoryCommunicationMarketing  Category = "communication_marketing"
	CategoryDevelopment             Category = "development"
	CategoryInnovation              Category = "innovation"
	CategoryPeople                  Category = "people"
	CategoryProducts                Category = "products"
	CategoryOperations              Category = "operations"
	CategoryQuality                 Category = "quality"
)

var categoryColumns = []board.Column{
	{ID: string(CategoryAdministrativeFinancial), Title: "Administrativo"},
	{ID: string(CategoryCommercial), Title: "Comercial"},
	{ID: string(CategoryCommunicationMarketing), Title: "Comunicação e Marketing"},
	{ID: string(CategoryDevelopment), Title: "Desenvolvimento"},
	{ID: string(CategoryInnovation), Title: "Inovação"},
	{ID: string(CategoryPeople), Title: "Pessoas"},
	{ID: string(CategoryProducts), Title: "Produtos"},
	{ID: string(CategoryOperations), Title: "Operações"},
	{ID: string(CategoryQuality), Title: "Qualidade"},
}

// CategoryColumns returns the processes board columns in display order.
func CategoryColumns() []board.Column {
	return append([]board.Column(nil), categoryColumns...)
}

func ParseCategory(s string) (Category, error) {
	for _, c := range categoryColumns {
		if c.ID == s {
			return Category(s), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
