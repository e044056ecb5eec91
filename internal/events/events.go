// Package events publishes board and record changes for other services.
package events

import (
	"context"

	"github.com/gmllt/talentboard/internal/hr"
)

const (
	TopicApplicationCreated = "talentboard.application.created"
	TopicApplicationMoved   = "talentboard.application.moved"
	TopicProcessCreated     = "talentboard.process.created"
	TopicProcessMoved       = "talentboard.process.moved"
	TopicProcessDeleted     = "talentboard.process.deleted"
	TopicTalentDeleted      = "talentboard.talent.deleted"
)

// CardMoved is published after a move has been stored.
type CardMoved struct {
	CardID       string `json:"card_id"`
	FromColumnID string `json:"from_column_id"`
	ToColumnID   string `json:"to_column_id"`
	MovedBy      string `json:"moved_by,omitempty"`
}

type ApplicationCreated struct {
	Application *hr.Application `json:"application"`
}

type ProcessCreated struct {
	Process *hr.SelectionProcess `json:"process"`
}

type ProcessDeleted struct {
	ProcessID string `json:"process_id"`
}

type TalentDeleted struct {
	TalentID string `json:"talent_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
