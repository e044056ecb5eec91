// Package hr holds the talent, selection process and application records and
// the fixed step and category enumerations the boards are built from.
package hr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownStep     = errors.New("unknown application step")
	ErrUnknownCategory = errors.New("unknown process category")
	ErrInvalid         = errors.New("invalid record")
)

// Talent is a person that can be registered into selection processes.
type Talent struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Contacts        string    `json:"contacts"`
	About           string    `json:"about"`
	Experiences     string    `json:"experiences"`
	Educations      string    `json:"educations"`
	Interests       string    `json:"interests"`
	Accomplishments string    `json:"accomplishments"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *Talent) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: talent name is required", ErrInvalid)
	}
	return nil
}

// SelectionProcess is an opening. Its category places it on the processes
// board.
type SelectionProcess struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *SelectionProcess) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: process description is required", ErrInvalid)
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}
	return nil
}

// Application registers a talent into a selection process. CurrentStep
// places it on the process's applications board.
type Application struct {
	ID          string    `json:"id"`
	ProcessID   string    `json:"process_id"`
	TalentID    string    `json:"talent_id"`
	CurrentStep Step      `json:"current_step"`
	Talent      *Talent   `json:"talent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FilterTalents keeps the talents whose name contains query, ignoring case.
// A blank query keeps everything.
func FilterTalents(talents []Talent, query string) []Talent {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return talents
	}
	out := make([]Talent, 0, len(talents))
	for _, t := range talents {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}
