// Package store defines persistence for talents, selection processes and
// applications. Backends live in subpackages; Memory is kept here because the
// S3 backend reuses its Document.
package store

import (
	"context"
	"errors"

	"github.com/gmllt/talentboard/internal/hr"
)

// Sentinel errors returned (optionally wrapped) by every backend.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Store is implemented by every backend. Create methods fill in the record's
// timestamps; IDs are assigned by the caller.
type Store interface {
	ListTalents(ctx context.Context, search string) ([]hr.Talent, error)
	GetTalent(ctx context.Context, id string) (hr.Talent, error)
	CreateTalent(ctx context.Context, t *hr.Talent) error
	UpdateTalent(ctx context.Context, t *hr.Talent) error
	DeleteTalent(ctx context.Context, id string) error

	ListProcesses(ctx context.Context) ([]hr.SelectionProcess, error)
	GetProcess(ctx context.Context, id string) (hr.SelectionProcess, error)
	CreateProcess(ctx context.Context, p *hr.SelectionProcess) error
	UpdateProcessCategory(ctx context.Context, id string, category hr.Category) (hr.SelectionProcess, error)
	DeleteProcess(ctx context.Context, id string) error

	// ListApplications returns the process's applications with the talent
	// embedded, oldest first.
	ListApplications(ctx context.Context, processID string) ([]hr.Application, error)
	GetApplication(ctx context.Context, id string) (hr.Application, error)
	// CreateApplication fails with ErrNotFound when the process or talent is
	// missing and ErrConflict when the talent is already registered.
	CreateApplication(ctx context.Context, a *hr.Application) error
	UpdateApplicationStep(ctx context.Context, id string, step hr.Step) (hr.Application, error)

	Close() error
}
