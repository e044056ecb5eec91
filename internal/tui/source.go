package tui

import (
	"context"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/client"
	"github.com/gmllt/talentboard/internal/hr"
)

// Source is a board the TUI can show: fixed columns, a loader for the
// current cards and the remote call that stores a move.
type Source struct {
	Title   string
	Columns []board.Column
	Load    func(ctx context.Context) ([]board.Card, error)
	Move    func(ctx context.Context, intent board.MoveIntent) error
}

// ProcessSource is the processes board, one column per category.
func ProcessSource(c *client.Client) Source {
	return Source{
		Title:   "Processos Seletivos",
		Columns: hr.CategoryColumns(),
		Load:    c.ProcessCards,
		Move: func(ctx context.Context, in board.MoveIntent) error {
			_, err := c.MoveProcess(ctx, in.CardID, hr.Category(in.ToColumnID))
			return err
		},
	}
}

// ApplicationSource is the applications board of one process, one column
// per step.
func ApplicationSource(c *client.Client, processID, title string) Source {
	return Source{
		Title:   title,
		Columns: hr.StepColumns(),
		Load: func(ctx context.Context) ([]board.Card, error) {
			b, err := c.LoadApplicationBoard(ctx, processID)
			if err != nil {
				return nil, err
			}
			return b.Cards(), nil
		},
		Move: func(ctx context.Context, in board.MoveIntent) error {
			_, err := c.MoveApplication(ctx, in.CardID, hr.Step(in.ToColumnID))
			return err
		},
	}
}
