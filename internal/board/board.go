// Package board maps a flat card list onto a fixed set of Kanban columns and
// turns a finished drag gesture into at most one move request.
//
// A Reconciler holds no card state. Callers pass the current card list on
// every call and own whatever happens after a move is requested: an
// optimistic local update, a remote call, a refetch, or all three.
package board

import (
	"context"
	"errors"
	"fmt"
)

// Column is a named bucket on the board, such as a workflow step.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Card is the view-model of one record. ColumnID alone decides which column
// shows the card; order inside a column follows the input list.
type Card struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	ColumnID string `json:"columnId"`
}

// MoveIntent is the result of a completed gesture. It is handed to the move
// handler and never stored.
type MoveIntent struct {
	CardID       string `json:"card_id"`
	FromColumnID string `json:"from_column_id"`
	ToColumnID   string `json:"to_column_id"`
}

// MoveFunc performs the authoritative state change for a move. Its error is
// returned to the caller of DragEnd untouched; the reconciler never retries.
type MoveFunc func(ctx context.Context, intent MoveIntent) error

// Lane is one column together with the cards currently grouped into it.
type Lane struct {
	Column Column `json:"column"`
	Cards  []Card `json:"cards"`
}

// Snapshot is a grouped board in its JSON form.
type Snapshot struct {
	Lanes []Lane `json:"lanes"`
}

var (
	ErrEmptyColumnID   = errors.New("board: empty column id")
	ErrDuplicateColumn = errors.New("board: duplicate column id")
	ErrNoRenderer      = errors.New("board: renderer is required")
)

// Reconciler groups cards by column and resolves drag gestures against a
// fixed column set. It is safe for concurrent use because it never mutates
// anything after construction.
type Reconciler[V any] struct {
	columns  []Column
	index    map[string]int
	renderer Renderer[V]
	onMove   MoveFunc
}

// New validates the column set and returns a reconciler bound to renderer and
// onMove. An empty column set is allowed and yields an empty board. A nil
// onMove turns every valid drop into a no-op.
func New[V any](columns []Column, renderer Renderer[V], onMove MoveFunc) (*Reconciler[V], error) {
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.ID == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyColumnID, i)
		}
		if _, dup := index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.ID)
		}
		index[c.ID] = i
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	if onMove == nil {
		onMove = func(context.Context, MoveIntent) error { return nil }
	}
	return &Reconciler[V]{columns: cols, index: index, renderer: renderer, onMove: onMove}, nil
}

// Columns returns a copy of the column set in display order.
func (r *Reconciler[V]) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// HasColumn reports whether id names one of the board's columns.
func (r *Reconciler[V]) HasColumn(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Group returns one lane per column, in column order. Each lane holds the
// cards whose ColumnID equals the column's ID, in input order. Cards with an
// unknown ColumnID appear in no lane.
func (r *Reconciler[V]) Group(cards []Card) []Lane {
	lanes := make([]Lane, len(r.columns))
	for i, c := range r.columns {
		lanes[i] = Lane{Column: c, Cards: []Card{}}
	}
	for _, card := range cards {
		if i, ok := r.index[card.ColumnID]; ok {
			lanes[i].Cards = append(lanes[i].Cards, card)
		}
	}
	return lanes
}

// Unplaced returns the cards that Group hides because their ColumnID does not
// name a column.
func (r *Reconciler[V]) Unplaced(cards []Card) []Card {
	var out []Card
	for _, card := range cards {
		if !r.HasColumn(card.ColumnID) {
			out = append(out, card)
		}
	}
	return out
}

// Resolve computes the move a gesture asks for without performing it. The
// boolean is false when the gesture is a no-op: no drop target, an unknown
// dragged card, a target that resolves to no column, or a target in the
// column the card already sits in.
func (r *Reconciler[V]) Resolve(cards []Card, g Gesture) (MoveIntent, bool) {
	if g.DraggedID == "" || g.DropTargetID == "" {
		return MoveIntent{}, false
	}
	dragged, ok := findCard(cards, g.DraggedID)
	if !ok || !r.HasColumn(dragged.ColumnID) {
		return MoveIntent{}, false
	}

	var dest string
	switch g.DropTargetKind {
	case TargetCard:
		if g.DropTargetID == g.DraggedID {
			return MoveIntent{}, false
		}
		over, ok := findCard(cards, g.DropTargetID)
		if !ok {
			return MoveIntent{}, false
		}
		dest = over.ColumnID
	case TargetColumn:
		dest = g.DropTargetID
	default:
		return MoveIntent{}, false
	}

	if !r.HasColumn(dest) || dest == dragged.ColumnID {
		return MoveIntent{}, false
	}
	return MoveIntent{CardID: dragged.ID, FromColumnID: dragged.ColumnID, ToColumnID: dest}, true
}

// DragEnd resolves g against cards and, when it names a valid move, calls the
// move handler exactly once. cards is not modified; the caller is expected to
// supply an updated list afterwards.
func (r *Reconciler[V]) DragEnd(ctx context.Context, cards []Card, g Gesture) (MoveIntent, bool, error) {
	intent, ok := r.Resolve(cards, g)
	if !ok {
		return MoveIntent{}, false, nil
	}
	return intent, true, r.onMove(ctx, intent)
}

func findCard(cards []Card, id string) (Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Apply returns a copy of cards with the moved card placed in the intent's
// destination column. Callers use it for optimistic updates; cards itself is
// left untouched. An intent naming an unknown card returns an unchanged copy.
func Apply(cards []Card, intent MoveIntent) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := range out {
		if out[i].ID == intent.CardID {
			out[i].ColumnID = intent.ToColumnID
			break
		}
	}
	return out
}
