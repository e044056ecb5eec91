package board

import (
	"fmt"
	"strings"
)

// TargetKind says whether a drop landed on a card or on a column itself.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetCard
	TargetColumn
)

func (k TargetKind) String() string {
	switch k {
	case TargetCard:
		return "card"
	case TargetColumn:
		return "column"
	default:
		return "none"
	}
}

func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TargetKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "card":
		*k = TargetCard
	case "column":
		*k = TargetColumn
	case "", "none":
		*k = TargetNone
	default:
		return fmt.Errorf("board: unknown drop target kind %q", text)
	}
	return nil
}

// Gesture is what a platform drag adapter reports when the pointer (or the
// keyboard equivalent) is released. An empty DropTargetID means the drag was
// released outside every target.
type Gesture struct {
	DraggedID      string     `json:"dragged_id"`
	DropTargetID   string     `json:"drop_target_id"`
	DropTargetKind TargetKind `json:"drop_target_kind"`
}

// OnCard builds a gesture that dropped dragged onto another card.
func OnCard(dragged, target string) Gesture {
	return Gesture{DraggedID: dragged, DropTargetID: target, DropTargetKind: TargetCard}
}

// OnColumn builds a gesture that dropped dragged onto a column body.
func OnColumn(dragged, column string) Gesture {
	return Gesture{DraggedID: dragged, DropTargetID: column, DropTargetKind: TargetColumn}
}

// Cancelled builds a gesture released outside any drop target.
func Cancelled(dragged string) Gesture {
	return Gesture{DraggedID: dragged}
}
