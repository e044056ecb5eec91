package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var todoDone = []Column{{ID: "todo", Title: "To do"}, {ID: "done", Title: "Done"}}

type moveRecorder struct {
	calls []MoveIntent
	err   error
}

func (m *moveRecorder) move(_ context.Context, intent MoveIntent) error {
	m.calls = append(m.calls, intent)
	return m.err
}

func newTestBoard(t *testing.T, rec *moveRecorder) *Reconciler[string] {
	t.Helper()
	var fn MoveFunc
	if rec != nil {
		fn = rec.move
	}
	r, err := New[string](todoDone, Plain{}, fn)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func laneIDs(lanes []Lane) map[string][]string {
	out := make(map[string][]string, len(lanes))
	for _, l := range lanes {
		ids := []string{}
		for _, c := range l.Cards {
			ids = append(ids, c.ID)
		}
		out[l.Column.ID] = ids
	}
	return out
}

func TestNew_RejectsBadColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		want    error
	}{
		{"duplicate", []Column{{ID: "a"}, {ID: "a"}}, ErrDuplicateColumn},
		{"empty id", []Column{{ID: "a"}, {ID: ""}}, ErrEmptyColumnID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[string](tt.columns, Plain{}, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_RequiresRenderer(t *testing.T) {
	if _, err := New[string](todoDone, nil, nil); !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("New() error = %v, want %v", err, ErrNoRenderer)
	}
}

func TestGroup_MoveRoundTrip(t *testing.T) {
	r := newTestBoard(t, nil)

	before := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "done"}}
	want := map[string][]string{"todo": {"1"}, "done": {"2"}}
	if diff := cmp.Diff(want, laneIDs(r.Group(before))); diff != "" {
		t.Errorf("Group() before move mismatch (-want +got):\n%s", diff)
	}

	after := []Card{{ID: "1", ColumnID: "done"}, {ID: "2", ColumnID: "done"}}
	want = map[string][]string{"todo": {}, "done": {"1", "2"}}
	if diff := cmp.Diff(want, laneIDs(r.Group(after))); diff != "" {
		t.Errorf("Group() after move mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_MatchesFilterAndKeepsOrder(t *testing.T) {
	r := newTestBoard(t, nil)
	cards := []Card{
		{ID: "5", ColumnID: "done"},
		{ID: "3", ColumnID: "todo"},
		{ID: "9", ColumnID: "done"},
		{ID: "1", ColumnID: "todo"},
		{ID: "7", ColumnID: "done"},
	}
	for _, lane := range r.Group(cards) {
		var want []Card
		for _, c := range cards {
			if c.ColumnID == lane.Column.ID {
				want = append(want, c)
			}
		}
		if diff := cmp.Diff(want, lane.Cards); diff != "" {
			t.Errorf("lane %q mismatch (-want +got):\n%s", lane.Column.ID, diff)
		}
	}
}

func TestGroup_Idempotent(t *testing.T) {
	r := newTestBoard(t, nil)
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "done"}, {ID: "3", ColumnID: "todo"}}
	first := r.Group(cards)
	second := r.Group(cards)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Group() not idempotent (-first +second):\n%s", diff)
	}
}

func TestGroup_UnknownColumnHidden(t *testing.T) {
	r := newTestBoard(t, nil)
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "ghost", ColumnID: "archive"}}

	want := map[string][]string{"todo": {"1"}, "done": {}}
	if diff := cmp.Diff(want, laneIDs(r.Group(cards))); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
	unplaced := r.Unplaced(cards)
	if len(unplaced) != 1 || unplaced[0].ID != "ghost" {
		t.Errorf("Unplaced() = %v, want only ghost", unplaced)
	}
}

func TestGroup_EmptyInputs(t *testing.T) {
	r, err := New[string](nil, Plain{}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if lanes := r.Group([]Card{{ID: "1", ColumnID: "todo"}}); len(lanes) != 0 {
		t.Errorf("Group() with no columns = %v, want empty", lanes)
	}

	r = newTestBoard(t, nil)
	for _, lane := range r.Group(nil) {
		if lane.Cards == nil || len(lane.Cards) != 0 {
			t.Errorf("lane %q = %v, want empty non-nil slice", lane.Column.ID, lane.Cards)
		}
	}
}

func TestDragEnd_SameColumnIsNoop(t *testing.T) {
	rec := &moveRecorder{}
	r := newTestBoard(t, rec)
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "todo"}}

	for _, g := range []Gesture{OnColumn("1", "todo"), OnCard("1", "2"), OnCard("1", "1")} {
		_, moved, err := r.DragEnd(context.Background(), cards, g)
		if err != nil || moved {
			t.Errorf("DragEnd(%+v) = moved %v, err %v; want no-op", g, moved, err)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("move handler called %d times, want 0", len(rec.calls))
	}
}

func TestDragEnd_CrossColumnFiresOnce(t *testing.T) {
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "done"}}
	want := MoveIntent{CardID: "1", FromColumnID: "todo", ToColumnID: "done"}

	for _, g := range []Gesture{OnColumn("1", "done"), OnCard("1", "2")} {
		t.Run(g.DropTargetKind.String(), func(t *testing.T) {
			rec := &moveRecorder{}
			r := newTestBoard(t, rec)
			got, moved, err := r.DragEnd(context.Background(), cards, g)
			if err != nil || !moved {
				t.Fatalf("DragEnd() = moved %v, err %v; want move", moved, err)
			}
			if diff := cmp.Diff([]MoveIntent{want}, rec.calls); diff != "" {
				t.Errorf("move calls mismatch (-want +got):\n%s", diff)
			}
			if got != want {
				t.Errorf("DragEnd() intent = %+v, want %+v", got, want)
			}
		})
	}
}

func TestDragEnd_InvalidGestures(t *testing.T) {
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "done"}, {ID: "x", ColumnID: "archive"}}
	tests := []struct {
		name string
		g    Gesture
	}{
		{"released outside", Cancelled("1")},
		{"no dragged id", OnColumn("", "done")},
		{"unknown dragged card", OnColumn("404", "done")},
		{"unknown target card", OnCard("1", "404")},
		{"unknown target column", OnColumn("1", "archive")},
		{"target card in hidden column", OnCard("1", "x")},
		{"hidden dragged card", OnColumn("x", "todo")},
		{"no target kind", Gesture{DraggedID: "1", DropTargetID: "done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &moveRecorder{}
			r := newTestBoard(t, rec)
			if _, moved, err := r.DragEnd(context.Background(), cards, tt.g); moved || err != nil {
				t.Errorf("DragEnd() = moved %v, err %v; want no-op", moved, err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("move handler called %d times, want 0", len(rec.calls))
			}
		})
	}
}

func TestDragEnd_DoesNotMutateCards(t *testing.T) {
	r := newTestBoard(t, &moveRecorder{})
	cards := []Card{{ID: "1", ColumnID: "todo"}}
	snapshot := append([]Card(nil), cards...)
	if _, _, err := r.DragEnd(context.Background(), cards, OnColumn("1", "done")); err != nil {
		t.Fatalf("DragEnd() error: %v", err)
	}
	if diff := cmp.Diff(snapshot, cards); diff != "" {
		t.Errorf("cards mutated (-before +after):\n%s", diff)
	}
}

func TestDragEnd_HandlerErrorPassesThrough(t *testing.T) {
	boom := errors.New("remote down")
	rec := &moveRecorder{err: boom}
	r := newTestBoard(t, rec)
	cards := []Card{{ID: "1", ColumnID: "todo"}}

	_, moved, err := r.DragEnd(context.Background(), cards, OnColumn("1", "done"))
	if !moved || !errors.Is(err, boom) {
		t.Fatalf("DragEnd() = moved %v, err %v; want moved with %v", moved, err, boom)
	}
	if len(rec.calls) != 1 {
		t.Errorf("move handler called %d times, want exactly 1 (no retry)", len(rec.calls))
	}
}

func TestApply(t *testing.T) {
	cards := []Card{{ID: "1", ColumnID: "todo"}, {ID: "2", ColumnID: "done"}}
	got := Apply(cards, MoveIntent{CardID: "1", FromColumnID: "todo", ToColumnID: "done"})
	want := []Card{{ID: "1", ColumnID: "done"}, {ID: "2", ColumnID: "done"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
	if cards[0].ColumnID != "todo" {
		t.Errorf("Apply() mutated its input")
	}
}

func TestTargetKind_Text(t *testing.T) {
	for _, k := range []TargetKind{TargetNone, TargetCard, TargetColumn} {
		text, _ := k.MarshalText()
		var back TargetKind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Errorf("round trip %v = %v, %v", k, back, err)
		}
	}
	var k TargetKind
	if err := k.UnmarshalText([]byte("lane")); err == nil {
		t.Error("UnmarshalText(lane) expected error")
	}
}
