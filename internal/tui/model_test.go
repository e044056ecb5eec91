package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/client"
)

type fakeRemote struct {
	mu      sync.Mutex
	cards   []board.Card
	moves   []board.MoveIntent
	moveErr error
	loadErr error
}

func (f *fakeRemote) source() Source {
	return Source{
		Title: "Test",
		Columns: []board.Column{
			{ID: "todo", Title: "To do"},
			{ID: "doing", Title: "Doing"},
			{ID: "done", Title: "Done"},
		},
		Load: func(context.Context) ([]board.Card, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.loadErr != nil {
				return nil, f.loadErr
			}
			return append([]board.Card(nil), f.cards...), nil
		},
		Move: func(_ context.Context, in board.MoveIntent) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.moves = append(f.moves, in)
			if f.moveErr != nil {
				return f.moveErr
			}
			f.cards = board.Apply(f.cards, in)
			return nil
		},
	}
}

func newLoadedModel(t *testing.T, f *fakeRemote) *Model {
	t.Helper()
	m, err := New(context.Background(), f.source())
	require.NoError(t, err)
	msg := m.load()()
	m.Update(msg)
	require.False(t, m.loading)
	return m
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func seed() *fakeRemote {
	return &fakeRemote{cards: []board.Card{
		{ID: "1", Content: "Write tests", ColumnID: "todo"},
		{ID: "2", Content: "Ship", ColumnID: "todo"},
		{ID: "3", Content: "Design", ColumnID: "done"},
	}}
}

func TestDragAcrossColumns(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	cmd := press(m, keyDown, keySpace, keyRight, keyEnter)
	require.NotNil(t, cmd, "a cross-column drop must schedule the remote call")

	// Optimistic: card 2 already shows in the hovered column.
	assert.Equal(t, "doing", m.Cards()[1].ColumnID)
	assert.Equal(t, "2", m.selectedID())
	assert.Empty(t, f.moves, "remote call runs only when the command executes")

	done := cmd()
	require.IsType(t, moveDoneMsg{}, done)
	assert.Equal(t, []board.MoveIntent{{CardID: "2", FromColumnID: "todo", ToColumnID: "doing"}}, f.moves)

	_, refetch := m.Update(done)
	require.NotNil(t, refetch)
	assert.True(t, m.loading)
	m.Update(m.load()())
	assert.Equal(t, f.cards, m.Cards())
	assert.Contains(t, m.View(), "moved 2 to Doing")
}

func TestOverlappingDragsEachScheduleTheirOwnMove(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	first := press(m, keySpace, keyRight, keyEnter)
	require.NotNil(t, first)
	require.Equal(t, "1", m.selectedID())

	// Card 2 is dragged before the first remote call has run.
	second := press(m, keyLeft, keySpace, keyRight, keyRight, keyEnter)
	require.NotNil(t, second)
	assert.Empty(t, f.moves)

	byID := map[string]string{}
	for _, c := range m.Cards() {
		byID[c.ID] = c.ColumnID
	}
	assert.Equal(t, map[string]string{"1": "doing", "2": "done", "3": "done"}, byID)

	secondDone := second()
	firstDone := first()
	require.IsType(t, moveDoneMsg{}, secondDone)
	require.IsType(t, moveDoneMsg{}, firstDone)
	assert.Equal(t, "2", secondDone.(moveDoneMsg).intent.CardID)
	assert.Equal(t, "1", firstDone.(moveDoneMsg).intent.CardID)
	assert.Equal(t, []board.MoveIntent{
		{CardID: "2", FromColumnID: "todo", ToColumnID: "done"},
		{CardID: "1", FromColumnID: "todo", ToColumnID: "doing"},
	}, f.moves)

	m.Update(secondDone)
	m.Update(firstDone)
	m.Update(m.load()())
	assert.Equal(t, f.cards, m.Cards())
}

func TestDropOnOwnColumnIsNoop(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	cmd := press(m, keySpace, keyEnter)
	assert.Nil(t, cmd)
	assert.Empty(t, f.moves)
	assert.Equal(t, f.cards, m.Cards())
	assert.Empty(t, m.grabbed)
}

func TestEscCancelsDrag(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	cmd := press(m, keySpace, keyRight, keyRight, keyEsc)
	assert.Nil(t, cmd)
	assert.Empty(t, m.grabbed)
	assert.Empty(t, f.moves)
	assert.Equal(t, f.cards, m.Cards())
	assert.Contains(t, m.View(), "cancelled")
}

func TestSpaceDropsWhileDragging(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	cmd := press(m, keySpace, keyRight, keyRight, keySpace)
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []board.MoveIntent{{CardID: "1", FromColumnID: "todo", ToColumnID: "done"}}, f.moves)
}

func TestHoverStaysOnBoard(t *testing.T) {
	f := seed()
	m := newLoadedModel(t, f)

	press(m, keySpace, keyRight, keyRight, keyRight, keyRight)
	assert.Equal(t, 2, m.hover)
}

func TestFailedMoveRefetches(t *testing.T) {
	f := seed()
	f.moveErr = errors.New("boom")
	m := newLoadedModel(t, f)

	cmd := press(m, keySpace, keyRight, keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, "doing", m.Cards()[0].ColumnID)

	_, refetch := m.Update(cmd())
	require.NotNil(t, refetch)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "boom")

	m.Update(m.load()())
	assert.Equal(t, "todo", m.Cards()[0].ColumnID, "refetch restores server state")
}

func TestSessionExpiredQuits(t *testing.T) {
	f := seed()
	f.loadErr = client.ErrSessionExpired
	m, err := New(context.Background(), f.source())
	require.NoError(t, err)

	_, cmd := m.Update(m.load()())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyBoard(t *testing.T) {
	f := &fakeRemote{}
	m := newLoadedModel(t, f)

	assert.Nil(t, press(m, keySpace, keyEnter, keyDown, keyRight))
	assert.NotEmpty(t, m.View())
}
