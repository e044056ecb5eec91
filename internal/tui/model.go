// Package tui is a keyboard drag-and-drop adapter for the boards. It turns
// grab, hover and release keys into gestures for the reconciler.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/client"
	"github.com/gmllt/talentboard/internal/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// cardsMsg carries a fresh card list from the server.
type cardsMsg struct {
	cards []board.Card
	err   error
}

// moveDoneMsg reports the outcome of the remote call for a move.
type moveDoneMsg struct {
	intent board.MoveIntent
	err    error
}

// Model is the bubbletea model of one board. Cards are replaced wholesale on
// every load; a drop splices the moved card locally until the refetch that
// follows the remote call lands.
type Model struct {
	ctx     context.Context
	src     Source
	keys    keyMap
	rec     *board.Reconciler[string]
	spinner spinner.Model

	cards   []board.Card
	loading bool

	// cursor
	lane int
	row  int

	// Dragging state. grabbed is the dragged card id, hover the lane index
	// it would land in.
	grabbed string
	hover   int

	// queued is the remote call scheduled by the move handler during the
	// current Update.
	queued tea.Cmd

	status string
	err    error
	quit   bool
}

// New builds the model for src. ctx bounds every remote call.
func New(ctx context.Context, src Source) (*Model, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &Model{ctx: ctx, src: src, keys: defaultKeys(), spinner: sp, loading: true}
	rec, err := board.New[string](src.Columns, laneRenderer{m}, m.requestMove)
	if err != nil {
		return nil, err
	}
	m.rec = rec
	return m, nil
}

// laneRenderer renders through view.Terminal with the model's current
// selection.
type laneRenderer struct{ m *Model }

func (r laneRenderer) terminal() view.Terminal {
	return view.Terminal{Selected: r.m.selectedID(), Grabbed: r.m.grabbed}
}

func (r laneRenderer) RenderColumnHeader(c board.Column) string {
	return r.terminal().RenderColumnHeader(c)
}

func (r laneRenderer) RenderCard(cardID, content string) string {
	return r.terminal().RenderCard(cardID, content)
}

// requestMove is the reconciler's move handler: splice the card locally and
// queue the remote call.
func (m *Model) requestMove(_ context.Context, intent board.MoveIntent) error {
	m.cards = board.Apply(m.cards, intent)
	ctx, move := m.ctx, m.src.Move
	m.queued = func() tea.Msg {
		return moveDoneMsg{intent: intent, err: move(ctx, intent)}
	}
	return nil
}

func (m *Model) load() tea.Cmd {
	ctx, load := m.ctx, m.src.Load
	return func() tea.Msg {
		cards, err := load(ctx)
		return cardsMsg{cards: cards, err: err}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case cardsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, m.quitIfExpired(msg.err)
		}
		m.cards = msg.cards
		m.clampCursor()
		return m, nil

	case moveDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("move %s to %s: %w", msg.intent.CardID, msg.intent.ToColumnID, msg.err)
			m.status = ""
		} else {
			m.err = nil
			m.status = fmt.Sprintf("moved %s to %s", msg.intent.CardID, m.columnTitle(msg.intent.ToColumnID))
		}
		m.loading = true
		return m, tea.Batch(m.load(), m.spinner.Tick)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) quitIfExpired(err error) tea.Cmd {
	if errors.Is(err, client.ErrSessionExpired) {
		m.quit = true
		return tea.Quit
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	lanes := m.rec.Group(m.cards)
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit = true
		return tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return tea.Batch(m.load(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Left):
		if m.grabbed != "" {
			m.hover = max(0, m.hover-1)
		} else if m.lane > 0 {
			m.lane--
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Right):
		if m.grabbed != "" {
			m.hover = min(len(lanes)-1, m.hover+1)
		} else if m.lane < len(lanes)-1 {
			m.lane++
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Up):
		if m.grabbed == "" && m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.Down):
		if m.grabbed == "" && m.lane < len(lanes) && m.row < len(lanes[m.lane].Cards)-1 {
			m.row++
		}

	case key.Matches(msg, m.keys.Grab):
		if m.grabbed != "" {
			return m.drop()
		}
		if id := m.selectedID(); id != "" {
			m.grabbed = id
			m.hover = m.lane
			m.status = "dragging " + id
		}

	case key.Matches(msg, m.keys.Drop):
		if m.grabbed != "" {
			return m.drop()
		}

	case key.Matches(msg, m.keys.Cancel):
		if m.grabbed != "" {
			// Released outside every target.
			_, _, _ = m.rec.DragEnd(m.ctx, m.cards, board.Cancelled(m.grabbed))
			m.grabbed = ""
			m.status = "cancelled"
		}
	}
	return nil
}

// drop releases the grabbed card over the hovered lane. The reconciler calls
// requestMove when the drop names another column.
func (m *Model) drop() tea.Cmd {
	columns := m.rec.Columns()
	dragged := m.grabbed
	m.grabbed = ""
	if m.hover < 0 || m.hover >= len(columns) {
		return nil
	}
	m.queued = nil
	intent, moved, err := m.rec.DragEnd(m.ctx, m.cards, board.OnColumn(dragged, columns[m.hover].ID))
	if err != nil {
		m.err = err
		return nil
	}
	if !moved {
		m.status = "no move"
		return nil
	}
	m.lane = m.hover
	m.selectCard(intent.CardID)
	m.status = fmt.Sprintf("moving %s to %s…", intent.CardID, m.columnTitle(intent.ToColumnID))
	cmd := m.queued
	m.queued = nil
	return cmd
}

func (m *Model) selectCard(id string) {
	lanes := m.rec.Group(m.cards)
	if m.lane >= len(lanes) {
		return
	}
	for i, c := range lanes[m.lane].Cards {
		if c.ID == id {
			m.row = i
			return
		}
	}
}

func (m *Model) clampCursor() {
	lanes := m.rec.Group(m.cards)
	if len(lanes) == 0 {
		m.lane, m.row = 0, 0
		return
	}
	m.lane = min(max(m.lane, 0), len(lanes)-1)
	m.row = min(m.row, len(lanes[m.lane].Cards)-1)
	m.row = max(m.row, 0)
}

func (m *Model) selectedID() string {
	lanes := m.rec.Group(m.cards)
	if m.lane >= len(lanes) || m.row >= len(lanes[m.lane].Cards) {
		return ""
	}
	return lanes[m.lane].Cards[m.row].ID
}

func (m *Model) columnTitle(id string) string {
	for _, c := range m.rec.Columns() {
		if c.ID == id {
			return c.Title
		}
	}
	return id
}

func (m *Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.src.Title))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	hover := ""
	if m.grabbed != "" {
		if cols := m.rec.Columns(); m.hover < len(cols) {
			hover = cols[m.hover].ID
		}
	}
	b.WriteString(view.Join(m.rec.Render(m.cards), hover))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	help := make([]string, 0, len(m.keys.bindings()))
	for _, k := range m.keys.bindings() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

// Cards returns the cards the model currently shows.
func (m *Model) Cards() []board.Card {
	return append([]board.Card(nil), m.cards...)
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, src Source) error {
	m, err := New(ctx, src)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
