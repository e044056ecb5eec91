package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gmllt/talentboard/internal/board"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("#FFFFFF"))
	grabbedCardStyle  = cardStyle.BorderForeground(lipgloss.Color("#FF6B6B")).Bold(true)
	laneStyle         = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#444444")).
				Padding(0, 1)
	hoverLaneStyle = laneStyle.BorderForeground(lipgloss.Color("#FF6B6B"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// Terminal renders a board for the terminal. Selected and Grabbed are card
// IDs that get highlighted; LaneWidth is the inner width of a lane.
type Terminal struct {
	Selected  string
	Grabbed   string
	LaneWidth int
}

func (t Terminal) width() int {
	if t.LaneWidth <= 0 {
		return 22
	}
	return t.LaneWidth
}

func (t Terminal) RenderColumnHeader(c board.Column) string {
	return headerStyle.Width(t.width()).Render(truncate(c.Title, t.width()))
}

func (t Terminal) RenderCard(cardID, content string) string {
	style := cardStyle
	switch cardID {
	case t.Grabbed:
		style = grabbedCardStyle
	case t.Selected:
		style = selectedCardStyle
	}
	// Border and padding take four cells.
	inner := max(1, t.width()-4)
	return style.Width(inner + 2).Render(truncate(content, inner))
}

// Join lays the lanes of v side by side. hoverColumn, when set, marks the lane
// a grabbed card would be dropped into.
func Join(v board.View[string], hoverColumn string) string {
	if len(v.Lanes) == 0 {
		return emptyStyle.Render("(no columns)")
	}
	blocks := make([]string, 0, len(v.Lanes))
	for _, lane := range v.Lanes {
		parts := []string{lane.Header}
		for _, c := range lane.Cards {
			parts = append(parts, c.View)
		}
		if len(lane.Cards) == 0 {
			parts = append(parts, emptyStyle.Render("-"))
		}
		style := laneStyle
		if lane.Column.ID == hoverColumn {
			style = hoverLaneStyle
		}
		blocks = append(blocks, style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
