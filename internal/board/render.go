package board

// Renderer produces the presentation of headers and cards. Render calls each
// method once per column and once per visible card.
type Renderer[V any] interface {
	RenderColumnHeader(c Column) V
	RenderCard(cardID, content string) V
}

// RenderedCard pairs a card with its rendered view.
type RenderedCard[V any] struct {
	Card Card
	View V
}

// RenderedLane is a lane with its header and cards rendered.
type RenderedLane[V any] struct {
	Column Column
	Header V
	Cards  []RenderedCard[V]
}

// View is a fully rendered board.
type View[V any] struct {
	Lanes []RenderedLane[V]
}

// Render groups cards and passes every column and visible card through the
// reconciler's renderer.
func (r *Reconciler[V]) Render(cards []Card) View[V] {
	lanes := r.Group(cards)
	out := View[V]{Lanes: make([]RenderedLane[V], len(lanes))}
	for i, lane := range lanes {
		rl := RenderedLane[V]{
			Column: lane.Column,
			Header: r.renderer.RenderColumnHeader(lane.Column),
			Cards:  make([]RenderedCard[V], len(lane.Cards)),
		}
		for j, card := range lane.Cards {
			rl.Cards[j] = RenderedCard[V]{Card: card, View: r.renderer.RenderCard(card.ID, card.Content)}
		}
		out.Lanes[i] = rl
	}
	return out
}

// Plain renders a header as its title and a card as its content.
type Plain struct{}

func (Plain) RenderColumnHeader(c Column) string { return c.Title }
func (Plain) RenderCard(_, content string) string { return content }
