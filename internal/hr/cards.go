package hr

import "github.com/gmllt/talentboard/internal/board"

// ApplicationCards maps applications onto applications board cards. An empty
// step falls back to DefaultStep; any other unknown step is kept as is and the
// board hides the card.
func ApplicationCards(apps []Application) []board.Card {
	cards := make([]board.Card, 0, len(apps))
	for _, a := range apps {
		step := a.CurrentStep
		if step == "" {
			step = DefaultStep
		}
		cards = append(cards, board.Card{
			ID:       a.ID,
			Content:  applicationContent(a),
			ColumnID: string(step),
		})
	}
	return cards
}

func applicationContent(a Application) string {
	if a.Talent == nil {
		return a.TalentID
	}
	if a.Talent.Email == "" {
		return a.Talent.Name
	}
	return a.Talent.Name + " - " + a.Talent.Email
}

// ProcessCards maps selection processes onto processes board cards.
func ProcessCards(processes []SelectionProcess) []board.Card {
	cards := make([]board.Card, 0, len(processes))
	for _, p := range processes {
		cards = append(cards, board.Card{
			ID:       p.ID,
			Content:  p.Description,
			ColumnID: string(p.Category),
		})
	}
	return cards
}
