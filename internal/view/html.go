// Package view holds the board renderers: HTML fragments for the web page
// and lipgloss blocks for the terminal.
package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/gmllt/talentboard/internal/board"
)

// HTML renders headers and cards as escaped HTML fragments. Cards carry
// data-card-id so the page script can report gestures.
type HTML struct{}

func (HTML) RenderColumnHeader(c board.Column) template.HTML {
	return template.HTML(fmt.Sprintf(`<h2 class="lane-title">%s</h2>`, template.HTMLEscapeString(c.Title)))
}

func (HTML) RenderCard(cardID, content string) template.HTML {
	return template.HTML(fmt.Sprintf(`<div class="card" draggable="true" data-card-id="%s">%s</div>`,
		template.HTMLEscapeString(cardID), template.HTMLEscapeString(content)))
}

// Page is the data of a full board page.
type Page struct {
	Title string
	// DropURL receives the gesture JSON when a card is released.
	DropURL string
	View    board.View[template.HTML]
}

var pageTemplate = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1rem; }
.board { display: flex; gap: .75rem; overflow-x: auto; align-items: flex-start; }
.lane { background: #f1f2f4; border-radius: 6px; min-width: 14rem; padding: .5rem; }
.lane.over { outline: 2px dashed #5b8def; }
.lane-title { font-size: 1rem; margin: 0 0 .5rem; }
.card { background: #fff; border-radius: 4px; padding: .5rem; margin-bottom: .5rem; cursor: grab; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="board" data-drop-url="{{.DropURL}}">
{{- range .View.Lanes}}
<section class="lane" data-column-id="{{.Column.ID}}">
{{.Header}}
{{- range .Cards}}
{{.View}}
{{- end}}
</section>
{{- end}}
</div>
<script>
(function () {
  var board = document.querySelector('.board');
  var dragged = null;
  board.addEventListener('dragstart', function (e) {
    var card = e.target.closest('.card');
    if (card) { dragged = card.dataset.cardId; }
  });
  board.addEventListener('dragover', function (e) {
    var lane = e.target.closest('.lane');
    if (lane) { e.preventDefault(); lane.classList.add('over'); }
  });
  board.addEventListener('dragleave', function (e) {
    var lane = e.target.closest('.lane');
    if (lane) { lane.classList.remove('over'); }
  });
  board.addEventListener('drop', function (e) {
    e.preventDefault();
    var lane = e.target.closest('.lane');
    var card = e.target.closest('.card');
    if (lane) { lane.classList.remove('over'); }
    if (!dragged || !lane) { dragged = null; return; }
    var gesture = card
      ? { dragged_id: dragged, drop_target_id: card.dataset.cardId, drop_target_kind: 'card' }
      : { dragged_id: dragged, drop_target_id: lane.dataset.columnId, drop_target_kind: 'column' };
    dragged = null;
    fetch(board.dataset.dropUrl, {
      method: 'POST',
      credentials: 'same-origin',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(gesture)
    }).then(function () { window.location.reload(); });
  });
})();
</script>
</body>
</html>
`))

// WritePage renders p as a complete HTML document.
func WritePage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
