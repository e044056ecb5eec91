package api

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/auth"
	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/events"
	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/metrics"
	"github.com/gmllt/talentboard/internal/view"
)

// boardSource describes one board: its fixed columns, how to load its cards
// and how to persist a move.
type boardSource struct {
	name    string
	process string
	topic   string
	columns []board.Column
	load    func(ctx context.Context) ([]board.Card, error)
	move    func(ctx context.Context, intent board.MoveIntent) error
}

func (s *Server) processBoard() boardSource {
	return boardSource{
		name:    metrics.BoardProcesses,
		topic:   events.TopicProcessMoved,
		columns: hr.CategoryColumns(),
		load: func(ctx context.Context) ([]board.Card, error) {
			ps, err := s.store.ListProcesses(ctx)
			if err != nil {
				return nil, err
			}
			return hr.ProcessCards(ps), nil
		},
		move: func(ctx context.Context, in board.MoveIntent) error {
			_, err := s.store.UpdateProcessCategory(ctx, in.CardID, hr.Category(in.ToColumnID))
			return err
		},
	}
}

func (s *Server) applicationBoard(processID string) boardSource {
	return boardSource{
		name:    metrics.BoardApplications,
		process: processID,
		topic:   events.TopicApplicationMoved,
		columns: hr.StepColumns(),
		load: func(ctx context.Context) ([]board.Card, error) {
			apps, err := s.store.ListApplications(ctx, processID)
			if err != nil {
				return nil, err
			}
			return hr.ApplicationCards(apps), nil
		},
		move: func(ctx context.Context, in board.MoveIntent) error {
			_, err := s.store.UpdateApplicationStep(ctx, in.CardID, hr.Step(in.ToColumnID))
			return err
		},
	}
}

type dropResponse struct {
	Moved bool              `json:"moved"`
	Move  *board.MoveIntent `json:"move,omitempty"`
	Board board.Snapshot    `json:"board"`
}

// recordMove publishes and counts a move that has been stored.
func (s *Server) recordMove(ctx context.Context, boardName, topic string, in board.MoveIntent) {
	s.metrics.ObserveMove(boardName)
	s.logger.Info("card moved",
		zap.String("board", boardName),
		zap.String("card", in.CardID),
		zap.String("from", in.FromColumnID),
		zap.String("to", in.ToColumnID))
	s.publish(ctx, topic, events.CardMoved{
		CardID:       in.CardID,
		FromColumnID: in.FromColumnID,
		ToColumnID:   in.ToColumnID,
		MovedBy:      auth.Username(ctx),
	})
}

func (s *Server) reconciler(src boardSource) (*board.Reconciler[string], error) {
	return board.New[string](src.columns, board.Plain{}, func(ctx context.Context, in board.MoveIntent) error {
		if err := src.move(ctx, in); err != nil {
			s.metrics.ObserveFailure(src.name)
			return err
		}
		s.recordMove(ctx, src.name, src.topic, in)
		return nil
	})
}

// reportHidden logs the cards a board cannot show because their column is
// unknown.
func (s *Server) reportHidden(src boardSource, hidden []board.Card) {
	s.metrics.SetHidden(src.name, src.process, len(hidden))
	for _, c := range hidden {
		s.logger.Warn("card hidden: unknown column",
			zap.String("board", src.name), zap.String("process", src.process),
			zap.String("card", c.ID), zap.String("column", c.ColumnID))
	}
}

func (s *Server) serveBoard(w http.ResponseWriter, r *http.Request, src boardSource) {
	rec, err := s.reconciler(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cards, err := src.load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reportHidden(src, rec.Unplaced(cards))
	writeJSON(w, http.StatusOK, board.Snapshot{Lanes: rec.Group(cards)})
}

// serveDrop resolves a finished gesture against the current cards. A valid
// cross-column drop is stored once; anything else leaves the data untouched.
// Either way the response carries the board as it now is.
func (s *Server) serveDrop(w http.ResponseWriter, r *http.Request, src boardSource) {
	var g board.Gesture
	if !decode(w, r, &g) {
		return
	}
	rec, err := s.reconciler(src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()
	cards, err := src.load(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	intent, moved, err := rec.DragEnd(ctx, cards, g)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := dropResponse{Moved: moved}
	if moved {
		resp.Move = &intent
		if cards, err = src.load(ctx); err != nil {
			s.fail(w, r, err)
			return
		}
	} else {
		s.metrics.ObserveIgnored(src.name)
		s.logger.Debug("drop ignored",
			zap.String("board", src.name),
			zap.String("dragged", g.DraggedID),
			zap.String("target", g.DropTargetID),
			zap.Stringer("kind", g.DropTargetKind))
	}
	resp.Board = board.Snapshot{Lanes: rec.Group(cards)}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProcessBoard(w http.ResponseWriter, r *http.Request) {
	s.serveBoard(w, r, s.processBoard())
}

func (s *Server) handleApplicationBoard(w http.ResponseWriter, r *http.Request) {
	s.serveBoard(w, r, s.applicationBoard(mux.Vars(r)["id"]))
}

func (s *Server) handleProcessDrop(w http.ResponseWriter, r *http.Request) {
	s.serveDrop(w, r, s.processBoard())
}

func (s *Server) handleApplicationDrop(w http.ResponseWriter, r *http.Request) {
	s.serveDrop(w, r, s.applicationBoard(mux.Vars(r)["id"]))
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, src boardSource, title, dropURL string) {
	rec, err := board.New[template.HTML](src.columns, view.HTML{}, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cards, err := src.load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reportHidden(src, rec.Unplaced(cards))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.WritePage(w, view.Page{Title: title, DropURL: dropURL, View: rec.Render(cards)}); err != nil {
		s.logger.Error("render board page", zap.String("board", src.name), zap.Error(err))
	}
}

func (s *Server) handleProcessBoardPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, s.processBoard(), "Processos Seletivos", "/api/boards/processes/drop")
}

func (s *Server) handleApplicationBoardPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := s.store.GetProcess(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.servePage(w, r, s.applicationBoard(id), p.Description, "/api/boards/processes/"+id+"/drop")
}
