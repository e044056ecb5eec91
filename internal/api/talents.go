package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/events"
	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/idgen"
)

func (s *Server) handleListTalents(w http.ResponseWriter, r *http.Request) {
	talents, err := s.store.ListTalents(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, talents)
}

func (s *Server) handleGetTalent(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTalent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTalent(w http.ResponseWriter, r *http.Request) {
	var t hr.Talent
	if !decode(w, r, &t) {
		return
	}
	if err := t.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.newID(idgen.PrefixTalent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t.ID = id
	if err := s.store.CreateTalent(r.Context(), &t); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("talent created", zap.String("id", t.ID))
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTalent(w http.ResponseWriter, r *http.Request) {
	var t hr.Talent
	if !decode(w, r, &t) {
		return
	}
	t.ID = mux.Vars(r)["id"]
	if err := t.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateTalent(r.Context(), &t); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTalent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteTalent(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("talent deleted", zap.String("id", id))
	s.publish(r.Context(), events.TopicTalentDeleted, events.TalentDeleted{TalentID: id})
	w.WriteHeader(http.StatusNoContent)
}
