package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/events"
	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/idgen"
	"github.com/gmllt/talentboard/internal/metrics"
)

type categoryPatch struct {
	Category string `json:"category"`
}

type stepPatch struct {
	CurrentStep string `json:"current_step"`
}

type applicationRequest struct {
	TalentID string `json:"talent_id"`
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	ps, err := s.store.ListProcesses(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProcess(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProcess(w http.ResponseWriter, r *http.Request) {
	var p hr.SelectionProcess
	if !decode(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.newID(idgen.PrefixProcess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p.ID = id
	if err := s.store.CreateProcess(r.Context(), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("process created", zap.String("id", p.ID), zap.String("category", string(p.Category)))
	s.publish(r.Context(), events.TopicProcessCreated, events.ProcessCreated{Process: &p})
	writeJSON(w, http.StatusCreated, p)
}

// handleDeleteProcess removes a process together with its applications.
func (s *Server) handleDeleteProcess(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteProcess(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("process deleted", zap.String("id", id))
	s.publish(r.Context(), events.TopicProcessDeleted, events.ProcessDeleted{ProcessID: id})
	w.WriteHeader(http.StatusNoContent)
}

// handlePatchProcess moves a process to another category column.
func (s *Server) handlePatchProcess(w http.ResponseWriter, r *http.Request) {
	var req categoryPatch
	if !decode(w, r, &req) {
		return
	}
	category, err := hr.ParseCategory(req.Category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	before, err := s.store.GetProcess(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.store.UpdateProcessCategory(r.Context(), id, category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if before.Category != category {
		s.recordMove(r.Context(), metrics.BoardProcesses, events.TopicProcessMoved, board.MoveIntent{
			CardID: id, FromColumnID: string(before.Category), ToColumnID: string(category),
		})
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplications(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// handleCreateApplication registers a talent into the process. New
// applications start on the default step.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.TalentID == "" {
		writeError(w, http.StatusBadRequest, "talent_id is required")
		return
	}
	id, err := s.newID(idgen.PrefixApplication)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a := hr.Application{
		ID:          id,
		ProcessID:   mux.Vars(r)["id"],
		TalentID:    req.TalentID,
		CurrentStep: hr.DefaultStep,
	}
	if err := s.store.CreateApplication(r.Context(), &a); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("application created",
		zap.String("id", a.ID), zap.String("process", a.ProcessID), zap.String("talent", a.TalentID))
	s.publish(r.Context(), events.TopicApplicationCreated, events.ApplicationCreated{Application: &a})
	writeJSON(w, http.StatusCreated, a)
}

// handlePatchApplication moves an application to another step column.
func (s *Server) handlePatchApplication(w http.ResponseWriter, r *http.Request) {
	var req stepPatch
	if !decode(w, r, &req) {
		return
	}
	step, err := hr.ParseStep(req.CurrentStep)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	before, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.store.UpdateApplicationStep(r.Context(), id, step)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if before.CurrentStep != step {
		s.recordMove(r.Context(), metrics.BoardApplications, events.TopicApplicationMoved, board.MoveIntent{
			CardID: id, FromColumnID: string(before.CurrentStep), ToColumnID: string(step),
		})
	}
	writeJSON(w, http.StatusOK, a)
}
