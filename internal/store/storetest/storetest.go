// Package storetest is a behaviour suite every store.Store backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/store"
)

// Factory returns a fresh, empty store for one test.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	suite.Run(t, &Suite{newStore: newStore})
}

type Suite struct {
	suite.Suite
	newStore Factory
	store    store.Store
	ctx      context.Context
}

func (s *Suite) SetupTest() {
	s.store = s.newStore(s.T())
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *Suite) seedTalent(id, name, email string) hr.Talent {
	t := hr.Talent{ID: id, Name: name, Email: email}
	s.Require().NoError(s.store.CreateTalent(s.ctx, &t))
	return t
}

func (s *Suite) seedProcess(id string, c hr.Category) hr.SelectionProcess {
	p := hr.SelectionProcess{ID: id, Description: "process " + id, Category: c}
	s.Require().NoError(s.store.CreateProcess(s.ctx, &p))
	return p
}

func (s *Suite) TestTalents() {
	s.Run("create sets timestamps", func() {
		t := s.seedTalent("t1", "Ana Souza", "ana@example.com")
		s.False(t.CreatedAt.IsZero())
		s.Equal(t.CreatedAt, t.UpdatedAt)
	})

	s.Run("list keeps insertion order and filters by name", func() {
		s.seedTalent("t2", "Bruno", "")
		s.seedTalent("t3", "Mariana", "")

		all, err := s.store.ListTalents(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(all, 3)
		s.Equal([]string{"t1", "t2", "t3"}, []string{all[0].ID, all[1].ID, all[2].ID})

		found, err := s.store.ListTalents(s.ctx, "ana")
		s.Require().NoError(err)
		s.Len(found, 2)
	})

	s.Run("search is a literal trimmed substring", func() {
		for _, q := range []string{"a_a", "%", "ari%"} {
			found, err := s.store.ListTalents(s.ctx, q)
			s.Require().NoError(err)
			s.Empty(found, "search %q", q)
		}

		found, err := s.store.ListTalents(s.ctx, "  MARI ")
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal("t3", found[0].ID)

		blank, err := s.store.ListTalents(s.ctx, "   ")
		s.Require().NoError(err)
		s.Len(blank, 3)
	})

	s.Run("update keeps created_at", func() {
		before, err := s.store.GetTalent(s.ctx, "t1")
		s.Require().NoError(err)
		upd := hr.Talent{ID: "t1", Name: "Ana S.", About: "Go developer"}
		s.Require().NoError(s.store.UpdateTalent(s.ctx, &upd))

		got, err := s.store.GetTalent(s.ctx, "t1")
		s.Require().NoError(err)
		s.Equal("Ana S.", got.Name)
		s.Equal("Go developer", got.About)
		s.True(got.CreatedAt.Equal(before.CreatedAt))
	})

	s.Run("missing talent", func() {
		_, err := s.store.GetTalent(s.ctx, "nope")
		s.ErrorIs(err, store.ErrNotFound)
		s.ErrorIs(s.store.UpdateTalent(s.ctx, &hr.Talent{ID: "nope", Name: "x"}), store.ErrNotFound)
		s.ErrorIs(s.store.DeleteTalent(s.ctx, "nope"), store.ErrNotFound)
	})
}

func (s *Suite) TestEmptyLists() {
	talents, err := s.store.ListTalents(s.ctx, "")
	s.Require().NoError(err)
	s.NotNil(talents)
	s.Empty(talents)

	processes, err := s.store.ListProcesses(s.ctx)
	s.Require().NoError(err)
	s.NotNil(processes)
	s.Empty(processes)
}

func (s *Suite) TestProcesses() {
	s.seedProcess("p1", hr.CategoryDevelopment)
	s.seedProcess("p2", hr.CategoryPeople)

	list, err := s.store.ListProcesses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("p1", list[0].ID)

	moved, err := s.store.UpdateProcessCategory(s.ctx, "p1", hr.CategoryQuality)
	s.Require().NoError(err)
	s.Equal(hr.CategoryQuality, moved.Category)

	got, err := s.store.GetProcess(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(hr.CategoryQuality, got.Category)

	_, err = s.store.UpdateProcessCategory(s.ctx, "missing", hr.CategoryQuality)
	s.ErrorIs(err, store.ErrNotFound)

	s.Require().NoError(s.store.DeleteProcess(s.ctx, "p2"))
	_, err = s.store.GetProcess(s.ctx, "p2")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestApplications() {
	s.seedProcess("p1", hr.CategoryDevelopment)
	s.seedTalent("t1", "Ana", "ana@example.com")
	s.seedTalent("t2", "Bia", "bia@example.com")

	s.Run("registration defaults to the database step and embeds the talent", func() {
		a := hr.Application{ID: "a1", ProcessID: "p1", TalentID: "t1"}
		s.Require().NoError(s.store.CreateApplication(s.ctx, &a))
		s.Equal(hr.DefaultStep, a.CurrentStep)
		s.Require().NotNil(a.Talent)
		s.Equal("Ana", a.Talent.Name)
	})

	s.Run("duplicate registration conflicts", func() {
		a := hr.Application{ID: "a2", ProcessID: "p1", TalentID: "t1"}
		s.ErrorIs(s.store.CreateApplication(s.ctx, &a), store.ErrConflict)
	})

	s.Run("missing process or talent", func() {
		s.ErrorIs(s.store.CreateApplication(s.ctx, &hr.Application{ID: "a3", ProcessID: "px", TalentID: "t1"}), store.ErrNotFound)
		s.ErrorIs(s.store.CreateApplication(s.ctx, &hr.Application{ID: "a3", ProcessID: "p1", TalentID: "tx"}), store.ErrNotFound)
		_, err := s.store.ListApplications(s.ctx, "px")
		s.ErrorIs(err, store.ErrNotFound)
	})

	s.Run("step update is visible in the list", func() {
		b := hr.Application{ID: "a4", ProcessID: "p1", TalentID: "t2", CurrentStep: hr.StepHunting}
		s.Require().NoError(s.store.CreateApplication(s.ctx, &b))

		moved, err := s.store.UpdateApplicationStep(s.ctx, "a1", hr.StepHRInterview)
		s.Require().NoError(err)
		s.Equal(hr.StepHRInterview, moved.CurrentStep)

		apps, err := s.store.ListApplications(s.ctx, "p1")
		s.Require().NoError(err)
		s.Require().Len(apps, 2)
		s.Equal("a1", apps[0].ID)
		s.Equal(hr.StepHRInterview, apps[0].CurrentStep)
		s.Equal(hr.StepHunting, apps[1].CurrentStep)
		s.Require().NotNil(apps[1].Talent)
		s.Equal("bia@example.com", apps[1].Talent.Email)

		_, err = s.store.UpdateApplicationStep(s.ctx, "nope", hr.StepHRInterview)
		s.ErrorIs(err, store.ErrNotFound)
	})

	s.Run("deleting a talent removes its applications", func() {
		s.Require().NoError(s.store.DeleteTalent(s.ctx, "t1"))
		_, err := s.store.GetApplication(s.ctx, "a1")
		s.ErrorIs(err, store.ErrNotFound)
		apps, err := s.store.ListApplications(s.ctx, "p1")
		s.Require().NoError(err)
		s.Len(apps, 1)
	})
}
