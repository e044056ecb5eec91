package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/store"
)

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// newMockStore creates a sqlmock-backed store with automatic cleanup and
// expectation checking.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	s := newWithDB(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

var talentRowColumns = []string{
	"id", "name", "email", "contacts", "about", "experiences", "educations",
	"interests", "accomplishments", "created_at", "updated_at",
}

var applicationRowColumns = append([]string{
	"id", "process_id", "talent_id", "current_step", "created_at", "updated_at",
}, talentRowColumns...)

func TestListTalents(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .+ FROM talents").WithArgs("ana").
		WillReturnRows(sqlmock.NewRows(talentRowColumns).
			AddRow("t1", "Ana", "ana@example.com", "", "", "", "", "", "", fixedNow, fixedNow).
			AddRow("t2", "Mariana", "", "", "", "", "", "", "", fixedNow, fixedNow))

	got, err := s.ListTalents(context.Background(), "ana")
	if err != nil {
		t.Fatalf("ListTalents() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].Name != "Mariana" {
		t.Errorf("ListTalents() = %+v", got)
	}
}

func TestListTalents_EscapesWildcards(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"  ana ", "ana"},
		{"a_a", `a\_a`},
		{"100%", `100\%`},
		{`back\slash`, `back\\slash`},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectQuery(`ESCAPE`).WithArgs(tt.want).
				WillReturnRows(sqlmock.NewRows(talentRowColumns))

			if _, err := s.ListTalents(context.Background(), tt.search); err != nil {
				t.Fatalf("ListTalents(%q) error: %v", tt.search, err)
			}
		})
	}
}

func TestGetTalent_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .+ FROM talents WHERE id = \\$1").WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetTalent(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetTalent() error = %v, want ErrNotFound", err)
	}
}

func TestCreateTalent_SetsTimestamps(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO talents").
		WithArgs("t1", "Ana", "", "", "", "", "", "", "", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tal := hr.Talent{ID: "t1", Name: "Ana"}
	if err := s.CreateTalent(context.Background(), &tal); err != nil {
		t.Fatalf("CreateTalent() error: %v", err)
	}
	if !tal.CreatedAt.Equal(fixedNow) || !tal.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v / %v, want %v", tal.CreatedAt, tal.UpdatedAt, fixedNow)
	}
}

func TestCreateTalent_Conflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO talents").
		WillReturnError(&pq.Error{Code: codeUniqueViolation})

	err := s.CreateTalent(context.Background(), &hr.Talent{ID: "t1", Name: "Ana"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("CreateTalent() error = %v, want ErrConflict", err)
	}
}

func TestDeleteTalent_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM talents WHERE id = \\$1").WithArgs("t9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteTalent(context.Background(), "t9"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("DeleteTalent() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProcessCategory(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("UPDATE selection_processes SET category = \\$2").
		WithArgs("p1", "quality", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "category", "created_at", "updated_at"}).
			AddRow("p1", "QA lead", "quality", fixedNow.Add(-time.Hour), fixedNow))

	p, err := s.UpdateProcessCategory(context.Background(), "p1", hr.CategoryQuality)
	if err != nil {
		t.Fatalf("UpdateProcessCategory() error: %v", err)
	}
	if p.Category != hr.CategoryQuality || p.Description != "QA lead" {
		t.Errorf("UpdateProcessCategory() = %+v", p)
	}
}

func TestListApplications_UnknownProcess(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("px").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := s.ListApplications(context.Background(), "px")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("ListApplications() error = %v, want ErrNotFound", err)
	}
}

func TestListApplications_EmbedsTalent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM applications a JOIN talents t").WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).
			AddRow("a1", "p1", "t1", "HR_INTERVIEW", fixedNow, fixedNow,
				"t1", "Ana", "ana@example.com", "", "", "", "", "", "", fixedNow, fixedNow))

	apps, err := s.ListApplications(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListApplications() error: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("ListApplications() returned %d rows, want 1", len(apps))
	}
	if apps[0].CurrentStep != hr.StepHRInterview || apps[0].Talent == nil || apps[0].Talent.Email != "ana@example.com" {
		t.Errorf("ListApplications()[0] = %+v", apps[0])
	}
}

func TestCreateApplication_MissingTalent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO applications").
		WithArgs("a1", "p1", "tx", "DATABASE", fixedNow).
		WillReturnError(&pq.Error{Code: codeForeignKeyViolation})

	err := s.CreateApplication(context.Background(), &hr.Application{ID: "a1", ProcessID: "p1", TalentID: "tx"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("CreateApplication() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateApplicationStep(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE applications SET current_step = \\$2").
		WithArgs("a1", "OFFER_PHASE", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM applications a JOIN talents t ON t.id = a.talent_id WHERE a.id = \\$1").WithArgs("a1").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).
			AddRow("a1", "p1", "t1", "OFFER_PHASE", fixedNow, fixedNow,
				"t1", "Ana", "", "", "", "", "", "", "", fixedNow, fixedNow))

	a, err := s.UpdateApplicationStep(context.Background(), "a1", hr.StepOfferPhase)
	if err != nil {
		t.Fatalf("UpdateApplicationStep() error: %v", err)
	}
	if a.CurrentStep != hr.StepOfferPhase {
		t.Errorf("CurrentStep = %q, want %q", a.CurrentStep, hr.StepOfferPhase)
	}
}

func TestUpdateApplicationStep_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE applications SET current_step").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateApplicationStep(context.Background(), "ax", hr.StepOfferPhase)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateApplicationStep() error = %v, want ErrNotFound", err)
	}
}
