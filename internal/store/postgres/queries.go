package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gmllt/talentboard/internal/hr"
)

const talentColumns = `id, name, email, contacts, about, experiences, educations, interests, accomplishments, created_at, updated_at`

const processColumns = `id, description, category, created_at, updated_at`

const applicationSelect = `SELECT a.id, a.process_id, a.talent_id, a.current_step, a.created_at, a.updated_at,
	t.id, t.name, t.email, t.contacts, t.about, t.experiences, t.educations, t.interests, t.accomplishments, t.created_at, t.updated_at
	FROM applications a JOIN talents t ON t.id = a.talent_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanTalent(row scanner) (hr.Talent, error) {
	var t hr.Talent
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Contacts, &t.About, &t.Experiences,
		&t.Educations, &t.Interests, &t.Accomplishments, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanProcess(row scanner) (hr.SelectionProcess, error) {
	var p hr.SelectionProcess
	err := row.Scan(&p.ID, &p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanApplication(row scanner) (hr.Application, error) {
	var (
		a hr.Application
		t hr.Talent
	)
	err := row.Scan(&a.ID, &a.ProcessID, &a.TalentID, &a.CurrentStep, &a.CreatedAt, &a.UpdatedAt,
		&t.ID, &t.Name, &t.Email, &t.Contacts, &t.About, &t.Experiences,
		&t.Educations, &t.Interests, &t.Accomplishments, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return hr.Application{}, err
	}
	a.Talent = &t
	return a, nil
}

// --- talents ---

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListTalents matches search as a literal substring of the name, like
// hr.FilterTalents.
func (s *Store) ListTalents(ctx context.Context, search string) ([]hr.Talent, error) {
	pattern := likeEscaper.Replace(strings.TrimSpace(search))
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+talentColumns+` FROM talents
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY created_at, id`, pattern)
	if err != nil {
		return nil, translate(err, "list talents")
	}
	defer rows.Close()

	out := []hr.Talent{}
	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return nil, translate(err, "scan talent")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTalent(ctx context.Context, id string) (hr.Talent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+talentColumns+` FROM talents WHERE id = $1`, id)
	t, err := scanTalent(row)
	if err != nil {
		return hr.Talent{}, translate(err, "talent "+id)
	}
	return t, nil
}

func (s *Store) CreateTalent(ctx context.Context, t *hr.Talent) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO talents (`+talentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		t.ID, t.Name, t.Email, t.Contacts, t.About, t.Experiences, t.Educations, t.Interests, t.Accomplishments, now)
	if err != nil {
		return translate(err, "create talent "+t.ID)
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (s *Store) UpdateTalent(ctx context.Context, t *hr.Talent) error {
	now := s.now()
	row := s.db.QueryRowContext(ctx,
		`UPDATE talents SET name = $2, email = $3, contacts = $4, about = $5, experiences = $6,
		educations = $7, interests = $8, accomplishments = $9, updated_at = $10
		WHERE id = $1 RETURNING created_at`,
		t.ID, t.Name, t.Email, t.Contacts, t.About, t.Experiences, t.Educations, t.Interests, t.Accomplishments, now)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return translate(err, "update talent "+t.ID)
	}
	t.UpdatedAt = now
	return nil
}

func (s *Store) DeleteTalent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM talents WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete talent "+id)
	}
	return expectOne(res, "talent "+id)
}

// --- selection processes ---

func (s *Store) ListProcesses(ctx context.Context) ([]hr.SelectionProcess, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+processColumns+` FROM selection_processes ORDER BY created_at, id`)
	if err != nil {
		return nil, translate(err, "list processes")
	}
	defer rows.Close()

	out := []hr.SelectionProcess{}
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, translate(err, "scan process")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProcess(ctx context.Context, id string) (hr.SelectionProcess, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+processColumns+` FROM selection_processes WHERE id = $1`, id)
	p, err := scanProcess(row)
	if err != nil {
		return hr.SelectionProcess{}, translate(err, "process "+id)
	}
	return p, nil
}

func (s *Store) CreateProcess(ctx context.Context, p *hr.SelectionProcess) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selection_processes (`+processColumns+`) VALUES ($1, $2, $3, $4, $4)`,
		p.ID, p.Description, string(p.Category), now)
	if err != nil {
		return translate(err, "create process "+p.ID)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (s *Store) UpdateProcessCategory(ctx context.Context, id string, c hr.Category) (hr.SelectionProcess, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE selection_processes SET category = $2, updated_at = $3 WHERE id = $1 RETURNING `+processColumns,
		id, string(c), s.now())
	p, err := scanProcess(row)
	if err != nil {
		return hr.SelectionProcess{}, translate(err, "process "+id)
	}
	return p, nil
}

func (s *Store) DeleteProcess(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM selection_processes WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete process "+id)
	}
	return expectOne(res, "process "+id)
}

// --- applications ---

func (s *Store) ListApplications(ctx context.Context, processID string) ([]hr.Application, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM selection_processes WHERE id = $1)`, processID).Scan(&exists); err != nil {
		return nil, translate(err, "process "+processID)
	}
	if !exists {
		return nil, translate(sql.ErrNoRows, "process "+processID)
	}

	rows, err := s.db.QueryContext(ctx, applicationSelect+` WHERE a.process_id = $1 ORDER BY a.created_at, a.id`, processID)
	if err != nil {
		return nil, translate(err, "list applications")
	}
	defer rows.Close()

	out := []hr.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, translate(err, "scan application")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetApplication(ctx context.Context, id string) (hr.Application, error) {
	a, err := scanApplication(s.db.QueryRowContext(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return hr.Application{}, translate(err, "application "+id)
	}
	return a, nil
}

func (s *Store) CreateApplication(ctx context.Context, a *hr.Application) error {
	if a.CurrentStep == "" {
		a.CurrentStep = hr.DefaultStep
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (id, process_id, talent_id, current_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		a.ID, a.ProcessID, a.TalentID, string(a.CurrentStep), now)
	if err != nil {
		return translate(err, "create application "+a.ID)
	}
	stored, err := s.GetApplication(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = stored
	return nil
}

func (s *Store) UpdateApplicationStep(ctx context.Context, id string, step hr.Step) (hr.Application, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET current_step = $2, updated_at = $3 WHERE id = $1`,
		id, string(step), s.now())
	if err != nil {
		return hr.Application{}, translate(err, "update application "+id)
	}
	if err := expectOne(res, "application "+id); err != nil {
		return hr.Application{}, err
	}
	return s.GetApplication(ctx, id)
}
