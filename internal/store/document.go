package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/gmllt/talentboard/internal/hr"
)

// Document is the whole dataset as one value. The memory backend keeps it in
// RAM and the S3 backend stores it as a single JSON object.
type Document struct {
	Talents      []hr.Talent           `json:"talents"`
	Processes    []hr.SelectionProcess `json:"processes"`
	Applications []hr.Application      `json:"applications"`
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func (d *Document) talentIndex(id string) int {
	return slices.IndexFunc(d.Talents, func(t hr.Talent) bool { return t.ID == id })
}

func (d *Document) processIndex(id string) int {
	return slices.IndexFunc(d.Processes, func(p hr.SelectionProcess) bool { return p.ID == id })
}

func (d *Document) applicationIndex(id string) int {
	return slices.IndexFunc(d.Applications, func(a hr.Application) bool { return a.ID == id })
}

func (d *Document) ListTalents(search string) []hr.Talent {
	return append([]hr.Talent{}, hr.FilterTalents(d.Talents, search)...)
}

func (d *Document) Talent(id string) (hr.Talent, error) {
	i := d.talentIndex(id)
	if i < 0 {
		return hr.Talent{}, notFound("talent", id)
	}
	return d.Talents[i], nil
}

func (d *Document) CreateTalent(t *hr.Talent, now time.Time) error {
	if d.talentIndex(t.ID) >= 0 {
		return fmt.Errorf("talent %s: %w", t.ID, ErrConflict)
	}
	t.CreatedAt, t.UpdatedAt = now, now
	d.Talents = append(d.Talents, *t)
	return nil
}

func (d *Document) UpdateTalent(t *hr.Talent, now time.Time) error {
	i := d.talentIndex(t.ID)
	if i < 0 {
		return notFound("talent", t.ID)
	}
	t.CreatedAt = d.Talents[i].CreatedAt
	t.UpdatedAt = now
	d.Talents[i] = *t
	return nil
}

// DeleteTalent removes the talent and every application it has.
func (d *Document) DeleteTalent(id string) error {
	i := d.talentIndex(id)
	if i < 0 {
		return notFound("talent", id)
	}
	d.Talents = slices.Delete(d.Talents, i, i+1)
	d.Applications = slices.DeleteFunc(d.Applications, func(a hr.Application) bool { return a.TalentID == id })
	return nil
}

func (d *Document) ListProcesses() []hr.SelectionProcess {
	return append([]hr.SelectionProcess{}, d.Processes...)
}

func (d *Document) Process(id string) (hr.SelectionProcess, error) {
	i := d.processIndex(id)
	if i < 0 {
		return hr.SelectionProcess{}, notFound("process", id)
	}
	return d.Processes[i], nil
}

func (d *Document) CreateProcess(p *hr.SelectionProcess, now time.Time) error {
	if d.processIndex(p.ID) >= 0 {
		return fmt.Errorf("process %s: %w", p.ID, ErrConflict)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	d.Processes = append(d.Processes, *p)
	return nil
}

func (d *Document) UpdateProcessCategory(id string, c hr.Category, now time.Time) (hr.SelectionProcess, error) {
	i := d.processIndex(id)
	if i < 0 {
		return hr.SelectionProcess{}, notFound("process", id)
	}
	d.Processes[i].Category = c
	d.Processes[i].UpdatedAt = now
	return d.Processes[i], nil
}

// DeleteProcess removes the process and its applications.
func (d *Document) DeleteProcess(id string) error {
	i := d.processIndex(id)
	if i < 0 {
		return notFound("process", id)
	}
	d.Processes = slices.Delete(d.Processes, i, i+1)
	d.Applications = slices.DeleteFunc(d.Applications, func(a hr.Application) bool { return a.ProcessID == id })
	return nil
}

func (d *Document) hydrate(a hr.Application) hr.Application {
	if i := d.talentIndex(a.TalentID); i >= 0 {
		t := d.Talents[i]
		a.Talent = &t
	}
	return a
}

func (d *Document) ListApplications(processID string) ([]hr.Application, error) {
	if d.processIndex(processID) < 0 {
		return nil, notFound("process", processID)
	}
	out := []hr.Application{}
	for _, a := range d.Applications {
		if a.ProcessID == processID {
			out = append(out, d.hydrate(a))
		}
	}
	return out, nil
}

func (d *Document) Application(id string) (hr.Application, error) {
	i := d.applicationIndex(id)
	if i < 0 {
		return hr.Application{}, notFound("application", id)
	}
	return d.hydrate(d.Applications[i]), nil
}

func (d *Document) CreateApplication(a *hr.Application, now time.Time) error {
	if d.processIndex(a.ProcessID) < 0 {
		return notFound("process", a.ProcessID)
	}
	if d.talentIndex(a.TalentID) < 0 {
		return notFound("talent", a.TalentID)
	}
	for _, existing := range d.Applications {
		if existing.ID == a.ID || (existing.ProcessID == a.ProcessID && existing.TalentID == a.TalentID) {
			return fmt.Errorf("talent %s in process %s: %w", a.TalentID, a.ProcessID, ErrConflict)
		}
	}
	if a.CurrentStep == "" {
		a.CurrentStep = hr.DefaultStep
	}
	a.CreatedAt, a.UpdatedAt = now, now
	stored := *a
	stored.Talent = nil
	d.Applications = append(d.Applications, stored)
	*a = d.hydrate(stored)
	return nil
}

func (d *Document) UpdateApplicationStep(id string, step hr.Step, now time.Time) (hr.Application, error) {
	i := d.applicationIndex(id)
	if i < 0 {
		return hr.Application{}, notFound("application", id)
	}
	d.Applications[i].CurrentStep = step
	d.Applications[i].UpdatedAt = now
	return d.hydrate(d.Applications[i]), nil
}
