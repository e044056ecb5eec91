package store

import (
	"context"
	"sync"
	"time"

	"github.com/gmllt/talentboard/internal/hr"
)

// Memory is an in-process Store. Data does not survive a restart.
type Memory struct {
	mu  sync.RWMutex
	doc Document
	now func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) ListTalents(_ context.Context, search string) ([]hr.Talent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.ListTalents(search), nil
}

func (m *Memory) GetTalent(_ context.Context, id string) (hr.Talent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Talent(id)
}

func (m *Memory) CreateTalent(_ context.Context, t *hr.Talent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.CreateTalent(t, m.now())
}

func (m *Memory) UpdateTalent(_ context.Context, t *hr.Talent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.UpdateTalent(t, m.now())
}

func (m *Memory) DeleteTalent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.DeleteTalent(id)
}

func (m *Memory) ListProcesses(_ context.Context) ([]hr.SelectionProcess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.ListProcesses(), nil
}

func (m *Memory) GetProcess(_ context.Context, id string) (hr.SelectionProcess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Process(id)
}

func (m *Memory) CreateProcess(_ context.Context, p *hr.SelectionProcess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.CreateProcess(p, m.now())
}

func (m *Memory) UpdateProcessCategory(_ context.Context, id string, c hr.Category) (hr.SelectionProcess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.UpdateProcessCategory(id, c, m.now())
}

func (m *Memory) DeleteProcess(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.DeleteProcess(id)
}

func (m *Memory) ListApplications(_ context.Context, processID string) ([]hr.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.ListApplications(processID)
}

func (m *Memory) GetApplication(_ context.Context, id string) (hr.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Application(id)
}

func (m *Memory) CreateApplication(_ context.Context, a *hr.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.CreateApplication(a, m.now())
}

func (m *Memory) UpdateApplicationStep(_ context.Context, id string, step hr.Step) (hr.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.UpdateApplicationStep(id, step, m.now())
}

func (m *Memory) Close() error { return nil }
