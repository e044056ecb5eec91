package client

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/hr"
)

func (c *Client) ListTalents(ctx context.Context, search string) ([]hr.Talent, error) {
	path := "/api/applicants/"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []hr.Talent
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateTalent(ctx context.Context, t hr.Talent) (hr.Talent, error) {
	var out hr.Talent
	err := c.do(ctx, http.MethodPost, "/api/applicants/", t, &out)
	return out, err
}

func (c *Client) ListProcesses(ctx context.Context) ([]hr.SelectionProcess, error) {
	var out []hr.SelectionProcess
	err := c.do(ctx, http.MethodGet, "/api/selection-processes/", nil, &out)
	return out, err
}

func (c *Client) GetProcess(ctx context.Context, id string) (hr.SelectionProcess, error) {
	var out hr.SelectionProcess
	err := c.do(ctx, http.MethodGet, "/api/selection-processes/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateProcess(ctx context.Context, p hr.SelectionProcess) (hr.SelectionProcess, error) {
	var out hr.SelectionProcess
	err := c.do(ctx, http.MethodPost, "/api/selection-processes/", p, &out)
	return out, err
}

// MoveProcess changes a process's category.
func (c *Client) MoveProcess(ctx context.Context, id string, category hr.Category) (hr.SelectionProcess, error) {
	var out hr.SelectionProcess
	body := map[string]string{"category": string(category)}
	err := c.do(ctx, http.MethodPatch, "/api/selection-processes/"+escape(id)+"/", body, &out)
	return out, err
}

// DeleteProcess removes a process and its applications.
func (c *Client) DeleteProcess(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/selection-processes/"+escape(id)+"/", nil, nil)
}

func (c *Client) ListApplications(ctx context.Context, processID string) ([]hr.Application, error) {
	var out []hr.Application
	err := c.do(ctx, http.MethodGet, "/api/selection-processes/"+escape(processID)+"/applications", nil, &out)
	return out, err
}

// RegisterTalent creates an application of talentID into the process.
func (c *Client) RegisterTalent(ctx context.Context, processID, talentID string) (hr.Application, error) {
	var out hr.Application
	body := map[string]string{"talent_id": talentID}
	err := c.do(ctx, http.MethodPost, "/api/selection-processes/"+escape(processID)+"/applications", body, &out)
	return out, err
}

// MoveApplication changes an application's current step.
func (c *Client) MoveApplication(ctx context.Context, id string, step hr.Step) (hr.Application, error) {
	var out hr.Application
	body := map[string]string{"current_step": string(step)}
	err := c.do(ctx, http.MethodPatch, "/api/applications/"+escape(id)+"/", body, &out)
	return out, err
}

// ApplicationBoard is everything the applications board of a process shows.
type ApplicationBoard struct {
	Process      hr.SelectionProcess
	Applications []hr.Application
}

// Cards maps the applications onto board cards.
func (b ApplicationBoard) Cards() []board.Card {
	return hr.ApplicationCards(b.Applications)
}

// LoadApplicationBoard fetches the process, its applications and the talent
// list concurrently. Applications returned without an embedded talent get it
// from the talent list.
func (c *Client) LoadApplicationBoard(ctx context.Context, processID string) (ApplicationBoard, error) {
	var (
		b       ApplicationBoard
		talents []hr.Talent
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Process, err = c.GetProcess(ctx, processID)
		return err
	})
	g.Go(func() (err error) {
		b.Applications, err = c.ListApplications(ctx, processID)
		return err
	})
	g.Go(func() (err error) {
		talents, err = c.ListTalents(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return ApplicationBoard{}, err
	}

	byID := make(map[string]*hr.Talent, len(talents))
	for i := range talents {
		byID[talents[i].ID] = &talents[i]
	}
	for i := range b.Applications {
		if b.Applications[i].Talent == nil {
			b.Applications[i].Talent = byID[b.Applications[i].TalentID]
		}
	}
	return b, nil
}

// ProcessCards loads every process as a processes board card.
func (c *Client) ProcessCards(ctx context.Context) ([]board.Card, error) {
	ps, err := c.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	return hr.ProcessCards(ps), nil
}
