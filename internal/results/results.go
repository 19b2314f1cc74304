// Package results is the last wizard step: load combination tables, the
// simple model and the exported report.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"Loadline/internal/backend"
	"Loadline/internal/formstate"
	"Loadline/internal/load"
	"Loadline/internal/page"
	"Loadline/internal/tables"
)

// Table element ids.
const (
	WallTableID = "wall-combination-table"
	RoofTableID = "roof-combination-table"
)

// Projects stores and restores page sections of the current project.
type Projects interface {
	Save(ctx context.Context, section string, p *page.Page) error
	Restore(ctx context.Context, section string, p *page.Page) error
}

// WindResults is the wind grid computed on the load step.
type WindResults interface {
	Grid() load.Grid
}

type pair struct {
	name     string
	uls, sls string
	table    string
}

var (
	wallPair = pair{name: "wall", uls: ULSWall, sls: SLSWall, table: WallTableID}
	roofPair = pair{name: "roof", uls: ULSRoof, sls: SLSRoof, table: RoofTableID}
)

func pairOf(group string) (pair, bool) {
	switch group {
	case ULSWall, SLSWall:
		return wallPair, true
	case ULSRoof, SLSRoof:
		return roofPair, true
	}
	return pair{}, false
}

type Controller struct {
	Client   *backend.Client
	Projects Projects
	Wind     WindResults
	Logger   *slog.Logger

	mu     sync.Mutex
	page   *page.Page
	tables map[string]Table
}

func NewController(c *backend.Client, projects Projects, wind WindResults, logger *slog.Logger) *Controller {
	return &Controller{
		Client:   c,
		Projects: projects,
		Wind:     wind,
		Logger:   logger,
		page:     blankPage(),
		tables:   map[string]Table{},
	}
}

func selectorFragment(p *page.Page) {
	for _, group := range []string{ULSWall, SLSWall, ULSRoof, SLSRoof} {
		for i, o := range Options[group] {
			p.AddRadio(OptionID(group, i+1), group, o.Label)
		}
	}
}

func tableFragment(p *page.Page) {
	p.AddTable(WallTableID, "")
	p.AddTable(RoofTableID, "")
}

func blankPage() *page.Page {
	p := page.New()
	selectorFragment(p)
	tableFragment(p)
	return p
}

func (c *Controller) Page() *page.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Tables returns the combination tables fetched so far, keyed by table id.
func (c *Controller) Tables() map[string]Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Table, len(c.tables))
	for k, v := range c.tables {
		out[k] = v
	}
	return out
}

// Open builds the results page, restores the saved selections and fetches
// the tables of every pair that is complete.
func (c *Controller) Open(ctx context.Context) (*page.Page, error) {
	p := page.New()
	done := []<-chan struct{}{p.Load(selectorFragment), p.Load(tableFragment)}

	c.mu.Lock()
	c.page = p
	c.tables = map[string]Table{}
	c.mu.Unlock()

	err := c.Projects.Restore(ctx, formstate.ResultPage, p)
	for _, ch := range done {
		<-ch
	}
	if err != nil {
		return p, err
	}
	for _, pr := range []pair{wallPair, roofPair} {
		if _, err := c.refresh(ctx, pr); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Select checks a combination radio. When both members of its pair are
// chosen, the pair's table is fetched and returned.
func (c *Controller) Select(ctx context.Context, id string) (*Table, error) {
	p := c.Page()
	var group string
	for _, s := range p.Elements(page.Radio) {
		if s.ID == id {
			group = s.Group
		}
	}
	pr, ok := pairOf(group)
	if !ok {
		return nil, fmt.Errorf("%w: %s", page.ErrNotFound, id)
	}
	if err := p.Click(id); err != nil {
		return nil, err
	}
	t, err := c.refresh(ctx, pr)
	if err != nil {
		return nil, err
	}
	if err := c.Projects.Save(ctx, formstate.ResultPage, p); err != nil {
		c.Logger.Error("save result page failed", "err", err)
	}
	return t, nil
}

// refresh fetches the pair's table when both selections exist. It returns
// nil when the pair is incomplete.
func (c *Controller) refresh(ctx context.Context, pr pair) (*Table, error) {
	p := c.Page()
	ulsLabel, ok1 := p.Checked(pr.uls)
	slsLabel, ok2 := p.Checked(pr.sls)
	if !ok1 || !ok2 {
		return nil, nil
	}
	uls, _ := Lookup(pr.uls, ulsLabel)
	sls, _ := Lookup(pr.sls, slsLabel)

	var (
		t   Table
		raw json.RawMessage
		err error
	)
	if pr == wallPair {
		raw, err = c.Client.WallLoadCombinations(ctx, backend.WallCombinationRequest{ULSWallType: uls, SLSWallType: sls})
		if err == nil {
			t, err = WallTable(raw)
		}
	} else {
		raw, err = c.Client.RoofLoadCombinations(ctx, backend.RoofCombinationRequest{ULSRoofType: uls, SLSRoofType: sls})
		if err == nil {
			t, err = RoofTable(raw)
		}
	}
	if err != nil {
		c.Logger.Error(pr.name+" load combinations failed", "err", err)
		return nil, err
	}

	if err := p.SetMarkup(pr.table, tables.Render(pr.table, t.Header, t.Rows)); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tables[pr.table] = t
	c.mu.Unlock()
	return &t, nil
}

// SimpleModel asks the backend for the simplified building model.
func (c *Controller) SimpleModel(ctx context.Context, totalElevation, roofAngle float64) (json.RawMessage, error) {
	return c.Client.SimpleModel(ctx, backend.SimpleModelRequest{TotalElevation: totalElevation, RoofAngle: roofAngle})
}

func (c *Controller) GetSimpleModel(ctx context.Context, id int) (json.RawMessage, error) {
	return c.Client.GetSimpleModel(ctx, id)
}
