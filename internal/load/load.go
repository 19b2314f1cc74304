// Package load is the load step: one wind and one seismic sub-form per
// height zone, whose results the backend computes.
package load

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"Loadline/internal/backend"
	"Loadline/internal/formstate"
	"Loadline/internal/page"
	"Loadline/internal/wizard"
)

// Projects stores and restores page sections of the current project.
type Projects interface {
	Save(ctx context.Context, section string, p *page.Page) error
	Restore(ctx context.Context, section string, p *page.Page) error
}

type Controller struct {
	Client   *backend.Client
	Projects Projects
	Logger   *slog.Logger
	Observer wizard.Observer

	mu    sync.Mutex
	page  *page.Page
	zones int
	grid  Grid
}

func NewController(c *backend.Client, projects Projects, logger *slog.Logger) *Controller {
	return &Controller{Client: c, Projects: projects, Logger: logger, page: page.New(), grid: Grid{}}
}

func (c *Controller) Page() *page.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Zones is the number of height zones of the open page.
func (c *Controller) Zones() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zones
}

// Grid returns a copy of the last wind results.
func (c *Controller) Grid() Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Grid, len(c.grid))
	for k, v := range c.grid {
		out[k] = v
	}
	return out
}

// Open asks the backend how many height zones the building has and builds
// one wind and one seismic sub-form for each, then restores saved values.
func (c *Controller) Open(ctx context.Context) (int, error) {
	zones, err := c.Client.HeightZones(ctx)
	if err != nil {
		return 0, err
	}
	n := len(zones)

	p := page.New()
	loaded := make([]<-chan struct{}, 0, 2*n)
	for zone := 1; zone <= n; zone++ {
		wireZone(p, zone)
		loaded = append(loaded, p.Load(windForm(zone)), p.Load(seismicForm(zone)))
	}

	c.mu.Lock()
	c.page = p
	c.zones = n
	c.grid = Grid{}
	c.mu.Unlock()
	c.Logger.Info("load page built", "zones", n)

	err = c.Projects.Restore(ctx, formstate.LoadPage, p)
	for _, ch := range loaded {
		<-ch
	}
	return n, err
}

type fieldReader struct {
	p   *page.Page
	err *wizard.ValidationError
}

func (r *fieldReader) number(id, label string, zone int) float64 {
	if r.err != nil {
		return 0
	}
	v, _ := r.p.Value(id)
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.err = wizard.Invalid(id, fmt.Sprintf("%s of height zone %d must be a number", label, zone))
	}
	return f
}

func (r *fieldReader) choice(group, label string, zone int) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.p.Checked(group)
	if !ok {
		r.err = wizard.Invalid(group, fmt.Sprintf("Select %s for height zone %d", label, zone))
	}
	return v
}

// WindRequest gathers the wind sub-forms into the parallel arrays the
// backend expects, indexed by zone.
func WindRequest(p *page.Page, zones int) (backend.WindLoadRequest, error) {
	r := &fieldReader{p: p}
	req := backend.WindLoadRequest{
		Ct:                       make([]float64, zones),
		ExposureFactor:           make([]string, zones),
		ManualCeCei:              make([]*float64, zones),
		InternalPressureCategory: make([]string, zones),
	}
	for i := 0; i < zones; i++ {
		zone := i + 1
		req.Ct[i] = r.number(CtID(zone), "Ct", zone)
		req.ExposureFactor[i] = r.choice(ExposureGroup(zone), "an exposure category", zone)
		if req.ExposureFactor[i] == ExposureIntermediate {
			ce := r.number(CeID(zone), "Ce", zone)
			req.ManualCeCei[i] = &ce
		}
		req.InternalPressureCategory[i] = r.choice(PressureGroup(zone), "an internal pressure category", zone)
	}
	if r.err != nil {
		return backend.WindLoadRequest{}, r.err
	}
	return req, nil
}

// SeismicRequest gathers ar, rp and cp of every zone.
func SeismicRequest(p *page.Page, zones int) (backend.SeismicLoadRequest, error) {
	r := &fieldReader{p: p}
	req := backend.SeismicLoadRequest{
		Ar: make([]float64, zones),
		Rp: make([]float64, zones),
		Cp: make([]float64, zones),
	}
	for i := 0; i < zones; i++ {
		zone := i + 1
		req.Ar[i] = r.number(ArID(zone), "Ar", zone)
		req.Rp[i] = r.number(RpID(zone), "Rp", zone)
		req.Cp[i] = r.number(CpID(zone), "Cp", zone)
	}
	if r.err != nil {
		return backend.SeismicLoadRequest{}, r.err
	}
	return req, nil
}

// zoneNumber prefers the zone's own number over its map key.
func zoneNumber(key string, hz backend.HeightZone) int {
	if hz.Number > 0 {
		return hz.Number
	}
	n, _ := strconv.Atoi(key)
	return n
}

// WindGrid maps every named structural zone of the response onto its cells.
// Unknown names are skipped.
func WindGrid(zones map[string]backend.HeightZone) Grid {
	g := Grid{}
	for key, hz := range zones {
		if hz.WindLoad == nil {
			continue
		}
		zone := zoneNumber(key, hz)
		for _, zp := range hz.WindLoad.Zones {
			slot, ok := Slot(zp.Name)
			if !ok {
				continue
			}
			g[Cell{Zone: zone, Slot: slot, Sign: Pos}] = zp.Pressure.PosULS.String()
			g[Cell{Zone: zone, Slot: slot, Sign: Neg}] = zp.Pressure.NegULS.String()
		}
	}
	return g
}

// CalculateWind posts the wind sub-forms, fetches the zones again and writes
// the pressures into their cells. Cells missing from the response are left
// blank.
func (c *Controller) CalculateWind(ctx context.Context) (Grid, error) {
	p, n := c.Page(), c.Zones()
	req, err := WindRequest(p, n)
	if err != nil {
		return nil, err
	}

	var grid Grid
	pl := &wizard.Pipeline{
		Name:     "wind",
		Observer: c.Observer,
		Stages: []wizard.Stage{
			{Name: "set_wind_load", Run: func(ctx context.Context) error {
				return c.Client.SetWindLoad(ctx, req)
			}},
			{Name: "get_height_zones", Run: func(ctx context.Context) error {
				zones, err := c.Client.HeightZones(ctx)
				grid = WindGrid(zones)
				return err
			}},
		},
	}
	if err := pl.Run(ctx); err != nil {
		c.Logger.Error("wind load calculation failed", "err", err)
		return nil, err
	}

	for zone := 1; zone <= n; zone++ {
		for slot := RoofInterior; slot <= WallCorner; slot++ {
			for _, sign := range []Sign{Pos, Neg} {
				_ = p.SetValue(Cell{Zone: zone, Slot: slot, Sign: sign}.ID(), "")
			}
		}
	}
	for _, cell := range grid.Cells() {
		if err := p.SetValue(cell.ID(), grid[cell]); err != nil {
			c.Logger.Warn("wind result has no cell", "cell", cell.ID())
		}
	}
	c.mu.Lock()
	c.grid = maps.Clone(grid)
	c.mu.Unlock()
	c.save(ctx, p)
	return grid, nil
}

// CalculateSeismic posts the seismic sub-forms and writes each zone's
// lateral force. The result is keyed by zone number.
func (c *Controller) CalculateSeismic(ctx context.Context) (map[int]string, error) {
	p, n := c.Page(), c.Zones()
	req, err := SeismicRequest(p, n)
	if err != nil {
		return nil, err
	}

	vp := map[int]string{}
	pl := &wizard.Pipeline{
		Name:     "seismic",
		Observer: c.Observer,
		Stages: []wizard.Stage{
			{Name: "set_seismic_load", Run: func(ctx context.Context) error {
				return c.Client.SetSeismicLoad(ctx, req)
			}},
			{Name: "get_height_zones", Run: func(ctx context.Context) error {
				zones, err := c.Client.HeightZones(ctx)
				for key, hz := range zones {
					if hz.SeismicLoad != nil {
						vp[zoneNumber(key, hz)] = hz.SeismicLoad.Vp.String()
					}
				}
				return err
			}},
		},
	}
	if err := pl.Run(ctx); err != nil {
		c.Logger.Error("seismic load calculation failed", "err", err)
		return nil, err
	}

	zones := make([]int, 0, len(vp))
	for z := range vp {
		zones = append(zones, z)
	}
	sort.Ints(zones)
	for _, z := range zones {
		_ = p.SetValue(VpID(z), vp[z])
	}
	c.save(ctx, p)
	return vp, nil
}

// save keeps the load page in the project. A failure is logged only; the
// results are already on screen.
func (c *Controller) save(ctx context.Context, p *page.Page) {
	if err := c.Projects.Save(ctx, formstate.LoadPage, p); err != nil {
		c.Logger.Error("save load page failed", "err", err)
	}
}
