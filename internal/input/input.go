// Package input is the input step of the wizard: the building form, its
// location lookup and the chained submission that builds the model on the
// backend.
package input

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"Loadline/internal/backend"
	"Loadline/internal/formstate"
	"Loadline/internal/page"
	"Loadline/internal/tables"
	"Loadline/internal/wizard"
)

// StatusProcessing is shown while a submission runs. A failed submission
// leaves it in place.
const StatusProcessing = "Processing..."

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

	mu     sync.Mutex
	page   *page.Page
	status string
}

func NewController(c *backend.Client, projects Projects, logger *slog.Logger) *Controller {
	return &Controller{Client: c, Projects: projects, Logger: logger, page: blankPage()}
}

func newPage() *page.Page {
	p := page.New()
	wire(p)
	return p
}

// blankPage is an input page with every fragment attached.
func blankPage() *page.Page {
	p := newPage()
	for _, f := range fragments {
		f(p)
	}
	syncVisibility(p)
	return p
}

// Page returns the page currently shown.
func (c *Controller) Page() *page.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Open builds a fresh input page and restores the current project's saved
// input onto it while the fragments are still being attached.
func (c *Controller) Open(ctx context.Context) (*page.Page, error) {
	p := newPage()
	loaded := make([]<-chan struct{}, 0, len(fragments))
	for _, f := range fragments {
		loaded = append(loaded, p.Load(f))
	}

	c.mu.Lock()
	c.page = p
	c.status = ""
	c.mu.Unlock()

	err := c.Projects.Restore(ctx, formstate.InputPage, p)
	for _, ch := range loaded {
		<-ch
	}
	syncVisibility(p)
	return p, err
}

func (c *Controller) seismicValue(p *page.Page) (string, any) {
	site, _ := p.Checked(SiteGroup)
	switch site {
	case backend.SiteDesignationVs30:
		v, _ := p.Value(Vs30)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return site, f
		}
		return site, v
	case backend.SiteDesignationClass:
		v, _ := p.Checked(SiteClassGrp)
		return site, v
	}
	return site, nil
}

// QueryLocation looks up the climatic and seismic data of the entered
// address. On failure every result field reads "NA".
func (c *Controller) QueryLocation(ctx context.Context) (backend.LocationResult, error) {
	p := c.Page()
	addr, _ := p.Value(Address)
	site, seismic := c.seismicValue(p)

	res, err := c.Client.Location(ctx, backend.LocationRequest{
		Address:         addr,
		SiteDesignation: site,
		SeismicValue:    seismic,
	})
	if err != nil {
		for _, id := range LocationResults {
			_ = p.SetValue(id, LocationUnavailable)
		}
		return backend.LocationResult{}, err
	}
	fill(p, res)
	return res, nil
}

func fill(p *page.Page, res backend.LocationResult) {
	values := []string{
		res.WindVelocityPressure.String(),
		res.SnowLoad.String(),
		res.RainLoad.String(),
		res.DesignSpectralAcceleration0_2.String(),
		res.DesignSpectralAcceleration1.String(),
	}
	for i, id := range LocationResults {
		_ = p.SetValue(id, values[i])
	}
	if res.Latitude != nil {
		_ = p.SetValue(Latitude, res.Latitude.String())
	}
	if res.Longitude != nil {
		_ = p.SetValue(Longitude, res.Longitude.String())
	}
	if res.Address != nil {
		_ = p.SetValue(MapAddress, *res.Address)
	}
}

// SetZones replaces the elevation and material tables.
func (c *Controller) SetZones(elevs []tables.Elevation, weights []tables.UnitWeight) error {
	p := c.Page()
	if err := p.SetMarkup(ElevationTable, tables.RenderElevations(ElevationTable, elevs)); err != nil {
		return err
	}
	return p.SetMarkup(MaterialTable, tables.RenderMaterials(MaterialTable, weights))
}

// Submit validates the page, saves it to the current project and sends it to
// the backend stage by stage. It returns the step to show next.
func (c *Controller) Submit(ctx context.Context) (wizard.Step, error) {
	p := c.Page()
	form, err := Validate(p)
	if err != nil {
		c.setStatus("")
		return wizard.StepInput, err
	}
	c.setStatus(StatusProcessing)

	if err := c.Projects.Save(ctx, formstate.InputPage, p); err != nil {
		c.Logger.Error("save input page failed", "err", err)
		return wizard.StepInput, &wizard.StageError{Stage: "save", Err: err}
	}

	pl := &wizard.Pipeline{
		Name:     "input",
		Stages:   c.stages(form),
		Observer: c.Observer,
	}
	if err := pl.Run(ctx); err != nil {
		c.Logger.Error("input submission failed", "err", err)
		return wizard.StepInput, err
	}
	c.setStatus("")
	c.Logger.Info("input submitted", "project", form.ProjectName)
	return wizard.StepLoad, nil
}

func (c *Controller) stages(f Form) []wizard.Stage {
	return []wizard.Stage{
		{Name: "location", Run: func(ctx context.Context) error {
			_, err := c.Client.Location(ctx, backend.LocationRequest{
				Address:         f.Address,
				SiteDesignation: f.SiteDesignation,
				SeismicValue:    f.SeismicValue,
			})
			return err
		}},
		{Name: "dimensions", Run: func(ctx context.Context) error {
			return c.Client.Dimensions(ctx, backend.DimensionsRequest{
				Width:       f.Width,
				Height:      f.Height,
				EaveHeight:  f.EaveHeight,
				RidgeHeight: f.RidgeHeight,
			})
		}},
		{Name: "cladding", Run: func(ctx context.Context) error {
			return c.Client.Cladding(ctx, backend.CladdingRequest{CTop: f.CTop, CBot: f.CBot})
		}},
		{Name: "roof", Run: func(ctx context.Context) error {
			return c.Client.Roof(ctx, backend.RoofRequest{
				WRoof:           f.WRoof,
				LRoof:           f.LRoof,
				Slope:           f.Slope,
				UniformDeadLoad: f.UniformDeadLoad,
			})
		}},
		{Name: "building", Run: func(ctx context.Context) error {
			return c.Client.Building(ctx, buildingRequest(f))
		}},
		{Name: "importance_category", Run: func(ctx context.Context) error {
			return c.Client.ImportanceCategory(ctx, f.ImportanceCategory)
		}},
	}
}

// buildingRequest leaves zones and materials null under default zoning.
func buildingRequest(f Form) backend.BuildingRequest {
	req := backend.BuildingRequest{NumFloor: f.NumFloor, HOpening: f.HOpening}
	if f.AutoZoning {
		return req
	}
	req.Zones = make([]backend.Zone, len(f.Elevations))
	for i, e := range f.Elevations {
		req.Zones[i] = backend.Zone{Number: e.Zone, Elevation: e.Meters}
	}
	req.Materials = make([]backend.Material, len(f.UnitWeights))
	for i, m := range f.UnitWeights {
		req.Materials[i] = backend.Material{Number: m.Zone, Weight: m.Weight}
	}
	return req
}
