package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"Loadline/internal/backend"
	"Loadline/internal/page"
	"Loadline/internal/tables"
	"Loadline/internal/wizard"
)

// Limits of the numeric range checks.
const (
	MinVs30  = 140.0
	MaxVs30  = 3000.0
	MinSlope = 0.0
	MaxSlope = 360.0
)

// LocationUnavailable is written into the location result fields when the
// query failed.
const LocationUnavailable = "NA"

// Form is the input page once it passed validation.
type Form struct {
	ProjectName     string
	ProjectAddress  string
	Address         string
	SiteDesignation string
	SeismicValue    any

	Width       float64
	Mode        string
	Height      *float64
	EaveHeight  *float64
	RidgeHeight *float64

	CTop, CBot float64

	WRoof, LRoof, Slope, UniformDeadLoad float64

	NumFloor    int
	HOpening    *float64
	AutoZoning  bool
	Elevations  []tables.Elevation
	UnitWeights []tables.UnitWeight

	ImportanceCategory string
}

// BuildingHeight is the height the elevation table must end at: the height
// field, or the ridge height when the building is dimensioned by eave and
// ridge.
func (f Form) BuildingHeight() float64 {
	if f.Mode == ModeEaveRidge {
		return *f.RidgeHeight
	}
	return *f.Height
}

// reader pulls trimmed values off the page and remembers the first problem.
type reader struct {
	p   *page.Page
	err *wizard.ValidationError
}

func (r *reader) fail(field, format string, args ...any) {
	if r.err == nil {
		r.err = wizard.Invalid(field, fmt.Sprintf(format, args...))
	}
}

func (r *reader) text(id string) string {
	v, _ := r.p.Value(id)
	return strings.TrimSpace(v)
}

func (r *reader) required(id, label string) string {
	if r.err != nil {
		return ""
	}
	v := r.text(id)
	if v == "" {
		r.fail(id, "%s is required", label)
	}
	return v
}

func (r *reader) number(id, label string) float64 {
	v := r.required(id, label)
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(id, "%s must be a number", label)
		return 0
	}
	return f
}

func (r *reader) between(id, label string, lo, hi float64) float64 {
	f := r.number(id, label)
	if r.err == nil && (f < lo || f > hi) {
		r.fail(id, "%s must be between %g and %g", label, lo, hi)
	}
	return f
}

func (r *reader) choice(group, label string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.p.Checked(group)
	if !ok {
		r.fail(group, "Select %s", label)
	}
	return v
}

func (r *reader) optional(id, label string) *float64 {
	f := r.number(id, label)
	if r.err != nil {
		return nil
	}
	return &f
}

// Validate runs the input page checks top to bottom and returns the first
// failure as a *wizard.ValidationError.
func Validate(p *page.Page) (Form, error) {
	r := &reader{p: p}
	var f Form

	f.ProjectName = r.required(ProjectName, "Project name")
	f.ProjectAddress = r.required(ProjectAddress, "Project address")

	f.Address = r.required(Address, "Address")
	f.SiteDesignation = r.choice(SiteGroup, "a site designation")
	switch f.SiteDesignation {
	case backend.SiteDesignationVs30:
		f.SeismicValue = r.between(Vs30, "vs30", MinVs30, MaxVs30)
	case backend.SiteDesignationClass:
		f.SeismicValue = r.choice(SiteClassGrp, "a site class")
	}
	if r.err == nil && !LocationQueried(p) {
		r.fail(Address, "Query the location before continuing")
	}

	f.Width = r.number(Width, "Width")
	f.Mode = r.choice(DimModeGroup, "how the building height is given")
	switch f.Mode {
	case ModeHeight:
		f.Height = r.optional(Height, "Height")
	case ModeEaveRidge:
		f.EaveHeight = r.optional(EaveHeight, "Eave height")
		f.RidgeHeight = r.optional(RidgeHeight, "Ridge height")
	}

	f.CTop = r.number(CTop, "Top cladding")
	f.CBot = r.number(CBot, "Bottom cladding")

	f.WRoof = r.number(WRoof, "Roof width")
	f.LRoof = r.number(LRoof, "Roof length")
	f.Slope = r.between(Slope, "Roof slope", MinSlope, MaxSlope)
	f.UniformDeadLoad = r.number(UniformDeadLoad, "Uniform dead load")

	floors := r.number(NumFloor, "Number of floors")
	if r.err == nil && (floors < 1 || floors != float64(int(floors))) {
		r.fail(NumFloor, "Number of floors must be a whole number of at least 1")
	}
	f.NumFloor = int(floors)
	if r.choice(OpeningGroup, "whether there is a dominant opening") == Yes {
		f.HOpening = r.optional(MidHeight, "Mid-height of the opening")
	}

	f.AutoZoning = r.choice(ZoningGroup, "how height zones are chosen") == ZoningAuto
	if r.err == nil && !f.AutoZoning {
		f.Elevations, f.UnitWeights = r.zoneTables(f.BuildingHeight())
	}

	f.ImportanceCategory = r.choice(ImportanceGroup, "an importance category")

	if r.err != nil {
		return Form{}, r.err
	}
	return f, nil
}

// zoneTables checks the elevation and material tables against each other
// and the building height. The last elevation must equal the height exactly.
func (r *reader) zoneTables(height float64) ([]tables.Elevation, []tables.UnitWeight) {
	elevMarkup, _ := r.p.Markup(ElevationTable)
	elevs, err := tables.ParseElevations(elevMarkup)
	if err != nil {
		r.fail(ElevationTable, "%s", err)
		return nil, nil
	}
	matMarkup, _ := r.p.Markup(MaterialTable)
	mats, err := tables.ParseMaterials(matMarkup)
	if err != nil {
		r.fail(MaterialTable, "%s", err)
		return nil, nil
	}
	if len(elevs) == 0 {
		r.fail(ElevationTable, "Add at least one height zone")
		return nil, nil
	}
	if len(elevs) != len(mats) {
		r.fail(MaterialTable, "The material table must have one row per height zone (%d, not %d)", len(elevs), len(mats))
		return nil, nil
	}
	if !ascending(elevs) {
		r.fail(ElevationTable, "Elevations must increase from one height zone to the next")
		return nil, nil
	}
	if last := elevs[len(elevs)-1].Meters; last != height {
		r.fail(ElevationTable, "The last elevation (%g) must equal the building height (%g)", last, height)
		return nil, nil
	}
	return elevs, mats
}

func ascending(rows []tables.Elevation) bool {
	for i := 1; i < len(rows); i++ {
		if rows[i].Meters <= rows[i-1].Meters {
			return false
		}
	}
	return true
}

// LocationQueried reports whether every location result field holds a value
// from a successful query.
func LocationQueried(p *page.Page) bool {
	for _, id := range LocationResults {
		v, err := p.Value(id)
		if err != nil || v == "" || v == LocationUnavailable {
			return false
		}
	}
	return true
}
