package input

import (
	"Loadline/internal/backend"
	"Loadline/internal/page"
	"Loadline/internal/tables"
)

// Element ids of the input page.
const (
	ProjectName    = "project-name"
	ProjectAddress = "project-address"

	Address      = "address"
	SiteGroup    = "site-designation"
	SiteVs30     = "site-xv"
	SiteClass    = "site-xs"
	Vs30         = "vs30"
	SiteClassGrp = "site-class"
	WindPressure = "wind-velocity-pressure"
	SnowLoad     = "snow-load"
	RainLoad     = "rain-load"
	Sa02         = "design-spectral-acceleration-0-2"
	Sa1          = "design-spectral-acceleration-1"
	Latitude     = "latitude"
	Longitude    = "longitude"
	MapAddress   = "map-address"

	Width        = "width"
	DimModeGroup = "dimension-mode"
	DimHeight    = "dimension-height"
	DimEaveRidge = "dimension-eave-ridge"
	Height       = "height"
	EaveHeight   = "eave-height"
	RidgeHeight  = "ridge-height"

	CTop = "c-top"
	CBot = "c-bot"

	WRoof           = "w-roof"
	LRoof           = "l-roof"
	Slope           = "slope"
	UniformDeadLoad = "uniform-dead-load"

	NumFloor        = "num-floor"
	OpeningGroup    = "dominant-opening"
	OpeningYes      = "dominant-opening-yes"
	OpeningNo       = "dominant-opening-no"
	MidHeight       = "mid-height"
	ZoningGroup     = "height-zoning"
	ZoningDefault   = "zoning-default"
	ZoningCustom    = "zoning-custom"
	ElevationTable  = "elevation-table"
	MaterialTable   = "material-table"
	ImportanceGroup = "importance-category"
)

// Radio values.
const (
	ModeHeight    = "height"
	ModeEaveRidge = "eave_ridge"
	Yes           = "yes"
	No            = "no"
	ZoningAuto    = "default"
	ZoningManual  = "custom"
)

// SiteClasses are the site class letters offered when the site is
// designated by class.
var SiteClasses = []string{"A", "B", "C", "D", "E"}

// ImportanceCategories maps radio ids to the backend's category names.
var ImportanceCategories = []struct{ ID, Value string }{
	{"importance-low", "LOW"},
	{"importance-normal", "NORMAL"},
	{"importance-high", "HIGH"},
	{"importance-post-disaster", "POST_DISASTER"},
}

// LocationResults are the fields filled by a location query, in display order.
var LocationResults = []string{WindPressure, SnowLoad, RainLoad, Sa02, Sa1}

func siteClassID(class string) string { return "site-class-" + class }

func projectFragment(p *page.Page) {
	p.AddInput(ProjectName, "")
	p.AddInput(ProjectAddress, "")
}

func locationFragment(p *page.Page) {
	p.AddInput(Address, "")
	p.AddRadio(SiteVs30, SiteGroup, backend.SiteDesignationVs30)
	p.AddRadio(SiteClass, SiteGroup, backend.SiteDesignationClass)
	p.AddInput(Vs30, "")
	for _, c := range SiteClasses {
		p.AddRadio(siteClassID(c), SiteClassGrp, c)
	}
	for _, id := range LocationResults {
		p.AddInput(id, "")
	}
	p.AddInput(Latitude, "")
	p.AddInput(Longitude, "")
	p.AddInput(MapAddress, "")
}

func dimensionsFragment(p *page.Page) {
	p.AddInput(Width, "")
	p.AddRadio(DimHeight, DimModeGroup, ModeHeight)
	p.AddRadio(DimEaveRidge, DimModeGroup, ModeEaveRidge)
	p.AddInput(Height, "")
	p.AddInput(EaveHeight, "")
	p.AddInput(RidgeHeight, "")
}

func claddingFragment(p *page.Page) {
	p.AddInput(CTop, "")
	p.AddInput(CBot, "")
}

func roofFragment(p *page.Page) {
	p.AddInput(WRoof, "")
	p.AddInput(LRoof, "")
	p.AddInput(Slope, "")
	p.AddInput(UniformDeadLoad, "")
}

func buildingFragment(p *page.Page) {
	p.AddInput(NumFloor, "")
	p.AddRadio(OpeningYes, OpeningGroup, Yes)
	p.AddRadio(OpeningNo, OpeningGroup, No)
	p.AddInput(MidHeight, "")
	p.AddRadio(ZoningDefault, ZoningGroup, ZoningAuto)
	p.AddRadio(ZoningCustom, ZoningGroup, ZoningManual)
	p.AddTable(ElevationTable, tables.RenderElevations(ElevationTable, nil))
	p.AddTable(MaterialTable, tables.RenderMaterials(MaterialTable, nil))
}

func importanceFragment(p *page.Page) {
	for _, c := range ImportanceCategories {
		p.AddRadio(c.ID, ImportanceGroup, c.Value)
	}
}

var fragments = []page.Fragment{
	projectFragment,
	locationFragment,
	dimensionsFragment,
	claddingFragment,
	roofFragment,
	buildingFragment,
	importanceFragment,
}

// conditional is an element group shown only for some values of a radio
// group.
type conditional struct {
	group string
	show  map[string][]string
	all   []string
}

var conditionals = []conditional{
	{SiteGroup, map[string][]string{backend.SiteDesignationVs30: {Vs30}}, []string{Vs30}},
	{DimModeGroup, map[string][]string{
		ModeHeight:    {Height},
		ModeEaveRidge: {EaveHeight, RidgeHeight},
	}, []string{Height, EaveHeight, RidgeHeight}},
	{OpeningGroup, map[string][]string{Yes: {MidHeight}}, []string{MidHeight}},
	{ZoningGroup, map[string][]string{ZoningManual: {ElevationTable, MaterialTable}}, []string{ElevationTable, MaterialTable}},
}

func (c conditional) apply(p *page.Page, value string) {
	for _, id := range c.all {
		_ = p.SetHidden(id, true)
	}
	for _, id := range c.show[value] {
		_ = p.SetHidden(id, false)
	}
}

// wire hides the inputs that only apply to one radio choice.
func wire(p *page.Page) {
	for _, c := range conditionals {
		p.OnChange(c.group, func(v string) { c.apply(p, v) })
	}
}

// syncVisibility sets every conditional element from the radio currently
// checked. A handler that fired before its targets were attached is
// corrected here.
func syncVisibility(p *page.Page) {
	for _, c := range conditionals {
		v, _ := p.Checked(c.group)
		c.apply(p, v)
	}
}
