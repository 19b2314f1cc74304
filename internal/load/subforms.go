package load

import (
	"fmt"

	"Loadline/internal/page"
)

// Exposure categories.
const (
	ExposureOpen         = "open"
	ExposureRough        = "rough"
	ExposureIntermediate = "intermediate"
)

var (
	Exposures         = []string{ExposureOpen, ExposureRough, ExposureIntermediate}
	InternalPressures = []string{"enclosed", "partially_enclosed", "large_openings"}
)

// DefaultCt is the topographic factor a new sub-form starts with.
const DefaultCt = "1"

func zoneID(name string, zone int) string { return fmt.Sprintf("%s-hz-%d", name, zone) }

func CtID(zone int) string            { return zoneID("ct", zone) }
func ExposureGroup(zone int) string   { return zoneID("exposure", zone) }
func CeID(zone int) string            { return zoneID("ce", zone) }
func PressureGroup(zone int) string   { return zoneID("internal-pressure", zone) }
func ArID(zone int) string            { return zoneID("ar", zone) }
func RpID(zone int) string            { return zoneID("rp", zone) }
func CpID(zone int) string            { return zoneID("cp", zone) }
func VpID(zone int) string            { return zoneID("vp", zone) }
func optionID(group, v string) string { return group + "-" + v }

// ExposureID is the radio of one exposure category in a zone.
func ExposureID(zone int, category string) string {
	return optionID(ExposureGroup(zone), category)
}

func PressureID(zone int, category string) string {
	return optionID(PressureGroup(zone), category)
}

// windForm is the wind sub-form of one height zone. Choosing the
// intermediate exposure reveals the Ce input.
func windForm(zone int) page.Fragment {
	return func(p *page.Page) {
		p.AddInput(CtID(zone), DefaultCt)
		p.AddInput(CeID(zone), "")
		_ = p.SetHidden(CeID(zone), true)
		for _, e := range Exposures {
			p.AddRadio(ExposureID(zone, e), ExposureGroup(zone), e)
		}
		for _, c := range InternalPressures {
			p.AddRadio(PressureID(zone, c), PressureGroup(zone), c)
		}
		for _, name := range SlotNames {
			slot, _ := Slot(name)
			for _, s := range []Sign{Pos, Neg} {
				p.AddInput(Cell{Zone: zone, Slot: slot, Sign: s}.ID(), "")
			}
		}
	}
}

func seismicForm(zone int) page.Fragment {
	return func(p *page.Page) {
		p.AddInput(ArID(zone), "")
		p.AddInput(RpID(zone), "")
		p.AddInput(CpID(zone), "")
		p.AddInput(VpID(zone), "")
	}
}

func wireZone(p *page.Page, zone int) {
	p.OnChange(ExposureGroup(zone), func(v string) {
		_ = p.SetHidden(CeID(zone), v != ExposureIntermediate)
	})
}
