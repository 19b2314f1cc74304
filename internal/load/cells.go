package load

import (
	"fmt"
	"sort"
)

// Sign selects the positive or negative ULS pressure of a slot.
type Sign int

const (
	Pos Sign = iota
	Neg
)

func (s Sign) String() string {
	if s == Neg {
		return "neg"
	}
	return "pos"
}

// Slots of the per-zone wind result table, one per named structural zone.
const (
	RoofInterior = 1
	RoofEdge     = 2
	RoofCorner   = 3
	WallCentre   = 4
	WallCorner   = 5
)

var slots = map[string]int{
	"roof_interior": RoofInterior,
	"roof_edge":     RoofEdge,
	"roof_corner":   RoofCorner,
	"wall_centre":   WallCentre,
	"wall_corner":   WallCorner,
}

// SlotNames lists the structural zone names in slot order.
var SlotNames = []string{"roof_interior", "roof_edge", "roof_corner", "wall_centre", "wall_corner"}

// Slot returns the table row of a named structural zone.
func Slot(name string) (int, bool) {
	s, ok := slots[name]
	return s, ok
}

// Cell addresses one wind pressure value.
type Cell struct {
	Zone int
	Slot int
	Sign Sign
}

// ID is the page element id of the cell, e.g. "pos-3-hz-2".
func (c Cell) ID() string {
	return fmt.Sprintf("%s-%d-hz-%d", c.Sign, c.Slot, c.Zone)
}

// Grid holds wind pressures as the backend sent them.
type Grid map[Cell]string

// Cells returns the populated cells ordered by zone, slot and sign.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g))
	for c := range g {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Sign < b.Sign
	})
	return out
}
