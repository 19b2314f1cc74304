package tables

import (
	"fmt"
	"strconv"
	"strings"
)

// Elevation is one row of the height-zone elevation table.
type Elevation struct {
	Zone   int
	Meters float64
}

// UnitWeight is one row of the material table.
type UnitWeight struct {
	Zone   int
	Weight float64
}

// Header rows used when the wizard renders these tables.
var (
	ElevationHeader = []string{"Zone", "Elevation (m)"}
	MaterialHeader  = []string{"Zone", "Unit weight (kN/m³)"}
)

// ParseElevations reads (zone, elevation) rows, skipping header rows.
func ParseElevations(markup string) ([]Elevation, error) {
	rows, err := dataRows(markup)
	if err != nil {
		return nil, err
	}
	out := make([]Elevation, 0, len(rows))
	for i, r := range rows {
		v, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return nil, fmt.Errorf("elevation row %d: %q is not a number", i+1, r[1])
		}
		out = append(out, Elevation{Zone: zoneNumber(r[0], i), Meters: v})
	}
	return out, nil
}

// ParseMaterials reads (zone, unit weight) rows, skipping header rows.
func ParseMaterials(markup string) ([]UnitWeight, error) {
	rows, err := dataRows(markup)
	if err != nil {
		return nil, err
	}
	out := make([]UnitWeight, 0, len(rows))
	for i, r := range rows {
		v, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return nil, fmt.Errorf("material row %d: %q is not a number", i+1, r[1])
		}
		out = append(out, UnitWeight{Zone: zoneNumber(r[0], i), Weight: v})
	}
	return out, nil
}

func RenderElevations(id string, rows []Elevation) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{strconv.Itoa(r.Zone), strconv.FormatFloat(r.Meters, 'f', -1, 64)}
	}
	return Render(id, ElevationHeader, cells)
}

func RenderMaterials(id string, rows []UnitWeight) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{strconv.Itoa(r.Zone), strconv.FormatFloat(r.Weight, 'f', -1, 64)}
	}
	return Render(id, MaterialHeader, cells)
}

// dataRows keeps rows with at least two cells whose second cell is not a
// header label.
func dataRows(markup string) ([][]string, error) {
	rows, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for i, r := range rows {
		if len(r) < 2 {
			continue
		}
		if i == 0 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(r[1]), 64); err != nil {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func zoneNumber(cell string, index int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil {
		return n
	}
	return index + 1
}
