package input

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Loadline/internal/tables"
)

var ErrEmptySheet = errors.New("sheet has no zone rows")

// ReadZones reads height zones from the first sheet of an XLSX workbook.
// Columns: zone, elevation (m), unit weight. A header row is skipped, as are
// rows whose numbers do not parse.
func ReadZones(r io.Reader) ([]tables.Elevation, []tables.UnitWeight, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}

	var (
		elevs   []tables.Elevation
		weights []tables.UnitWeight
	)
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		elev, err := toFloat(row[1])
		if err != nil {
			continue
		}
		weight, err := toFloat(row[2])
		if err != nil {
			continue
		}
		zone := len(elevs) + 1
		if n, err := strconv.Atoi(strings.TrimSpace(row[0])); err == nil {
			zone = n
		}
		elevs = append(elevs, tables.Elevation{Zone: zone, Meters: elev})
		weights = append(weights, tables.UnitWeight{Zone: zone, Weight: weight})
	}
	if len(elevs) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return elevs, weights, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Import fills the zone tables from a workbook and switches the page to
// custom height zoning.
func (c *Controller) Import(r io.Reader) (int, error) {
	elevs, weights, err := ReadZones(r)
	if err != nil {
		return 0, err
	}
	if err := c.SetZones(elevs, weights); err != nil {
		return 0, err
	}
	if err := c.Page().Click(ZoningCustom); err != nil {
		return 0, err
	}
	c.Logger.Info("height zones imported", "count", len(elevs))
	return len(elevs), nil
}
