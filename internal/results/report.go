package results

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"Loadline/internal/load"
)

// Section is one titled table of the report.
type Section struct {
	Title string
	Table Table
}

type Report struct {
	Title    string
	Project  string
	Date     time.Time
	Sections []Section
}

// WindSection lists the wind pressures one row per zone and structural zone.
func WindSection(g load.Grid) Section {
	t := Table{Header: []string{"Height zone", "Structural zone", "Pos. ULS (kPa)", "Neg. ULS (kPa)"}}
	seen := map[[2]int]bool{}
	for _, c := range g.Cells() {
		key := [2]int{c.Zone, c.Slot}
		if seen[key] {
			continue
		}
		seen[key] = true
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.Zone),
			load.SlotNames[c.Slot-1],
			g[load.Cell{Zone: c.Zone, Slot: c.Slot, Sign: load.Pos}],
			g[load.Cell{Zone: c.Zone, Slot: c.Slot, Sign: load.Neg}],
		})
	}
	return Section{Title: "Wind loads", Table: t}
}

// Report collects the wind grid and the fetched combination tables.
func (c *Controller) Report(project string, now time.Time) Report {
	rep := Report{Title: "Load Report", Project: project, Date: now}
	if c.Wind != nil {
		if g := c.Wind.Grid(); len(g) > 0 {
			rep.Sections = append(rep.Sections, WindSection(g))
		}
	}
	ts := c.Tables()
	if t, ok := ts[WallTableID]; ok {
		rep.Sections = append(rep.Sections, Section{Title: "Wall load combinations", Table: t})
	}
	if t, ok := ts[RoofTableID]; ok {
		rep.Sections = append(rep.Sections, Section{Title: "Roof load combinations", Table: t})
	}
	return rep
}

// WritePDF renders the report on A4 pages.
func (r Report) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", r.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", r.Date.Format("2006-01-02")))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	for _, s := range r.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, s.Title)
		pdf.Ln(9)
		if len(s.Table.Header) == 0 {
			continue
		}
		colW := usable / float64(len(s.Table.Header))

		pdf.SetFont("Helvetica", "B", 9)
		for _, h := range s.Table.Header {
			pdf.CellFormat(colW, 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range s.Table.Rows {
			for i := range s.Table.Header {
				v := ""
				if i < len(row) {
					v = row[i]
				}
				pdf.CellFormat(colW, 6, v, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}
	return pdf.Output(w)
}

// WriteXLSX writes one sheet per section.
func (r Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	if len(r.Sections) == 0 {
		if err := f.SetCellValue(first, "A1", r.Title); err != nil {
			return err
		}
	}
	for i, s := range r.Sections {
		name := sheetName(s.Title)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		rows := append([][]string{s.Table.Header}, s.Table.Rows...)
		for j, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, j+1)
			if err != nil {
				return err
			}
			values := make([]any, len(row))
			for k, v := range row {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					values[k] = n
				} else {
					values[k] = v
				}
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return err
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// sheetName trims a title to the 31 characters a sheet name may have.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
