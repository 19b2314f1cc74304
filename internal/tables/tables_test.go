package tables

import (
	"reflect"
	"testing"
)

func TestParse_CellsAndInputs(t *testing.T) {
	markup := `<table id="t"><tr><th>Zone</th><th>Elevation (m)</th></tr>` +
		`<tr><td> 1 </td><td><input value="20"></td></tr>` +
		`<tr><td>2</td><td>4<b>5</b></td></tr></table>`

	got, err := Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"Zone", "Elevation (m)"}, {"1", "20"}, {"2", "45"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v; want %v", got, want)
	}
}

func TestRender_EscapesAndParsesBack(t *testing.T) {
	markup := Render("combo", []string{"#", "a<b"}, [][]string{{"1", "x&y"}})
	if markup != `<table id="combo"><tr><th>#</th><th>a&lt;b</th></tr><tr><td>1</td><td>x&amp;y</td></tr></table>` {
		t.Errorf("Render = %s", markup)
	}
	rows, err := Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][1] != "a<b" || rows[1][1] != "x&y" {
		t.Errorf("round trip rows = %v", rows)
	}
}

func TestElevations_RoundTrip(t *testing.T) {
	in := []Elevation{{Zone: 1, Meters: 20}, {Zone: 2, Meters: 45.5}}
	got, err := ParseElevations(RenderElevations("elevation_table", in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("ParseElevations = %v; want %v", got, in)
	}
}

func TestParseElevations_WithoutHeaderAndBadNumber(t *testing.T) {
	got, err := ParseElevations(`<table><tr><td>1</td><td>12</td></tr></table>`)
	if err != nil || len(got) != 1 || got[0].Meters != 12 {
		t.Errorf("ParseElevations = %v, %v", got, err)
	}
	if _, err := ParseElevations(`<table><tr><td>1</td><td>12</td></tr><tr><td>2</td><td>high</td></tr></table>`); err == nil {
		t.Error("expected error for non-numeric elevation")
	}
}

func TestParseMaterials(t *testing.T) {
	in := []UnitWeight{{Zone: 1, Weight: 7.5}, {Zone: 2, Weight: 6}}
	got, err := ParseMaterials(RenderMaterials("material_table", in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("ParseMaterials = %v; want %v", got, in)
	}
}
