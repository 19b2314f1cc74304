package main

import (
	"os"
	"path/filepath"
	"testing"

	"Loadline/internal/results"
)

const sample = `
backend: http://127.0.0.1:8000
username: alice
password: secret
input:
  values:
    project-name: Depot
    width: "20"
  radios: [site-xv, dimension-height]
  zones:
    - {zone: 1, elevation: 20, unit_weight: 5}
    - {zone: 2, elevation: 45, unit_weight: 5}
wind:
  - {ct: "1", exposure: intermediate, ce: "0.9", internal_pressure: enclosed}
seismic:
  - {ar: "1", rp: "2.5", cp: "1"}
combinations:
  wall: {uls: "1.4D", sls: "1.0D + 1.0W"}
report:
  pdf: out.pdf
`

func TestReadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := readProject(path)
	if err != nil {
		t.Fatalf("readProject() error = %v", err)
	}
	if p.Input.Values["width"] != "20" || len(p.Input.Radios) != 2 {
		t.Errorf("input = %+v", p.Input)
	}
	if len(p.Input.Zones) != 2 || p.Input.Zones[1].Elevation != 45 {
		t.Errorf("zones = %+v", p.Input.Zones)
	}
	if p.Wind[0].Exposure != "intermediate" || p.Combinations.Wall.SLS != "1.0D + 1.0W" {
		t.Errorf("project = %+v", p)
	}
}

func TestReadProject_MissingCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte("username: alice\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readProject(path); err == nil {
		t.Fatal("readProject() error = nil, want missing password")
	}
}

func TestOptionID(t *testing.T) {
	id, ok := optionID(results.SLSWall, "1.0D + 1.0W")
	if !ok || id != results.OptionID(results.SLSWall, 2) {
		t.Errorf("optionID() = %q, %v", id, ok)
	}
	if _, ok := optionID(results.SLSWall, "2D"); ok {
		t.Error("optionID() found an unknown label")
	}
}
