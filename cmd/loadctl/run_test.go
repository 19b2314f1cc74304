package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"Loadline/internal/config"
	"Loadline/internal/formstate"
)

// calcBackend answers every call loadctl makes and keeps the project
// document in memory.
type calcBackend struct {
	mu    sync.Mutex
	calls []string
	doc   string
}

func (b *calcBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.URL.Path)

	switch r.URL.Path {
	case "/login":
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer"}`)
	case "/set_user_save_data":
		var req struct {
			JSONData string `json:"json_data"`
		}
		_ = json.Unmarshal(body, &req)
		b.doc = req.JSONData
		_, _ = io.WriteString(w, `{"id":7,"json_data":"{}"}`)
	case "/get_user_current_save_file":
		_, _ = io.WriteString(w, `{"id":7}`)
	case "/get_user_save_data":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "json_data": b.doc})
	case "/location":
		_, _ = io.WriteString(w, `{"wind_velocity_pressure":0.41,"snow_load":2.4,"rain_load":0.4,
			"design_spectral_acceleration_0_2":0.439,"design_spectral_acceleration_1":0.099}`)
	case "/get_height_zones":
		_, _ = io.WriteString(w, `{
			"1":{"height_zone_number":1,"elevation":20,"seismic_load":{"vp":12.5},
				"wind_load":{"zones":[{"name":"wall_centre","pressure":{"pos_uls":0.9,"neg_uls":-1.0}}]}},
			"2":{"height_zone_number":2,"elevation":45,"seismic_load":{"vp":18.1},
				"wind_load":{"zones":[{"name":"roof_corner","pressure":{"pos_uls":1.2,"neg_uls":-0.8}}]}}}`)
	case "/get_wall_load_combinations":
		_, _ = io.WriteString(w, `[{"zone":"wall_centre","uls":1.25,"sls":0.8}]`)
	case "/get_roof_load_combinations":
		_, _ = io.WriteString(w, `[["interior","edge"],[0.9,1.1],[-0.4,-0.7]]`)
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

// steps drops the project document reads and writes so the order of the
// wizard calls is easy to compare.
func (b *calcBackend) steps() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		switch c {
		case "/get_user_current_save_file", "/get_user_save_data", "/set_user_save_data":
			continue
		}
		out = append(out, c)
	}
	return out
}

func (b *calcBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == path {
			n++
		}
	}
	return n
}

const runProject = `
backend: %s
username: alice
password: secret
input:
  values:
    project-name: Depot
    project-address: 1 Main St
    address: Ottawa
    vs30: "400"
    width: "20"
    height: "45"
    c-top: "0.5"
    c-bot: "0.5"
    w-roof: "20"
    l-roof: "30"
    slope: "10"
    uniform-dead-load: "1.2"
    num-floor: "3"
  radios: [site-xv, dimension-height, dominant-opening-no, zoning-custom, importance-normal]
  zones:
    - {zone: 1, elevation: 20, unit_weight: 5}
    - {zone: 2, elevation: 45, unit_weight: 5}
wind:
  - {ct: "1", exposure: open, internal_pressure: enclosed}
  - {ct: "1", exposure: intermediate, ce: "0.9", internal_pressure: enclosed}
seismic:
  - {ar: "1", rp: "2.5", cp: "1"}
combinations:
  wall: {uls: "1.4D", sls: "1.0D + 1.0W"}
  roof: {uls: "1.4D", sls: "1.0D + 1.0S"}
report:
  pdf: %s
  xlsx: %s
`

func TestRun_EndToEnd(t *testing.T) {
	calc := &calcBackend{}
	srv := httptest.NewServer(calc)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	xlsx := filepath.Join(dir, "report.xlsx")
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(runProject, srv.URL, pdf, xlsx)), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.BackendAddress = "http://unused.invalid"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := run(context.Background(), cfg, logger, path); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := []string{
		"/login",
		"/set_user_current_save_file",
		"/location",
		"/location", "/dimensions", "/cladding", "/roof", "/building", "/importance_category",
		"/get_height_zones",
		"/set_wind_load", "/get_height_zones",
		"/set_seismic_load", "/get_height_zones",
		"/get_wall_load_combinations",
		"/get_roof_load_combinations",
	}
	if got := calc.steps(); !slices.Equal(got, want) {
		t.Errorf("calls = %v\nwant    %v", got, want)
	}
	// One create, one save of the input page, two of the load page and one
	// per combination selection.
	if n := calc.count("/set_user_save_data"); n != 8 {
		t.Errorf("set_user_save_data calls = %d, want 8", n)
	}

	doc, err := formstate.Parse([]byte(calc.doc))
	if err != nil {
		t.Fatalf("saved document: %v", err)
	}
	for _, section := range []string{formstate.InputPage, formstate.LoadPage, formstate.ResultPage} {
		if doc[section].Len() == 0 {
			t.Errorf("saved document has no %s section: %s", section, calc.doc)
		}
	}

	for _, out := range []string{pdf, xlsx} {
		info, err := os.Stat(out)
		if err != nil {
			t.Fatalf("report %s: %v", filepath.Base(out), err)
		}
		if info.Size() == 0 {
			t.Errorf("report %s is empty", filepath.Base(out))
		}
	}
	head, _ := os.ReadFile(pdf)
	if !strings.HasPrefix(string(head), "%PDF") {
		t.Errorf("report.pdf does not start with %%PDF")
	}
}

func TestRun_UnknownCombination(t *testing.T) {
	calc := &calcBackend{}
	srv := httptest.NewServer(calc)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	project := strings.Replace(fmt.Sprintf(runProject, srv.URL, "", ""), `sls: "1.0D + 1.0S"`, `sls: "2.0S"`, 1)
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(project), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(context.Background(), config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)), path)
	if err == nil || !strings.Contains(err.Error(), `"2.0S"`) {
		t.Fatalf("run() error = %v, want unknown combination", err)
	}
	if slices.Contains(calc.steps(), "/get_roof_load_combinations") {
		t.Error("roof combinations fetched for an unknown selection")
	}
}
