package projects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"Loadline/internal/backend"
	"Loadline/internal/formstate"
	"Loadline/internal/page"
	"Loadline/internal/store"
)

// fakeBackend keeps one project store in memory.
type fakeBackend struct {
	mu      sync.Mutex
	current int
	data    map[int]string
	calls   []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.URL.Path)

	switch r.URL.Path {
	case "/get_all_user_save_data":
		_ = json.NewEncoder(w).Encode([]backend.SaveFile{
			{ID: 1, DateModified: "2024-01-01T00:00:00"},
			{ID: 2, DateModified: "2024-03-01T00:00:00"},
		})
	case "/set_user_save_data":
		var req backend.SaveDataRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		var id int
		if req.ID == nil {
			id = len(f.data) + 10
		} else {
			id = *req.ID
		}
		f.data[id] = req.JSONData
		_ = json.NewEncoder(w).Encode(backend.SaveFile{ID: id, JSONData: req.JSONData})
	case "/set_user_current_save_file":
		f.current, _ = strconv.Atoi(r.URL.Query().Get("current_save_file"))
	case "/get_user_current_save_file":
		_ = json.NewEncoder(w).Encode(backend.SaveFile{ID: f.current})
	case "/get_user_save_data":
		id, _ := strconv.Atoi(r.URL.Query().Get("id"))
		_ = json.NewEncoder(w).Encode(backend.SaveFile{ID: id, JSONData: f.data[id]})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newController(t *testing.T, fb *fakeBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	s := store.NewMemoryStore()
	_ = s.Set(context.Background(), store.KeyAddress, srv.URL)
	_ = s.Set(context.Background(), store.KeyToken, "tok")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(backend.NewClient(s, logger), logger, time.Second)
}

func TestList_NewestFirst(t *testing.T) {
	ctl := newController(t, &fakeBackend{data: map[int]string{}})

	files, err := ctl.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 2 || files[0].ID != 2 {
		t.Errorf("files = %+v, want id 2 first", files)
	}
}

func TestCreate_SelectsNewProject(t *testing.T) {
	fb := &fakeBackend{data: map[int]string{}}
	ctl := newController(t, fb)

	f, err := ctl.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if fb.current != f.ID || f.ID == 0 {
		t.Errorf("current = %d, created = %d", fb.current, f.ID)
	}
}

func TestSaveKeepsOtherSectionsAndRestores(t *testing.T) {
	fb := &fakeBackend{
		current: 5,
		data: map[int]string{
			5: `{"result_page":{"radio":{"uls-1":"a"},"input":{},"table":{}}}`,
		},
	}
	ctl := newController(t, fb)
	ctx := context.Background()

	src := page.New()
	src.AddInput("project-name", "Depot")
	src.AddRadio("xv", "site", "xv")
	_ = src.Click("xv")

	if err := ctl.Save(ctx, formstate.InputPage, src); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err := formstate.Parse([]byte(fb.data[5]))
	if err != nil {
		t.Fatal(err)
	}
	if doc[formstate.ResultPage].Radio["uls-1"] != "a" {
		t.Errorf("result_page section lost: %s", fb.data[5])
	}

	dst := page.New()
	dst.AddInput("project-name", "")
	dst.AddRadio("xv", "site", "xv")
	if err := ctl.Restore(ctx, formstate.InputPage, dst); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if v, _ := dst.Value("project-name"); v != "Depot" {
		t.Errorf("project-name = %q", v)
	}
	if v, ok := dst.Checked("site"); !ok || v != "xv" {
		t.Errorf("site = %q, %v", v, ok)
	}
}

func TestRestore_MissingElementTimesOut(t *testing.T) {
	fb := &fakeBackend{
		current: 1,
		data:    map[int]string{1: `{"input_page":{"input":{"ghost":"1"}}}`},
	}
	ctl := newController(t, fb)
	ctl.RestoreTimeout = 50 * time.Millisecond

	err := ctl.Restore(context.Background(), formstate.InputPage, page.New())
	if !errors.Is(err, formstate.ErrElementMissing) {
		t.Fatalf("Restore() error = %v, want ErrElementMissing", err)
	}
}
