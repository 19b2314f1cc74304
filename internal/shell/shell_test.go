package shell

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"Loadline/internal/config"
	"Loadline/internal/logging"
	"Loadline/internal/store"
	"Loadline/internal/wizard"
)

func token(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

// newApp starts a fake backend and the shell API in front of it.
func newApp(t *testing.T, backendHandler http.HandlerFunc) (*App, *httptest.Server) {
	t.Helper()
	be := httptest.NewServer(backendHandler)
	t.Cleanup(be.Close)

	cfg := config.Default()
	cfg.BackendAddress = be.URL + "/"
	cfg.LoginRate = 100
	cfg.LoginBurst = 100

	buf := logging.NewBuffer(50)
	logger := logging.New(cfg, io.Discard, "loadline-test", buf)
	app, err := New(context.Background(), cfg, logger, buf, store.NewMemoryStore())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return app, srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestNew_SeedsBackendAddress(t *testing.T) {
	app, _ := newApp(t, func(w http.ResponseWriter, r *http.Request) {})

	addr, _ := app.Store.Get(context.Background(), store.KeyAddress)
	if addr == "" || strings.HasSuffix(addr, "/") {
		t.Errorf("address = %q, want seeded without trailing slash", addr)
	}
}

func TestLoginThenProfile(t *testing.T) {
	tok := token(t)
	_, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = io.WriteString(w, `{"access_token":"`+tok+`"}`)
		case "/get_user_profile":
			_, _ = io.WriteString(w, `{"username":"alice","email":"a@example.com"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if res := do(t, http.MethodGet, srv.URL+"/api/user/profile", ""); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("profile before login = %d, want 401", res.StatusCode)
	}

	res := do(t, http.MethodPost, srv.URL+"/api/login", `{"username":"alice","password":"secret"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login = %d", res.StatusCode)
	}

	res = do(t, http.MethodGet, srv.URL+"/api/user/profile", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("profile = %d", res.StatusCode)
	}
	var hdr map[string]string
	_ = json.NewDecoder(res.Body).Decode(&hdr)
	if hdr["username"] != "alice" {
		t.Errorf("profile = %v", hdr)
	}

	if res := do(t, http.MethodPost, srv.URL+"/api/logout", ""); res.StatusCode != http.StatusNoContent {
		t.Fatalf("logout = %d", res.StatusCode)
	}
	if res := do(t, http.MethodGet, srv.URL+"/api/user/profile", ""); res.StatusCode != http.StatusUnauthorized {
		t.Errorf("profile after logout = %d, want 401", res.StatusCode)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := do(t, http.MethodPost, srv.URL+"/api/login", `{"username":"alice","password":"nope"}`)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login = %d, want 401", res.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body["message"] != "Invalid username or password" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestPages_ClickAndValue(t *testing.T) {
	app, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {})
	_ = app.Store.Set(context.Background(), store.KeyToken, token(t))

	res := do(t, http.MethodPost, srv.URL+"/api/user/pages/input/value", `{"id":"width","value":"20"}`)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("set value = %d", res.StatusCode)
	}
	if v, _ := app.Input.Page().Value("width"); v != "20" {
		t.Errorf("width = %q", v)
	}

	res = do(t, http.MethodPost, srv.URL+"/api/user/pages/input/click", `{"id":"width"}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("click on an input = %d, want 400", res.StatusCode)
	}
	res = do(t, http.MethodPost, srv.URL+"/api/user/pages/input/click", `{"id":"missing"}`)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("click on missing = %d, want 404", res.StatusCode)
	}
	res = do(t, http.MethodGet, srv.URL+"/api/user/pages/nowhere", "")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("unknown step = %d, want 404", res.StatusCode)
	}
}

func TestSubmitValidationIs422(t *testing.T) {
	app, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {})
	_ = app.Store.Set(context.Background(), store.KeyToken, token(t))

	res := do(t, http.MethodPost, srv.URL+"/api/user/input/submit", "")
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("submit = %d, want 422", res.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body["field"] != "project-name" {
		t.Errorf("field = %q, want project-name", body["field"])
	}
}

func TestLogs(t *testing.T) {
	app, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {})
	app.Logger.Warn("something odd")
	app.Logger.Info("fine")

	res := do(t, http.MethodGet, srv.URL+"/api/logs?level=warn", "")
	var entries []logging.Entry
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Message != "something odd" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestEvents_Websocket(t *testing.T) {
	app, srv := newApp(t, func(w http.ResponseWriter, r *http.Request) {})
	_ = app.Store.Set(context.Background(), store.KeyToken, token(t))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/user/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for app.Hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	app.Hub.Publish(wizard.Event{Pipeline: "input", Stage: "roof", Kind: wizard.StageFailed, Error: "roof error: status 500"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev wizard.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if ev.Stage != "roof" || ev.Kind != wizard.StageFailed {
		t.Errorf("event = %+v", ev)
	}
}
