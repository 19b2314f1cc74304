// Package shell hosts the wizard for a local front-end: it owns one
// controller per step and exposes them over a JSON API.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"Loadline/internal/auth"
	"Loadline/internal/backend"
	"Loadline/internal/config"
	"Loadline/internal/httpx"
	"Loadline/internal/input"
	"Loadline/internal/load"
	"Loadline/internal/logging"
	"Loadline/internal/page"
	"Loadline/internal/profile"
	"Loadline/internal/projects"
	"Loadline/internal/results"
	"Loadline/internal/store"
	"Loadline/internal/wizard"
)

// App wires the step controllers around one backend client.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Logs   *logging.Buffer
	Store  store.Store
	Client *backend.Client
	Hub    *Hub

	Auth     *auth.Controller
	Projects *projects.Controller
	Input    *input.Controller
	Load     *load.Controller
	Results  *results.Controller
}

// New builds the controllers. The configured backend address seeds the
// store when it holds none yet.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, logs *logging.Buffer, st store.Store) (*App, error) {
	addr, err := st.Get(ctx, store.KeyAddress)
	if err != nil {
		return nil, fmt.Errorf("read backend address: %w", err)
	}
	if addr == "" && cfg.BackendAddress != "" {
		if err := st.Set(ctx, store.KeyAddress, strings.TrimRight(cfg.BackendAddress, "/")); err != nil {
			return nil, fmt.Errorf("seed backend address: %w", err)
		}
	}

	client := backend.NewClient(st, logger.With("component", "backend"))
	hub := NewHub(logger.With("component", "events"))
	proj := projects.NewController(client, logger.With("step", wizard.StepHome), cfg.RestoreTimeout)

	in := input.NewController(client, proj, logger.With("step", wizard.StepInput))
	in.Observer = hub.Observer()
	ld := load.NewController(client, proj, logger.With("step", wizard.StepLoad))
	ld.Observer = hub.Observer()
	res := results.NewController(client, proj, ld, logger.With("step", wizard.StepResults))

	return &App{
		Config:   cfg,
		Logger:   logger,
		Logs:     logs,
		Store:    st,
		Client:   client,
		Hub:      hub,
		Auth:     auth.NewController(client, st, logger.With("step", wizard.StepLogin)),
		Projects: proj,
		Input:    in,
		Load:     ld,
		Results:  res,
	}, nil
}

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// Handler returns the API router wrapped in CORS.
func (a *App) Handler() http.Handler {
	mux := mux.NewRouter()
	a.HandleList(mux)
	return CORS(mux)
}

func (a *App) HandleList(mux *mux.Router) {
	authH := &auth.Handler{Ctl: a.Auth}
	limiter := auth.NewIPRateLimiter(rate.Limit(a.Config.LoginRate), a.Config.LoginBurst)

	api := mux.PathPrefix("/api").Subrouter()

	api.Handle("/login", limiter.LimitMiddleware(http.HandlerFunc(authH.LoginHandler))).Methods("POST")
	api.Handle("/register", limiter.LimitMiddleware(http.HandlerFunc(authH.RegisterHandler))).Methods("POST")
	api.HandleFunc("/logout", authH.LogoutHandler).Methods("POST")
	api.HandleFunc("/session", authH.SessionHandler).Methods("GET")
	api.HandleFunc("/connection", authH.GetConnection).Methods("GET")
	api.HandleFunc("/connection", authH.SaveConnection).Methods("PUT", "POST")
	api.HandleFunc("/server-status", authH.ServerStatus).Methods("GET")
	api.HandleFunc("/logs", a.LogsHandler).Methods("GET")
	api.HandleFunc("/logs", a.ClearLogsHandler).Methods("DELETE")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(a.Auth.RequireSession)

	profileH := &profile.ProfileHandler{Client: a.Client, Logger: a.Logger}
	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")

	projectsH := &projects.Handler{Ctl: a.Projects}
	secureApi.HandleFunc("/projects", projectsH.List).Methods("GET")
	secureApi.HandleFunc("/projects", projectsH.Create).Methods("POST")
	secureApi.HandleFunc("/projects/current", projectsH.Current).Methods("GET")
	secureApi.HandleFunc("/projects/{id:[0-9]+}/open", projectsH.Open).Methods("POST")

	pages := &Pages{Steps: map[wizard.Step]func() *page.Page{
		wizard.StepInput:   a.Input.Page,
		wizard.StepLoad:    a.Load.Page,
		wizard.StepResults: a.Results.Page,
	}}
	secureApi.HandleFunc("/pages/{step}", pages.Get).Methods("GET")
	secureApi.HandleFunc("/pages/{step}/click", pages.Click).Methods("POST")
	secureApi.HandleFunc("/pages/{step}/value", pages.SetValue).Methods("POST")

	inputH := &input.Handler{Ctl: a.Input}
	secureApi.HandleFunc("/input", inputH.Open).Methods("GET")
	secureApi.HandleFunc("/input/location", inputH.Location).Methods("POST")
	secureApi.HandleFunc("/input/zones", inputH.SetZones).Methods("PUT")
	secureApi.HandleFunc("/input/import", inputH.Import).Methods("POST")
	secureApi.HandleFunc("/input/submit", inputH.Submit).Methods("POST")

	loadH := &load.Handler{Ctl: a.Load}
	secureApi.HandleFunc("/load", loadH.Open).Methods("GET")
	secureApi.HandleFunc("/load/wind", loadH.Wind).Methods("POST")
	secureApi.HandleFunc("/load/seismic", loadH.Seismic).Methods("POST")

	resultsH := &results.Handler{Ctl: a.Results, Project: a.projectName}
	secureApi.HandleFunc("/results", resultsH.Open).Methods("GET")
	secureApi.HandleFunc("/results/select", resultsH.Select).Methods("POST")
	secureApi.HandleFunc("/results/simple-model", resultsH.SimpleModel).Methods("POST")
	secureApi.HandleFunc("/results/simple-model/{id:[0-9]+}", resultsH.GetSimpleModel).Methods("GET")
	secureApi.HandleFunc("/results/report.pdf", resultsH.PDF).Methods("GET")
	secureApi.HandleFunc("/results/report.xlsx", resultsH.XLSX).Methods("GET")

	secureApi.HandleFunc("/events", a.Hub.ServeWS).Methods("GET")
}

func (a *App) projectName() string {
	v, _ := a.Input.Page().Value(input.ProjectName)
	return v
}

// LogsHandler returns recent log entries, optionally filtered by
// ?level=warn,error.
func (a *App) LogsHandler(w http.ResponseWriter, r *http.Request) {
	var levels []string
	if v := r.URL.Query().Get("level"); v != "" {
		levels = strings.Split(v, ",")
	}
	entries := []logging.Entry{}
	if a.Logs != nil {
		entries = a.Logs.Entries(levels)
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

func (a *App) ClearLogsHandler(w http.ResponseWriter, r *http.Request) {
	if a.Logs != nil {
		a.Logs.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}
