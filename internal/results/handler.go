package results

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"Loadline/internal/backend"
	"Loadline/internal/httpx"
	"Loadline/internal/page"
)

type Handler struct {
	Ctl *Controller
	// Project names the report; it reads the project name field of the
	// input step.
	Project func() string
}

type pageResponse struct {
	Options  map[string][]Option `json:"options"`
	Elements []page.Snapshot     `json:"elements"`
	Tables   map[string]Table    `json:"tables"`
	Warning  string              `json:"warning,omitempty"`
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	p, err := h.Ctl.Open(r.Context())
	resp := pageResponse{Options: Options, Elements: p.Elements(0), Tables: h.Ctl.Tables()}
	if err != nil {
		resp.Warning = err.Error()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type selectRequest struct {
	ID string `json:"id"`
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	t, err := h.Ctl.Select(r.Context(), req.ID)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"table": t})
}

func (h *Handler) SimpleModel(w http.ResponseWriter, r *http.Request) {
	var req backend.SimpleModelRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	out, err := h.Ctl.SimpleModel(r.Context(), req.TotalElevation, req.RoofAngle)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetSimpleModel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid model id")
		return
	}
	out, err := h.Ctl.GetSimpleModel(r.Context(), id)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) report() Report {
	project := ""
	if h.Project != nil {
		project = h.Project()
	}
	return h.Ctl.Report(project, time.Now())
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"load-report.pdf\"")
	if err := h.report().WritePDF(w); err != nil {
		h.Ctl.Logger.Error("pdf report failed", "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
	}
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"load-report.xlsx\"")
	if err := h.report().WriteXLSX(w); err != nil {
		h.Ctl.Logger.Error("xlsx report failed", "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
	}
}
