package input

import (
	"net/http"

	"Loadline/internal/httpx"
	"Loadline/internal/page"
	"Loadline/internal/tables"
	"Loadline/internal/wizard"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Ctl *Controller
}

type pageResponse struct {
	Status   string          `json:"status"`
	Elements []page.Snapshot `json:"elements"`
	Warning  string          `json:"warning,omitempty"`
}

func (h *Handler) snapshot(p *page.Page) pageResponse {
	return pageResponse{Status: h.Ctl.Status(), Elements: p.Elements(0)}
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	p, err := h.Ctl.Open(r.Context())
	resp := h.snapshot(p)
	if err != nil {
		resp.Warning = err.Error()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	res, err := h.Ctl.QueryLocation(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

type zonesRequest struct {
	Zones []struct {
		Zone      int     `json:"zone"`
		Elevation float64 `json:"elevation"`
		Weight    float64 `json:"unit_weight"`
	} `json:"zones"`
}

func (h *Handler) SetZones(w http.ResponseWriter, r *http.Request) {
	var req zonesRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	elevs := make([]tables.Elevation, len(req.Zones))
	weights := make([]tables.UnitWeight, len(req.Zones))
	for i, z := range req.Zones {
		elevs[i] = tables.Elevation{Zone: z.Zone, Meters: z.Elevation}
		weights[i] = tables.UnitWeight{Zone: z.Zone, Weight: z.Weight}
	}
	if err := h.Ctl.SetZones(elevs, weights); err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.snapshot(h.Ctl.Page()))
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "File too big")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	n, err := h.Ctl.Import(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
}

type submitResponse struct {
	Next   wizard.Step `json:"next"`
	Status string      `json:"status"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	next, err := h.Ctl.Submit(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, submitResponse{Next: next, Status: h.Ctl.Status()})
}
