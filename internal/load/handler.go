package load

import (
	"net/http"

	"Loadline/internal/httpx"
	"Loadline/internal/page"
)

type Handler struct {
	Ctl *Controller
}

type cellJSON struct {
	ID    string `json:"id"`
	Zone  int    `json:"zone"`
	Slot  int    `json:"slot"`
	Sign  string `json:"sign"`
	Value string `json:"value"`
}

func cellsJSON(g Grid) []cellJSON {
	out := make([]cellJSON, 0, len(g))
	for _, c := range g.Cells() {
		out = append(out, cellJSON{ID: c.ID(), Zone: c.Zone, Slot: c.Slot, Sign: c.Sign.String(), Value: g[c]})
	}
	return out
}

type pageResponse struct {
	Zones    int             `json:"zones"`
	Elements []page.Snapshot `json:"elements"`
	Warning  string          `json:"warning,omitempty"`
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	n, err := h.Ctl.Open(r.Context())
	if err != nil && n == 0 {
		httpx.Fail(w, err)
		return
	}
	resp := pageResponse{Zones: n, Elements: h.Ctl.Page().Elements(0)}
	if err != nil {
		resp.Warning = err.Error()
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Wind(w http.ResponseWriter, r *http.Request) {
	g, err := h.Ctl.CalculateWind(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"cells": cellsJSON(g)})
}

func (h *Handler) Seismic(w http.ResponseWriter, r *http.Request) {
	vp, err := h.Ctl.CalculateSeismic(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"vp": vp})
}
