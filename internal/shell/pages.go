package shell

import (
	"net/http"

	"github.com/gorilla/mux"

	"Loadline/internal/httpx"
	"Loadline/internal/page"
	"Loadline/internal/wizard"
)

// Pages gives the front-end generic access to the elements of each step's
// page: reading them, clicking radios and typing into inputs.
type Pages struct {
	Steps map[wizard.Step]func() *page.Page
}

func (ps *Pages) lookup(w http.ResponseWriter, r *http.Request) (*page.Page, bool) {
	get, ok := ps.Steps[wizard.Step(mux.Vars(r)["step"])]
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "unknown step")
		return nil, false
	}
	return get(), true
}

func (ps *Pages) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := ps.lookup(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"elements": p.Elements(0),
		"focused":  p.Focused(),
	})
}

type elementRequest struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func (ps *Pages) Click(w http.ResponseWriter, r *http.Request) {
	p, ok := ps.lookup(w, r)
	if !ok {
		return
	}
	var req elementRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := p.Click(req.ID); err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"elements": p.Elements(0)})
}

func (ps *Pages) SetValue(w http.ResponseWriter, r *http.Request) {
	p, ok := ps.lookup(w, r)
	if !ok {
		return
	}
	var req elementRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := p.SetValue(req.ID, req.Value); err != nil {
		httpx.Fail(w, err)
		return
	}
	_ = p.Focus(req.ID)
	w.WriteHeader(http.StatusNoContent)
}
