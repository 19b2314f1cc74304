package projects

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"Loadline/internal/httpx"
)

type Handler struct {
	Ctl *Controller
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.Ctl.List(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, files)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := h.Ctl.Create(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	if err := h.Ctl.Open(r.Context(), id); err != nil {
		httpx.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	f, err := h.Ctl.Current(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}
