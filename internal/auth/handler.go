package auth

import (
	"errors"
	"net/http"

	"Loadline/internal/httpx"
)

type Handler struct {
	Ctl *Controller
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	err := h.Ctl.Login(r.Context(), req)
	if errors.Is(err, ErrInvalidCredentials) {
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	sess, err := h.Ctl.Session(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req Registerrequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := h.Ctl.Register(r.Context(), req); err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctl.Logout(r.Context()); err != nil {
		httpx.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Ctl.Session(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

type connectionRequest struct {
	Address string `json:"address"`
}

func (h *Handler) GetConnection(w http.ResponseWriter, r *http.Request) {
	addr, err := h.Ctl.Connection(r.Context())
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, connectionRequest{Address: addr})
}

func (h *Handler) SaveConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := h.Ctl.SaveConnection(r.Context(), req.Address); err != nil {
		httpx.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServerStatus reports whether the configured backend answers.
func (h *Handler) ServerStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctl.Client.ServerStatus(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"online": false, "error": err.Error()})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"online": true})
}
