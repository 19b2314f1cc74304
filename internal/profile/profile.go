package profile

import (
	"context"
	"log/slog"
	"net/http"

	"Loadline/internal/auth"
	"Loadline/internal/backend"
	"Loadline/internal/httpx"
)

// Header is what the Home page shows above the project list.
type Header struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type ProfileHandler struct {
	Client *backend.Client
	Logger *slog.Logger
}

// Load fetches the profile of the logged-in user. sessionUser fills the
// username when the backend leaves it out.
func (h *ProfileHandler) Load(ctx context.Context, sessionUser string) (Header, error) {
	prof, err := h.Client.UserProfile(ctx)
	if err != nil {
		h.Logger.Error("get user profile failed", "err", err)
		return Header{}, err
	}
	hdr := Header{Username: prof.Username, Email: prof.Email, FullName: prof.FullName}
	if hdr.Username == "" {
		hdr.Username = sessionUser
	}
	return hdr, nil
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	hdr, err := h.Load(r.Context(), auth.Username(r.Context()))
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hdr)
}
