package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Loadline/internal/backend"
	"Loadline/internal/store"
	"Loadline/internal/wizard"
)

var ErrInvalidCredentials = errors.New("Invalid username or password")

// Controller backs the login page and the connection settings dialog.
type Controller struct {
	Client *backend.Client
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

func NewController(c *backend.Client, s store.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{Client: c, Store: s, Logger: logger, Now: time.Now}
}

type Loginrequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registerrequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Session is what the shell reports about the stored credentials.
type Session struct {
	LoggedIn       bool       `json:"logged_in"`
	Username       string     `json:"username,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	BackendAddress string     `json:"backend_address"`
}

// Login checks the credentials with the backend and stores the token. A 401
// yields ErrInvalidCredentials.
func (c *Controller) Login(ctx context.Context, req Loginrequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return wizard.Invalid("username", "Please enter a username")
	}
	if req.Password == "" {
		return wizard.Invalid("password", "Please enter a password")
	}

	res, err := c.Client.Login(ctx, req.Username, req.Password)
	if backend.IsStatus(err, http.StatusUnauthorized) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if res.AccessToken == "" {
		return fmt.Errorf("login: empty access token")
	}
	if err := c.Store.Set(ctx, store.KeyToken, res.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	c.Logger.Info("logged in", "username", req.Username)
	return nil
}

func (c *Controller) Register(ctx context.Context, req Registerrequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		return wizard.Invalid("username", "Please enter a username")
	}
	if req.Email == "" {
		return wizard.Invalid("email", "Please enter an email")
	}
	if len(req.Password) < 6 {
		return wizard.Invalid("password", "Password must be at least 6 characters")
	}
	return c.Client.Register(ctx, backend.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
}

// Logout resets the stored token.
func (c *Controller) Logout(ctx context.Context) error {
	return c.Store.Set(ctx, store.KeyToken, "")
}

func (c *Controller) Connection(ctx context.Context) (string, error) {
	return c.Store.Get(ctx, store.KeyAddress)
}

// SaveConnection stores a new backend base address. It applies from the next
// backend call on.
func (c *Controller) SaveConnection(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	u, err := url.Parse(address)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return wizard.Invalid("address", "Please enter a valid http(s) address")
	}
	if err := c.Store.Set(ctx, store.KeyAddress, strings.TrimRight(address, "/")); err != nil {
		return fmt.Errorf("store address: %w", err)
	}
	c.Logger.Info("backend address changed", "address", address)
	return nil
}

// Session reads the stored session. Expired tokens count as logged out.
func (c *Controller) Session(ctx context.Context) (Session, error) {
	addr, err := c.Store.Get(ctx, store.KeyAddress)
	if err != nil {
		return Session{}, err
	}
	token, err := c.Store.Get(ctx, store.KeyToken)
	if err != nil {
		return Session{}, err
	}
	s := Session{BackendAddress: addr}
	if token == "" {
		return s, nil
	}
	claims, err := backend.TokenClaims(token)
	if err != nil {
		return s, nil
	}
	if claims.Expired(c.Now()) {
		return s, nil
	}
	s.LoggedIn = true
	s.Username = claims.Subject
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt
		s.ExpiresAt = &exp
	}
	return s, nil
}
