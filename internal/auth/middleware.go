package auth

import (
	"context"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"Loadline/internal/backend"
	"Loadline/internal/httpx"
	"Loadline/internal/store"
)

type contextKey string

const usernameKey contextKey = "username"

// Username returns the session user put in ctx by RequireSession.
func Username(ctx context.Context) string {
	v, _ := ctx.Value(usernameKey).(string)
	return v
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// LimitMiddleware rejects requests over the per-address budget with 429.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !i.getLimiter(ip).Allow() {
			httpx.WriteError(w, http.StatusTooManyRequests, "Too many attempts. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession lets a request through only when a non-expired token is
// stored, and puts the token subject into the request context.
func (c *Controller) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := c.Store.Get(r.Context(), store.KeyToken)
		if err != nil {
			c.Logger.Error("read token", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "credential store unavailable")
			return
		}
		if token == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		claims, err := backend.TokenClaims(token)
		if err != nil || claims.Expired(c.Now()) {
			httpx.WriteError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
