package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"Loadline/internal/store"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *store.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s := store.NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, store.KeyAddress, srv.URL+"/")
	_ = s.Set(ctx, store.KeyToken, "tok")
	return NewClient(s, nil), s
}

func TestRequest_Headers(t *testing.T) {
	var gotAccept, gotCT, gotAuth, gotReqID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})

	t.Run("body and auth", func(t *testing.T) {
		res, err := c.Request(context.Background(), http.MethodPost, "/cladding", nil, map[string]int{"c_top": 1}, true)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if gotAccept != "application/json" {
			t.Errorf("Accept = %q", gotAccept)
		}
		if gotCT != "application/json" {
			t.Errorf("Content-Type = %q", gotCT)
		}
		if gotAuth != "Bearer tok" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if gotReqID == "" {
			t.Error("X-Request-ID missing")
		}
	})

	t.Run("no body no auth", func(t *testing.T) {
		res, err := c.Request(context.Background(), http.MethodGet, "/server_status", nil, nil, false)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if gotAccept != "application/json" {
			t.Errorf("Accept = %q", gotAccept)
		}
		if gotCT != "" {
			t.Errorf("Content-Type = %q; want empty", gotCT)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q; want empty", gotAuth)
		}
	})
}

func TestRequest_AddressReadEachCall(t *testing.T) {
	var hitsA, hitsB atomic.Int32
	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hitsA.Add(1) }))
	defer a.Close()
	b := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hitsB.Add(1) }))
	defer b.Close()

	s := store.NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, store.KeyAddress, a.URL)
	c := NewClient(s, nil)

	if err := c.ServerStatus(ctx); err != nil {
		t.Fatal(err)
	}
	_ = s.Set(ctx, store.KeyAddress, b.URL)
	if err := c.ServerStatus(ctx); err != nil {
		t.Fatal(err)
	}
	if hitsA.Load() != 1 || hitsB.Load() != 1 {
		t.Errorf("hits a=%d b=%d; want 1 and 1", hitsA.Load(), hitsB.Load())
	}
}

func TestRequest_NoAddress(t *testing.T) {
	c := NewClient(store.NewMemoryStore(), nil)
	if _, err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil, false); !errors.Is(err, ErrNoAddress) {
		t.Errorf("error = %v; want ErrNoAddress", err)
	}
}

func TestCall_NonOKIsStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad width", http.StatusUnprocessableEntity)
	})

	err := c.Dimensions(context.Background(), DimensionsRequest{Width: 10})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v; want *StatusError", err)
	}
	if se.Op != "dimensions" || se.Status != http.StatusUnprocessableEntity {
		t.Errorf("StatusError = %+v", se)
	}
	if se.Error() != "dimensions error: status 422" {
		t.Errorf("Error() = %q", se.Error())
	}
	if !IsStatus(err, http.StatusUnprocessableEntity) {
		t.Error("IsStatus(422) = false")
	}
}

func TestLogin_QueryParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("username") != "ann" || r.URL.Query().Get("password") != "pw&x" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "new"})
	})

	got, err := c.Login(context.Background(), "ann", "pw&x")
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "new" {
		t.Errorf("AccessToken = %q", got.AccessToken)
	}
}

func TestBuilding_NullZones(t *testing.T) {
	var body map[string]json.RawMessage
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
	})

	if err := c.Building(context.Background(), BuildingRequest{NumFloor: 3}); err != nil {
		t.Fatal(err)
	}
	if string(body["zones"]) != "null" || string(body["materials"]) != "null" {
		t.Errorf("zones=%s materials=%s; want null", body["zones"], body["materials"])
	}
	if string(body["h_opening"]) != "null" {
		t.Errorf("h_opening = %s; want null", body["h_opening"])
	}
}

func TestHeightZones_KeepsLiteralNumbers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"1":{"height_zone_number":1,"elevation":20,"wind_load":{"zones":[{"name":"roof_corner","pressure":{"pos_uls":1.20,"neg_uls":-0.8}}]}}}`)
	})

	zones, err := c.HeightZones(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	z := zones["1"].WindLoad.Zones[0]
	if z.Pressure.PosULS.String() != "1.20" || z.Pressure.NegULS.String() != "-0.8" {
		t.Errorf("pressure = %+v", z.Pressure)
	}
}

func TestTokenClaims(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ann", "exp": exp.Unix()})
	signed, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := TokenClaims(signed)
	if err != nil {
		t.Fatal(err)
	}
	if got.Subject != "ann" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if !got.ExpiresAt.Equal(exp) || !got.Expired(time.Now()) {
		t.Errorf("ExpiresAt = %v; want %v and expired", got.ExpiresAt, exp)
	}

	opaque, err := TokenClaims("not-a-jwt")
	if err != nil || !opaque.ExpiresAt.IsZero() || opaque.Expired(time.Now()) {
		t.Errorf("opaque token claims = %+v, %v", opaque, err)
	}

	if _, err := TokenClaims(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token error = %v", err)
	}
}
