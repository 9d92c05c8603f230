package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

func TestCreateTokens(t *testing.T) {
	srv := testServer(t, &stubBus{})

	rec := doRequest(t, srv, http.MethodPost, "/v1/auth/tokens", "",
		TokenRequest{User: "alice", Password: "correct-horse"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var resp TokenPairResponse
	decodeBody(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Error("access_token is empty")
	}
	if resp.RefreshToken == "" {
		t.Error("refresh_token is empty")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
}

func TestCreateTokens_Failures(t *testing.T) {
	srv := testServer(t, &stubBus{})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"wrong password", TokenRequest{User: "alice", Password: "battery-staple"}, http.StatusUnauthorized},
		{"unknown user", TokenRequest{User: "nobody", Password: "whatever"}, http.StatusUnauthorized},
		{"inactive user", TokenRequest{User: "mallory", Password: "anything"}, http.StatusUnauthorized},
		{"missing fields", TokenRequest{User: "alice"}, http.StatusBadRequest},
		{"invalid body", "not-json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/v1/auth/tokens", "", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}

			// A rejected login must never leak tokens.
			var resp TokenPairResponse
			decodeBody(t, rec, &resp)
			if resp.AccessToken != "" || resp.RefreshToken != "" {
				t.Error("failed login returned tokens")
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	b := &stubBus{available: true, replies: map[string]*bus.Message{
		bus.TypeInfo: authenticatedReply(bus.TypeInfoAnswer, map[string]any{"core_version": "0.0.8"}),
	}}
	srv := testServer(t, b)

	rec := doRequest(t, srv, http.MethodPost, "/v1/auth/tokens", "",
		TokenRequest{User: "alice", Password: "correct-horse"})
	var pair TokenPairResponse
	decodeBody(t, rec, &pair)

	rec = doRequest(t, srv, http.MethodGet, "/v1/auth/refresh", pair.RefreshToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp AccessTokenResponse
	decodeBody(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Fatal("refresh returned no access token")
	}

	// The refreshed token must work on a gated endpoint.
	rec = doRequest(t, srv, http.MethodGet, "/v1/system/info", resp.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("gated request with refreshed token status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	srv := testServer(t, &stubBus{})
	token := accessToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/v1/auth/refresh", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var e Error
	decodeBody(t, rec, &e)
	if e.Message != "invalid scope for token" {
		t.Errorf("message = %q, want scope error", e.Message)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	srv := testServer(t, &stubBus{})

	rec := doRequest(t, srv, http.MethodGet, "/v1/auth/refresh", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := testServer(t, &stubBus{})

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/v1/system/info", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/v1/system/info", "not-a-jwt", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		var e Error
		decodeBody(t, rec, &e)
		if e.Message != "invalid access token" {
			t.Errorf("message = %q, want invalid access token", e.Message)
		}
	})

	t.Run("refresh token on gated route", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/v1/auth/tokens", "",
			TokenRequest{User: "alice", Password: "correct-horse"})
		var pair TokenPairResponse
		decodeBody(t, rec, &pair)

		rec = doRequest(t, srv, http.MethodGet, "/v1/system/info", pair.RefreshToken, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		var e Error
		decodeBody(t, rec, &e)
		if e.Message != "invalid scope for token" {
			t.Errorf("message = %q, want scope error", e.Message)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		// A valid token under the wrong scheme is still rejected.
		token := accessToken(t, srv)
		req := httptest.NewRequest(http.MethodGet, "/v1/system/info", nil)
		req.Header.Set("Authorization", "Token "+token)
		rec := httptest.NewRecorder()
		srv.buildRouter().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	// Negative TTL: tokens are expired the moment they are minted.
	srv := testServerTTL(t, &stubBus{}, -time.Minute)

	rec := doRequest(t, srv, http.MethodPost, "/v1/auth/tokens", "",
		TokenRequest{User: "alice", Password: "correct-horse"})
	var pair TokenPairResponse
	decodeBody(t, rec, &pair)

	rec = doRequest(t, srv, http.MethodGet, "/v1/system/info", pair.AccessToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Expiry must be reported as expiry, never as an anonymous pass.
	var e Error
	decodeBody(t, rec, &e)
	if e.Message != "access token expired" {
		t.Errorf("message = %q, want access token expired", e.Message)
	}
}
