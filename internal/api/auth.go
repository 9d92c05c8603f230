package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartgic/ovos-bridge/internal/auth"
)

// TokenRequest is the credential payload for POST /v1/auth/tokens.
type TokenRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// TokenPairResponse carries a freshly minted access/refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccessTokenResponse carries a single refreshed access token.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleCreateTokens exchanges a username/password pair for an
// access/refresh token pair. Every failure collapses to a single 401 so
// the response does not reveal whether the user exists.
func (s *Server) handleCreateTokens(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.User == "" || req.Password == "" {
		writeBadRequest(w, "user and password are required")
		return
	}

	user, err := s.users.Authenticate(req.User, req.Password)
	if err != nil {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	access, err := s.tokens.Issue(user, auth.ScopeAccess)
	if err != nil {
		s.logger.Error("issuing access token", "user", user.Name, "error", err)
		writeInternalError(w, "unable to issue tokens")
		return
	}
	refresh, err := s.tokens.Issue(user, auth.ScopeRefresh)
	if err != nil {
		s.logger.Error("issuing refresh token", "user", user.Name, "error", err)
		writeInternalError(w, "unable to issue tokens")
		return
	}

	writeJSON(w, http.StatusCreated, TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// handleRefresh mints a new access token from a bearer refresh token.
// The refresh token itself is never renewed.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeUnauthorized(w, "missing bearer token")
		return
	}

	access, err := s.tokens.Refresh(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			writeUnauthorized(w, "refresh token expired")
		case errors.Is(err, auth.ErrWrongScope):
			writeUnauthorized(w, "invalid scope for token")
		case errors.Is(err, auth.ErrUnknownUser):
			writeUnauthorized(w, "unknown or inactive user")
		default:
			writeUnauthorized(w, "invalid refresh token")
		}
		return
	}

	writeJSON(w, http.StatusOK, AccessTokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}
