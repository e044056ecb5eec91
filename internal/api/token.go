package api

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/auth"
)

// loginRequest accepts the account name as username or email.
type loginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func (l loginRequest) account() string {
	if l.Username != "" {
		return l.Username
	}
	return l.Email
}

type meResponse struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	account := req.account()
	pair, err := s.auth.Login(account, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("username", account))
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.fail(w, r, err)
		return
	}
	s.logger.Info("login", zap.String("username", account))
	setAccessCookie(w, r, pair.Access)
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}
	access, err := s.auth.Refresh(req.Refresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	setAccessCookie(w, r, access)
	writeJSON(w, http.StatusOK, refreshResponse{Access: access})
}

// handleMe describes the session behind the request's access token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	resp := meResponse{Username: claims.Username, SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func setAccessCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
