package server

import (
	"net/http"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/session"
)

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(w, err)
		return
	}

	s.logger.Info("user registered", "username", user.Username)
	respondJSON(w, http.StatusCreated, authResponse{Status: "success", Username: user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	sess, err := session.New(user.ID, user.Username, s.cfg.SessionTTL.Duration)
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "create session"))
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}

	s.setSessionCookie(w, sess)
	respondJSON(w, http.StatusOK, authResponse{Status: "success", Username: user.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("session delete failed", "error", err)
		}
	}
	s.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
