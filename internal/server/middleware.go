package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/session"
)

type contextKey string

const sessionKey contextKey = "session"

// currentSession returns the authenticated session, or nil outside the
// guarded route group.
func currentSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// requireSession rejects requests without a valid session cookie and
// attaches the session to the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			respondError(w, errors.New(errors.ErrCodeUnauthorized, "login required"))
			return
		}

		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if stderrors.Is(err, session.ErrExpired) {
			s.clearSessionCookie(w)
			respondError(w, errors.New(errors.ErrCodeSessionExpired, "session expired, please log in again"))
			return
		}
		if err != nil {
			respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "session lookup"))
			return
		}
		if sess == nil {
			s.clearSessionCookie(w)
			respondError(w, errors.New(errors.ErrCodeUnauthorized, "login required"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
