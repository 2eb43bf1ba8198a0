// Package server implements the labelforge HTTP API.
//
// The API covers account signup/login, workbook generation and upload,
// PDF sheet composition, and file listing/download. All generated files
// live under a single output directory; filenames are validated before
// any filesystem access.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labelforge/labelforge/internal/config"
	"github.com/labelforge/labelforge/pkg/auth"
	"github.com/labelforge/labelforge/pkg/barcode"
	"github.com/labelforge/labelforge/pkg/session"
	"github.com/labelforge/labelforge/pkg/sheet"
	"github.com/labelforge/labelforge/pkg/store"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "labelforge_session"

// maxUploadBytes caps multipart workbook uploads.
const maxUploadBytes = 32 << 20

// sessionSweepInterval is how often expired sessions are purged while the
// server runs. Redis expires its own keys; the sweep matters for the
// in-memory store, where abandoned sessions otherwise outlive their TTL.
const sessionSweepInterval = 15 * time.Minute

// Server wires the HTTP handlers to their backing services.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	auth     *auth.Service
	sessions session.Store
	batches  store.Store
	renderer barcode.Renderer
	composer *sheet.Composer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRenderer overrides the barcode renderer used for workbooks and PDFs.
func WithRenderer(r barcode.Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// New creates a server backed by the given stores.
func New(cfg *config.Config, users auth.Store, sessions session.Store, batches store.Store, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		auth:     auth.NewService(users),
		sessions: sessions,
		batches:  batches,
		renderer: barcode.NewCode128(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.composer = sheet.NewComposer(s.renderer, sheet.WithLogger(s.logger))
	return s
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/download/{filename}", s.handleDownload)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/create-excel", s.handleCreateExcel)
			r.Post("/upload-excel", s.handleUploadExcel)
			r.Post("/update-excel", s.handleUpdateExcel)
			r.Post("/rename-and-download", s.handleRenameAndDownload)
			r.Post("/generate-pdf", s.handleGeneratePDF)
			r.Get("/files", s.handleListFiles)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx, sessionSweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// sweepSessions purges expired sessions on a fixed interval until ctx is
// cancelled.
func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
