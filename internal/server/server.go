// Package server exposes REA sessions over HTTP: the server-rendered form,
// downloads, a small JSON API, the OpenAPI document and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/goliatone/go-reaform/internal/config"
	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/notify"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/renderers/html"
	"github.com/goliatone/go-reaform/pkg/schema"
	"github.com/goliatone/go-reaform/pkg/session"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "rea_session"
	// CSRFField is the hidden form field carrying the session's form token.
	CSRFField = "_csrf"

	maxBodyBytes = 1 << 20
	maxSessions  = 10000
)

// Server serves one in-memory REA session per browser.
type Server struct {
	cfg       config.Config
	version   string
	vocab     *catalog.Vocabulary
	renderers *render.Registry
	schema    *schema.Document
	sessions  *sessionStore
	metrics   *metrics
	logger    *slog.Logger
	now       func() time.Time
	handler   http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVocabulary overrides the embedded vocabulary.
func WithVocabulary(vocab *catalog.Vocabulary) Option {
	return func(s *Server) {
		if vocab != nil {
			s.vocab = vocab
		}
	}
}

// WithRenderers replaces the renderer registry. It must contain the HTML
// renderer.
func WithRenderers(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithVersion sets the version reported by the OpenAPI document.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// WithClock overrides the clock used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New wires the renderers, the export schema and the session store.
func New(ctx context.Context, cfg config.Config, options ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		version: "dev",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.vocab == nil {
		vocab, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("server: load vocabulary: %w", err)
		}
		s.vocab = vocab
	}

	if s.renderers == nil {
		themes, err := html.NewThemes(cfg.Theme, cfg.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		htmlRenderer, err := html.New(html.WithThemes(themes))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		registry, err := render.NewRegistry(htmlRenderer)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderers = registry
	}
	if !s.renderers.Has(html.Name) {
		return nil, fmt.Errorf("server: renderer %q is not registered", html.Name)
	}

	doc, err := schema.Build(ctx, s.vocab, s.version)
	if err != nil {
		return nil, fmt.Errorf("server: build export schema: %w", err)
	}
	s.schema = doc

	notifyAfter := cfg.NotifyAfter
	s.sessions = newSessionStore(cfg.SessionTTL, s.now, func() *session.Session {
		return session.New(session.WithNotifier(notify.New(notify.WithDelay(notifyAfter))))
	})
	s.sessions.limit = maxSessions
	s.metrics = newMetrics(s.sessions)
	s.sessions.onDrop = func(n int) {
		s.metrics.evicted.Add(float64(n))
		s.logger.Debug("sessions dropped at capacity", "count", n)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleFormPost)
	mux.HandleFunc("GET /export.csv", s.handleDownload)
	mux.HandleFunc("GET /export.json", s.handleDownload)

	mux.HandleFunc("GET /api/record", s.handleRecord)
	mux.HandleFunc("POST /api/field", s.handleSetField)
	mux.HandleFunc("POST /api/materias", s.handleSetMateria)
	mux.HandleFunc("POST /api/flags", s.handleSetFlag)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/dismiss", s.handleDismiss)
	mux.HandleFunc("POST /api/validate", s.handleValidate)

	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(html.AssetsFS())))

	var handler http.Handler = s.metrics.instrument(mux)
	handler = accessLogMiddleware(s.logger)(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down within the
// configured grace period.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	evictCtx, stopEvict := context.WithCancel(ctx)
	defer stopEvict()
	go s.sessions.run(evictCtx, evictionInterval(s.cfg.SessionTTL), func(n int) {
		s.metrics.evicted.Add(float64(n))
		s.logger.Debug("sessions evicted", "count", n)
	})

	s.logger.Info("listening", "addr", ln.Addr().String(), "theme", s.cfg.Theme, "variant", s.cfg.ThemeVariant)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func evictionInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}
