package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/memory"
)

// Server runs the HTTP API with graceful shutdown and a background
// janitor that prunes idle session windows.
type Server struct {
	cfg      Config
	log      *zap.SugaredLogger
	sessions *memory.Sessions
	http     *http.Server
}

// NewServer builds a Server around the handler's routes.
func NewServer(cfg Config, h *Handler, sessions *memory.Sessions, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg, h, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.janitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Infow("server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// janitor drops session windows that have been idle longer than the
// configured TTL. Runs at half the TTL so a window is pruned at most
// 1.5 TTLs after its last use.
func (s *Server) janitor(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.SessionTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.PruneIdle(s.cfg.SessionTTL); n > 0 {
				s.log.Debugw("pruned idle sessions", "count", n)
			}
		}
	}
}
