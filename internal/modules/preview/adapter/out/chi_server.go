package out

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	previewout "suerga/internal/modules/preview/port/out"
)

const shutdownTimeout = 5 * time.Second

type ChiServer struct {
	logger zerolog.Logger
	// Ready, when set, receives the bound address once the listener is up.
	Ready chan<- string
}

func NewChiServer(logger zerolog.Logger) *ChiServer {
	return &ChiServer{logger: logger}
}

var _ previewout.Server = (*ChiServer)(nil)

func (s *ChiServer) Serve(ctx context.Context, addr, mount, dir string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           NewSiteHandler(mount, dir, s.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info().Str("addr", ln.Addr().String()).Str("mount", mount+"/").Msg("serving site")
	if s.Ready != nil {
		s.Ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// NewSiteHandler serves dir under mount, redirecting the bare mount path to its trailing-slash form.
func NewSiteHandler(mount, dir string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	files := http.FileServer(http.Dir(dir))
	if mount == "" {
		r.Handle("/*", files)
		return r
	}
	r.Get(mount, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, mount+"/", http.StatusMovedPermanently)
	})
	r.Handle(mount+"/*", http.StripPrefix(mount, files))
	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
