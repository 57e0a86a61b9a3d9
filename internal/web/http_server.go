package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/assets"
)

// HTTPServer serves the frame API and the viewer UI.
type HTTPServer struct {
	Addr string

	// StaticDir, when set to an existing directory, is served at "/" instead
	// of the embedded UI. The API remains available under /api/v1/.
	StaticDir string

	// DevMode enables permissive CORS.
	DevMode bool

	Deps   APIV1Deps
	Logger *log.Logger

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	closed bool
}

func NewHTTPServer(addr string, deps APIV1Deps) *HTTPServer {
	return &HTTPServer{Addr: addr, Deps: deps}
}

// Handler returns the router without starting a listener.
func (s *HTTPServer) Handler() http.Handler {
	var h http.Handler = NewRouter(s.StaticDir, APIV1Config{Deps: s.Deps})
	if s.DevMode {
		h = WithDevCORS(h)
	}
	return h
}

func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	addr := s.Addr
	if addr == "" {
		addr = ":8080"
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.srv = nil
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln
	logger.Info("web server listening", "addr", ln.Addr().String(), "dev", s.DevMode)

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	srv := s.srv
	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		logger.Error("web server stopped", "err", err)
	}()

	return nil
}

// ListenAddr returns the bound address once Start succeeded.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// StaticUIHandler serves dir, or the embedded UI when dir is empty.
func StaticUIHandler(dir string) http.Handler {
	if dir == "" {
		return cleanPath(http.FileServer(http.FS(assets.WebUI)))
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}
	return cleanPath(http.FileServer(http.Dir(dir)))
}

// cleanPath keeps requests from escaping the served root.
func cleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean("/" + r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
