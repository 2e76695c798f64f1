package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// Endpoint paths.
const (
	LiveReloadPath = "/livereload"
	StatusPath     = "/api/status"
	MetricsPath    = "/metrics"
)

// Server serves a rendered site together with the live reload, status and
// metrics endpoints.
type Server struct {
	Addr     string
	Dir      string
	Hub      *LiveReloadHub
	Status   *Status
	Registry *prometheus.Registry

	srv *http.Server
	ln  net.Listener
}

// Handler returns the HTTP handler. Endpoints with a nil backing value are
// not registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.Hub != nil {
		mux.Handle(LiveReloadPath, s.Hub)
	}
	if s.Status != nil {
		mux.Handle(StatusPath, s.Status)
	}
	if s.Registry != nil {
		mux.Handle(MetricsPath, metrics.HTTPHandler(s.Registry))
	}
	mux.Handle("/", siteHandler(s.Dir))
	return logRequests(mux)
}

// Start listens on Addr and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.Addr).
			Build()
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	slog.Info("Serving site", slog.String("addr", ln.Addr().String()), logfields.Path(s.Dir))
	return nil
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Stop shuts the server down. Live reload streams are closed first so
// Shutdown does not wait on them.
func (s *Server) Stop(ctx context.Context) error {
	if s.Hub != nil {
		s.Hub.Shutdown()
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// siteHandler serves dir with pretty URLs and the site's 404 page.
func siteHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		local := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
		info, err := os.Stat(local)
		switch {
		case err == nil && !info.IsDir():
		case err == nil && info.IsDir() && exists(filepath.Join(local, "index.html")):
		default:
			notFound(w, dir)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "404.html"))
	if err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(data)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.URL(r.URL.Path),
			logfields.Status(rec.status),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}
