package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harrisonrobin/todoist-exporter/pkg/config"
	"github.com/harrisonrobin/todoist-exporter/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

var landingPage = template.Must(template.New("landing").Parse(`<html>
<head><title>Todoist Exporter</title></head>
<body>
<h1>Todoist Exporter</h1>
<p><a href="{{.}}">Metrics</a></p>
</body>
</html>
`))

// Server exposes a metrics registry over HTTP.
type Server struct {
	srv         *http.Server
	metricsPath string
}

func New(addr, metricsPath string, reg *metrics.Registry) *Server {
	s := &Server{metricsPath: metricsPath}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.routes(reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes(reg *metrics.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.metricsPath, promhttp.InstrumentMetricHandler(
		reg.Registerer(),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			ErrorLog:          log.Default(),
			EnableOpenMetrics: true,
		}),
	))
	if s.metricsPath != config.HealthPath {
		mux.HandleFunc(config.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		})
	}
	if s.metricsPath != "/" {
		mux.HandleFunc("/", s.landing)
	}
	return mux
}

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := landingPage.Execute(w, s.metricsPath); err != nil {
		log.Printf("Error rendering landing page: %v", err)
	}
}

// Handler returns the routes of the server, for mounting in tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Todoist Prometheus exporter listening on %s with metrics at %s", s.srv.Addr, s.metricsPath)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	}
}
