package http

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/thor-dashboard/internal/dashboard"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Dashboard is the set of operations the shell exposes.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Units() ([]string, error)
	Statistics() []string
	Datasets() ([]dashboard.DatasetInfo, error)
	Map(date *time.Time) (viz.MapSpec, error)
	LineChart(unit, statistic string) (viz.ChartSpec, error)
	BarChart(unit string) (viz.ChartSpec, error)
	LinePNG(w io.Writer, unit, statistic string) error
	BarPNG(w io.Writer, unit string) error
}

// Server serves the dashboard page, its JSON and PNG endpoints, and the
// health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
}

// NewServer creates the HTTP server. Access logs in combined log format go to accessLog.
func NewServer(addr string, dash Dashboard, accessLog io.Writer, logger *slog.Logger) *Server {
	s := &Server{dash: dash, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(dash)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	api.HandleFunc("/units", s.handleUnits).Methods(http.MethodGet)
	api.HandleFunc("/datasets", s.handleDatasets).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/charts/line", s.handleLineChart).Methods(http.MethodGet)
	api.HandleFunc("/charts/bar", s.handleBarChart).Methods(http.MethodGet)
	api.HandleFunc("/charts/line.png", s.handleLinePNG).Methods(http.MethodGet)
	api.HandleFunc("/charts/bar.png", s.handleBarPNG).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger}))(handler)
	handler = handlers.CombinedLoggingHandler(accessLog, handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// recoveryLogger routes gorilla's panic reports into slog.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("http handler panic", "panic", fmt.Sprint(v...))
}
