package api

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/web"
)

const sessionTTL = 12 * time.Hour

// NewRouter builds the HTTP router: login and static assets are open,
// everything else sits behind the session gate.
func NewRouter(svc *dashboard.Service, cfg *config.Config, log zerolog.Logger) (*mux.Router, error) {
	templates, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	sessions := handlers.NewSessions(sessionTTL)
	auth := handlers.NewAuthHandler(cfg.DashboardPassword, sessions, templates, log)
	charts := handlers.NewChartsHandler(svc, log)
	pages := handlers.NewPagesHandler(templates, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	// Open routes.
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/login", auth.ShowLogin).Methods(http.MethodGet)
	r.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Everything else requires a session.
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(auth.RequireSession)
	protected.HandleFunc("/", pages.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/api/charts/monthly-flow", charts.MonthlyFlow).Methods(http.MethodGet)
	protected.HandleFunc("/api/charts/monthly-counts", charts.MonthlyCounts).Methods(http.MethodGet)
	protected.HandleFunc("/api/charts/categories", charts.Categories).Methods(http.MethodGet)
	protected.HandleFunc("/api/charts/running-balance", charts.RunningBalance).Methods(http.MethodGet)
	protected.HandleFunc("/api/charts/savings", charts.Savings).Methods(http.MethodGet)
	protected.HandleFunc("/api/snapshot", charts.Snapshot).Methods(http.MethodGet)
	protected.HandleFunc("/api/refresh", charts.Refresh).Methods(http.MethodPost)

	return r, nil
}
