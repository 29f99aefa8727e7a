package handlers

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

// PagesHandler renders the server-side HTML pages.
type PagesHandler struct {
	templates *template.Template
	log       zerolog.Logger
}

// NewPagesHandler creates the pages handler.
func NewPagesHandler(templates *template.Template, log zerolog.Logger) *PagesHandler {
	return &PagesHandler{templates: templates, log: log}
}

// Dashboard handles GET /
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", nil); err != nil {
		h.log.Error().Err(err).Msg("Dashboard template execution failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
