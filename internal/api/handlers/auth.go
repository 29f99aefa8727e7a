package handlers

import (
	"crypto/subtle"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
)

// AuthHandler implements the shared-password gate in front of the dashboard.
type AuthHandler struct {
	password  string
	sessions  *Sessions
	templates *template.Template
	log       zerolog.Logger
}

// NewAuthHandler creates the auth handler. password is the configured
// shared secret every visitor must present.
func NewAuthHandler(password string, sessions *Sessions, templates *template.Template, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		password:  password,
		sessions:  sessions,
		templates: templates,
		log:       log,
	}
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, "")
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, "Invalid request")
		return
	}

	supplied := r.PostForm.Get("password")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.password)) != 1 {
		h.log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Failed login attempt")
		w.WriteHeader(http.StatusUnauthorized)
		h.renderLogin(w, "Wrong password")
		return
	}

	token := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info().Str("remote_addr", r.RemoteAddr).Msg("Login succeeded")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireSession gates everything behind a live session. Browser routes
// redirect to the login page; API routes answer 401 JSON.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil && h.sessions.Valid(cookie.Value) {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") {
			middleware.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, errorMessage string) {
	if h.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errorMessage}
	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.log.Error().Err(err).Msg("Login template execution failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
