// Package dashboard serves the operator web dashboard: a session-protected
// view of users, tickets and transaction records, a reply form for support
// tickets and a read-only GraphQL API over the same data.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"amartaka-bot/internal/config"
	"amartaka-bot/internal/model"
)

const (
	sessionName = "amartaka_admin"
	adminKey    = "is_admin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Source provides read access to the ledger document.
type Source interface {
	Snapshot(ctx context.Context) (*model.Document, error)
}

// Replier delivers an operator reply to a chat user.
type Replier interface {
	NotifyUser(ctx context.Context, userID int64, text string)
}

// Dashboard holds the HTTP handlers of the operator dashboard.
type Dashboard struct {
	source    Source
	replier   Replier
	creds     *Credentials
	sessions  *sessions.CookieStore
	templates *template.Template
	graphql   http.Handler
}

// New creates a Dashboard from the dashboard configuration.
func New(cfg *config.DashboardConfig, source Source, replier Replier) (*Dashboard, error) {
	creds, err := NewCredentials(cfg.Username, cfg.Password, cfg.PasswordHash)
	if err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("dashboard session secret is required")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gql, err := newGraphQLHandler(source)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Dashboard{
		source:    source,
		replier:   replier,
		creds:     creds,
		sessions:  store,
		templates: tmpl,
		graphql:   gql,
	}, nil
}

// Handler returns the routed dashboard with access logging.
func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin-login", d.handleLoginPage)
	mux.HandleFunc("POST /admin-login", d.handleLogin)
	mux.HandleFunc("GET /logout", d.handleLogout)

	mux.Handle("GET /{$}", d.requireAdmin(http.HandlerFunc(d.handleIndex)))
	mux.Handle("GET /users", d.requireAdmin(http.HandlerFunc(d.handleUsers)))
	mux.Handle("GET /support/{category}", d.requireAdmin(http.HandlerFunc(d.handleSupport)))
	mux.Handle("GET /withdraws", d.requireAdmin(http.HandlerFunc(d.handleWithdraws)))
	mux.Handle("GET /deposits", d.requireAdmin(http.HandlerFunc(d.handleDeposits)))
	mux.Handle("POST /tickets/{id}/reply", d.requireAdmin(http.HandlerFunc(d.handleReply)))
	mux.Handle("/graphql", d.requireAdmin(d.graphql))

	return accessLog(mux)
}

// requireAdmin redirects requests without an admin session to the login page.
func (d *Dashboard) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := d.sessions.Get(r, sessionName)
		if err != nil || session.Values[adminKey] != true {
			http.Redirect(w, r, "/admin-login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Dashboard) render(w http.ResponseWriter, name string, data any) {
	d.renderStatus(w, http.StatusOK, name, data)
}

func (d *Dashboard) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := d.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
	}
}

// snapshot loads the document or answers 500.
func (d *Dashboard) snapshot(w http.ResponseWriter, r *http.Request) (*model.Document, bool) {
	doc, err := d.source.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to load document")
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

func (d *Dashboard) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	d.render(w, "login.html", map[string]any{"Error": ""})
}

func (d *Dashboard) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := strings.TrimSpace(r.PostFormValue("password"))

	if !d.creds.Check(username, password) {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Dashboard login failed")
		d.renderStatus(w, http.StatusUnauthorized, "login.html", map[string]any{"Error": "Invalid credentials"})
		return
	}

	session, _ := d.sessions.Get(r, sessionName)
	session.Values[adminKey] = true
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	log.Info().Str("remote_addr", r.RemoteAddr).Msg("Dashboard login")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (d *Dashboard) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := d.sessions.Get(r, sessionName)
	delete(session.Values, adminKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	http.Redirect(w, r, "/admin-login", http.StatusFound)
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}
	d.render(w, "index.html", map[string]any{
		"Stats":      doc.Stats(),
		"Categories": model.Categories(),
	})
}

func (d *Dashboard) handleUsers(w http.ResponseWriter, r *http.Request) {
	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}
	d.render(w, "users.html", map[string]any{"Users": doc.Users})
}

func (d *Dashboard) handleSupport(w http.ResponseWriter, r *http.Request) {
	category := model.Category(r.PathValue("category"))
	if !category.Valid() {
		http.NotFound(w, r)
		return
	}

	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}

	session, _ := d.sessions.Get(r, sessionName)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Error().Err(err).Msg("Failed to save session")
		}
	}

	d.render(w, "support.html", map[string]any{
		"Category": category,
		"Tickets":  doc.TicketsByCategory(category),
		"Flashes":  flashes,
	})
}

func (d *Dashboard) handleWithdraws(w http.ResponseWriter, r *http.Request) {
	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}
	d.render(w, "withdraws.html", map[string]any{"Withdraws": doc.Withdraws})
}

func (d *Dashboard) handleDeposits(w http.ResponseWriter, r *http.Request) {
	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}
	d.render(w, "deposits.html", map[string]any{"Deposits": doc.Deposits})
}

// handleReply sends the form text to the ticket's owner. The ticket itself
// is left unchanged.
func (d *Dashboard) handleReply(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.PostFormValue("text"))
	if text == "" {
		http.Error(w, "reply text is required", http.StatusBadRequest)
		return
	}

	doc, ok := d.snapshot(w, r)
	if !ok {
		return
	}
	ticket := doc.FindTicket(r.PathValue("id"))
	if ticket == nil {
		http.NotFound(w, r)
		return
	}

	d.replier.NotifyUser(r.Context(), ticket.UserID, text)
	flash := fmt.Sprintf("Reply sent to user %d (ticket %s).", ticket.UserID, ticket.ID)

	log.Info().
		Int64("target_id", ticket.UserID).
		Str("ticket_id", ticket.ID).
		Str("operation", "reply").
		Msg("Dashboard reply")

	session, _ := d.sessions.Get(r, sessionName)
	session.AddFlash(flash)
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
	}
	http.Redirect(w, r, "/support/"+string(ticket.Category), http.StatusSeeOther)
}
