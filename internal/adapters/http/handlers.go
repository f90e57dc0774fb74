package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http/middleware"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/listutil"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/orchestrators"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/projections"
	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// commitStatus maps a commit outcome to an HTTP status code. Conflicts are
// 409 so the client can offer a refresh; store failures are 500.
func commitStatus(result docsync.Result) int {
	switch result.Outcome {
	case docsync.Accepted:
		return http.StatusOK
	case docsync.RejectedConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeCommitResult writes the commit outcome plus an optional entity payload.
func writeCommitResult(w http.ResponseWriter, result docsync.Result, extra map[string]any) {
	body := map[string]any{
		"outcome":  result.Outcome.String(),
		"revision": result.Revision,
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, commitStatus(result), body)
}

// currentActor returns the acting email for changelog attribution.
func currentActor(r *http.Request) string {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess.Email
	}
	return "anonymous"
}

// requireEditor blocks mutations from read-only sessions.
func requireEditor(w http.ResponseWriter, r *http.Request) bool {
	if !middleware.CanEdit(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

const templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return role != "" },
		"canEdit":      func() bool { return middleware.CanEdit(r.Context()) },
		"isAdmin":      func() bool { return middleware.IsAdmin(r.Context()) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"stageTitle": func(stage string) string {
			switch stage {
			case lead.StageQueue:
				return "Queue"
			case lead.StagePostponed:
				return "Postponed"
			case lead.StageTrial:
				return "Trial"
			case lead.StageAwaitingPayment:
				return "Awaiting payment"
			default:
				return stage
			}
		},
	}

	tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(
		filepath.Join(templatesDir, "layout.html"),
		filepath.Join(templatesDir, templateName),
	)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("template_render_failed", "template", templateName, "error", err.Error())
	}
}

// registerRoutes wires every page and API route onto the mux.
func registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/board", middleware.RequireAuth(http.HandlerFunc(handleBoardPage)))
	mux.Handle("/clients", middleware.RequireAuth(http.HandlerFunc(handleClientsPage)))
	mux.Handle("/archive", middleware.RequireAuth(http.HandlerFunc(handleArchivePage)))
	mux.Handle("/changelog", middleware.RequireAuth(http.HandlerFunc(handleChangelogPage)))
	mux.Handle("/tasks", middleware.RequireAuth(http.HandlerFunc(handleTasksPage)))

	// JSON API
	mux.Handle("/api/board", middleware.RequireAuth(http.HandlerFunc(handleAPIBoard)))
	mux.Handle("/api/leads", middleware.RequireAuth(http.HandlerFunc(handleAPILeadIntake)))
	mux.Handle("/api/leads/edit", middleware.RequireAuth(http.HandlerFunc(handleAPILeadEdit)))
	mux.Handle("/api/leads/move", middleware.RequireAuth(http.HandlerFunc(handleAPILeadMove)))
	mux.Handle("/api/leads/convert", middleware.RequireAuth(http.HandlerFunc(handleAPILeadConvert)))
	mux.Handle("/api/leads/archive", middleware.RequireAuth(http.HandlerFunc(handleAPILeadArchive)))
	mux.Handle("/api/leads/delete", middleware.RequireAuth(http.HandlerFunc(handleAPILeadDelete)))
	mux.Handle("/api/clients", middleware.RequireAuth(http.HandlerFunc(handleAPIClients)))
	mux.Handle("/api/clients/edit", middleware.RequireAuth(http.HandlerFunc(handleAPIClientEdit)))
	mux.Handle("/api/clients/placements/remove", middleware.RequireAuth(http.HandlerFunc(handleAPIPlacementRemove)))
	mux.Handle("/api/archive", middleware.RequireAuth(http.HandlerFunc(handleAPIArchive)))
	mux.Handle("/api/changelog", middleware.RequireAuth(http.HandlerFunc(handleAPIChangelog)))
	mux.Handle("/api/tasks", middleware.RequireAuth(http.HandlerFunc(handleAPITasks)))
	mux.Handle("/api/tasks/archive", middleware.RequireAuth(http.HandlerFunc(handleAPITaskArchive)))
	mux.Handle("/api/sync/reload", middleware.RequireAuth(http.HandlerFunc(handleAPISyncReload)))

	// Admin
	adminOnly := middleware.RequireRole("admin")
	mux.Handle("/admin/accounts", adminOnly(http.HandlerFunc(handleAdminAccountsPage)))
	mux.Handle("/api/admin/accounts", adminOnly(http.HandlerFunc(handleAPIAdminCreateAccount)))
	mux.Handle("/admin/outbox", adminOnly(http.HandlerFunc(handleAdminOutboxPage)))
	mux.Handle("/admin/perf", adminOnly(http.HandlerFunc(handleAdminPerf)))
}

// handleIndex redirects to the board (or the login form).
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/board", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to the board
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/board", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/board", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(middleware.SessionCookieName())
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleBoardPage renders the pipeline board.
func handleBoardPage(w http.ResponseWriter, r *http.Request) {
	query := projections.GetPipelineBoardQuery{
		Area:  r.URL.Query().Get("area"),
		Group: r.URL.Query().Get("group"),
	}
	result := projections.QueryGetPipelineBoard(query, projections.GetPipelineBoardDeps{Documents: documents})

	doc := documents.Snapshot()
	renderTemplate(w, r, "board.html", map[string]any{
		"Columns":  result.Columns,
		"Total":    result.Total,
		"Areas":    doc.Settings.Areas,
		"Groups":   doc.Settings.Groups,
		"Area":     query.Area,
		"Group":    query.Group,
		"Revision": doc.Revision,
	})
}

// handleClientsPage renders the client list.
func handleClientsPage(w http.ResponseWriter, r *http.Request) {
	query := projections.GetClientListQuery{
		Area:   r.URL.Query().Get("area"),
		Group:  r.URL.Query().Get("group"),
		Search: r.URL.Query().Get("q"),
	}
	result := projections.QueryGetClientList(query, projections.GetClientListDeps{Documents: documents})

	doc := documents.Snapshot()
	renderTemplate(w, r, "clients.html", map[string]any{
		"Clients": result.Clients,
		"Total":   result.Total,
		"Areas":   doc.Settings.Areas,
		"Groups":  doc.Settings.Groups,
		"Area":    query.Area,
		"Group":   query.Group,
		"Search":  query.Search,
	})
}

// handleArchivePage renders archived leads with their resolution outcome.
func handleArchivePage(w http.ResponseWriter, r *http.Request) {
	result := projections.QueryGetArchive(projections.GetArchiveDeps{Documents: documents})
	renderTemplate(w, r, "archive.html", map[string]any{
		"Rows":  result.Rows,
		"Total": result.Total,
	})
}

// handleChangelogPage renders the paged changelog.
func handleChangelogPage(w http.ResponseWriter, r *http.Request) {
	page := listutil.ParsePageParams(r.URL.Query())
	result := projections.QueryGetChangelog(
		projections.GetChangelogQuery{Page: page},
		projections.GetChangelogDeps{Documents: documents},
	)
	renderTemplate(w, r, "changelog.html", map[string]any{
		"Entries":  result.Entries,
		"PageInfo": result.PageInfo,
	})
}

// handleTasksPage renders the task board.
func handleTasksPage(w http.ResponseWriter, r *http.Request) {
	doc := documents.Snapshot()
	renderTemplate(w, r, "tasks.html", map[string]any{
		"Tasks":    doc.Tasks,
		"Archived": doc.ArchivedTasks,
	})
}

// handleAdminPerf returns the aggregated performance snapshot as JSON.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	window := time.Hour
	snap := perfCollector.Snapshot(timeNow().Add(-window), 10)
	writeJSON(w, http.StatusOK, snap)
}
