package web

import (
	"net/http"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/orchestrators"
)

// handleAdminAccountsPage renders the account management page.
func handleAdminAccountsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	accounts, err := stores.AccountStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_accounts.html", map[string]any{
		"Accounts": accounts,
	})
}

// handleAPIAdminCreateAccount handles POST /api/admin/accounts
func handleAPIAdminCreateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	deps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore}
	id, err := orchestrators.ExecuteCreateAccount(r.Context(), input, deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleAdminOutboxPage renders pending and failed outbox entries so an
// admin can see whether notifications are flowing.
func handleAdminOutboxPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pending, err := stores.OutboxStore.ListPending(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}
	failed, err := stores.OutboxStore.ListFailed(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_outbox.html", map[string]any{
		"Pending": pending,
		"Failed":  failed,
	})
}
