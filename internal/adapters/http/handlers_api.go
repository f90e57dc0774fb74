package web

import (
	"net/http"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/listutil"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/orchestrators"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/projections"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
)

// leadForm is the JSON shape shared by intake and edit.
type leadForm struct {
	LeadID     string `json:"lead_id,omitempty"`
	Name       string `json:"name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ParentName string `json:"parent_name"`
	Phone      string `json:"phone"`
	WhatsApp   string `json:"whatsapp"`
	Telegram   string `json:"telegram"`
	Instagram  string `json:"instagram"`
	Source     string `json:"source"`
	Area       string `json:"area"`
	Group      string `json:"group"`
	Plan       string `json:"plan"`
	BirthDate  string `json:"birth_date"`
	StartDate  string `json:"start_date"`
	Notes      string `json:"notes"`
}

// handleAPIBoard handles GET /api/board
func handleAPIBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := projections.GetPipelineBoardQuery{
		Area:  r.URL.Query().Get("area"),
		Group: r.URL.Query().Get("group"),
	}
	result := projections.QueryGetPipelineBoard(query, projections.GetPipelineBoardDeps{Documents: documents})
	writeJSON(w, http.StatusOK, result)
}

// handleAPILeadIntake handles POST /api/leads
func handleAPILeadIntake(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var form leadForm
	if err := strictDecode(r, &form); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.IntakeLeadInput{
		Actor:      currentActor(r),
		Name:       form.Name,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		ParentName: form.ParentName,
		Phone:      form.Phone,
		WhatsApp:   form.WhatsApp,
		Telegram:   form.Telegram,
		Instagram:  form.Instagram,
		Source:     form.Source,
		Area:       form.Area,
		Group:      form.Group,
		Plan:       form.Plan,
		BirthDate:  form.BirthDate,
		StartDate:  form.StartDate,
		Notes:      form.Notes,
	}

	l, result, err := orchestrators.ExecuteIntakeLead(r.Context(), input, orchestrators.IntakeLeadDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"lead": l})
}

// handleAPILeadEdit handles POST /api/leads/edit
func handleAPILeadEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var form leadForm
	if err := strictDecode(r, &form); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.EditLeadInput{
		Actor:      currentActor(r),
		LeadID:     form.LeadID,
		Name:       form.Name,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		ParentName: form.ParentName,
		Phone:      form.Phone,
		WhatsApp:   form.WhatsApp,
		Telegram:   form.Telegram,
		Instagram:  form.Instagram,
		Source:     form.Source,
		Area:       form.Area,
		Group:      form.Group,
		Plan:       form.Plan,
		BirthDate:  form.BirthDate,
		StartDate:  form.StartDate,
		Notes:      form.Notes,
	}

	l, result, err := orchestrators.ExecuteEditLead(r.Context(), input, orchestrators.EditLeadDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"lead": l})
}

// handleAPILeadMove handles POST /api/leads/move
func handleAPILeadMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		LeadID    string `json:"lead_id"`
		Direction int    `json:"direction"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.MoveLeadInput{
		Actor:     currentActor(r),
		LeadID:    req.LeadID,
		Direction: req.Direction,
	}
	l, result, err := orchestrators.ExecuteMoveLead(r.Context(), input, orchestrators.MoveLeadDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"lead": l})
}

// handleAPILeadConvert handles POST /api/leads/convert
func handleAPILeadConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		LeadID string `json:"lead_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ConvertLeadInput{
		Actor:  currentActor(r),
		LeadID: req.LeadID,
	}
	deps := orchestrators.ConvertLeadDeps{
		Documents:   documents,
		OutboxStore: stores.OutboxStore,
		NotifyEmail: NotifyEmail,
	}
	c, result, err := orchestrators.ExecuteConvertLead(r.Context(), input, deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"client": c})
}

// handleAPILeadArchive handles POST /api/leads/archive
func handleAPILeadArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		LeadID string `json:"lead_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ArchiveLeadInput{Actor: currentActor(r), LeadID: req.LeadID}
	result, err := orchestrators.ExecuteArchiveLead(r.Context(), input, orchestrators.ArchiveLeadDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, nil)
}

// handleAPILeadDelete handles POST /api/leads/delete.
// Deletion is destructive; the client must send confirm:true, which the UI
// only does after an explicit confirmation dialog.
func handleAPILeadDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		LeadID  string `json:"lead_id"`
		Confirm bool   `json:"confirm"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !req.Confirm {
		http.Error(w, "deletion requires confirmation", http.StatusBadRequest)
		return
	}

	input := orchestrators.RemoveLeadInput{Actor: currentActor(r), LeadID: req.LeadID}
	result, err := orchestrators.ExecuteRemoveLead(r.Context(), input, orchestrators.RemoveLeadDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, nil)
}

// handleAPIClients handles GET /api/clients
func handleAPIClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := projections.GetClientListQuery{
		Area:   r.URL.Query().Get("area"),
		Group:  r.URL.Query().Get("group"),
		Search: r.URL.Query().Get("q"),
	}
	result := projections.QueryGetClientList(query, projections.GetClientListDeps{Documents: documents})
	writeJSON(w, http.StatusOK, result)
}

// clientForm is the JSON shape for client edits.
type clientForm struct {
	ClientID   string             `json:"client_id"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	ParentName string             `json:"parent_name"`
	Phone      string             `json:"phone"`
	WhatsApp   string             `json:"whatsapp"`
	Telegram   string             `json:"telegram"`
	Instagram  string             `json:"instagram"`
	BirthDate  string             `json:"birth_date"`
	Gender     string             `json:"gender"`
	CoachID    string             `json:"coach_id"`
	Placements []client.Placement `json:"placements"`
}

// handleAPIClientEdit handles POST /api/clients/edit
func handleAPIClientEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var form clientForm
	if err := strictDecode(r, &form); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.EditClientInput{
		Actor:      currentActor(r),
		ClientID:   form.ClientID,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		ParentName: form.ParentName,
		Phone:      form.Phone,
		WhatsApp:   form.WhatsApp,
		Telegram:   form.Telegram,
		Instagram:  form.Instagram,
		BirthDate:  form.BirthDate,
		Gender:     form.Gender,
		CoachID:    form.CoachID,
		Placements: form.Placements,
	}
	c, result, err := orchestrators.ExecuteEditClient(r.Context(), input, orchestrators.EditClientDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"client": c})
}

// handleAPIPlacementRemove handles POST /api/clients/placements/remove
func handleAPIPlacementRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		ClientID    string `json:"client_id"`
		PlacementID string `json:"placement_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.RemovePlacementInput{
		Actor:       currentActor(r),
		ClientID:    req.ClientID,
		PlacementID: req.PlacementID,
	}
	c, result, err := orchestrators.ExecuteRemovePlacement(r.Context(), input, orchestrators.EditClientDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, map[string]any{"client": c})
}

// handleAPIArchive handles GET /api/archive
func handleAPIArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result := projections.QueryGetArchive(projections.GetArchiveDeps{Documents: documents})
	writeJSON(w, http.StatusOK, result)
}

// handleAPIChangelog handles GET /api/changelog
func handleAPIChangelog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	page := listutil.ParsePageParams(r.URL.Query())
	result := projections.QueryGetChangelog(
		projections.GetChangelogQuery{Page: page},
		projections.GetChangelogDeps{Documents: documents},
	)
	writeJSON(w, http.StatusOK, result)
}

// handleAPITasks handles GET (list) and POST (create/update) for /api/tasks
func handleAPITasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		doc := documents.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"tasks":    doc.Tasks,
			"archived": doc.ArchivedTasks,
		})
	case "POST":
		if !requireEditor(w, r) {
			return
		}
		var req struct {
			TaskID   string `json:"task_id"`
			Title    string `json:"title"`
			Due      string `json:"due"`
			Assignee string `json:"assignee"`
			Topic    string `json:"topic"`
			Status   string `json:"status"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		input := orchestrators.SaveTaskInput{
			Actor:    currentActor(r),
			TaskID:   req.TaskID,
			Title:    req.Title,
			Due:      req.Due,
			Assignee: req.Assignee,
			Topic:    req.Topic,
			Status:   req.Status,
		}
		t, result, err := orchestrators.ExecuteSaveTask(r.Context(), input, orchestrators.TaskDeps{Documents: documents})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeCommitResult(w, result, map[string]any{"task": t})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAPITaskArchive handles POST /api/tasks/archive
func handleAPITaskArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireEditor(w, r) {
		return
	}

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ArchiveTaskInput{Actor: currentActor(r), TaskID: req.TaskID}
	result, err := orchestrators.ExecuteArchiveTask(r.Context(), input, orchestrators.TaskDeps{Documents: documents})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeCommitResult(w, result, nil)
}

// handleAPISyncReload handles POST /api/sync/reload. After a rejected commit
// the client refreshes its view from the store's current revision.
func handleAPISyncReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := documents.Reload(r.Context()); err != nil {
		internalError(w, err)
		return
	}
	doc := documents.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"revision": doc.Revision})
}
