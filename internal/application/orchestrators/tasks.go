package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/task"
)

// SaveTaskInput carries input for creating or updating a task.
type SaveTaskInput struct {
	Actor    string
	TaskID   string // empty for a new task
	Title    string
	Due      string
	Assignee string
	Topic    string
	Status   string
}

// TaskDeps holds dependencies for the task orchestrators.
type TaskDeps struct {
	Documents DocumentCommitter
}

// ExecuteSaveTask creates or updates a task on the board and commits the
// document with one changelog entry.
func ExecuteSaveTask(ctx context.Context, input SaveTaskInput, deps TaskDeps) (task.Task, docsync.Result, error) {
	doc := deps.Documents.Snapshot()
	now := timeNow()

	t := task.Task{
		ID:        input.TaskID,
		Title:     input.Title,
		Due:       input.Due,
		Assignee:  input.Assignee,
		Topic:     input.Topic,
		Status:    input.Status,
		UpdatedAt: now,
	}
	if t.Status == "" {
		t.Status = task.StatusOpen
	}

	action := "edited"
	if t.ID == "" {
		t.ID = uuid.New().String()
		t.CreatedAt = now
		action = "created"
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, docsync.Result{}, err
	}

	if action == "created" {
		doc.Tasks = append(doc.Tasks, t)
	} else {
		idx := taskIndex(doc.Tasks, t.ID)
		if idx < 0 {
			return task.Task{}, docsync.Result{}, fmt.Errorf("save task %s: %w", t.ID, document.ErrTaskNotFound)
		}
		t.CreatedAt = doc.Tasks[idx].CreatedAt
		doc.Tasks[idx] = t
	}
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("%s task %q", action, t.Title)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("task_event", "event", "task_saved", "task_id", t.ID, "action", action, "outcome", res.Outcome.String())
	return t, res, nil
}

// ArchiveTaskInput carries input for archiving a task.
type ArchiveTaskInput struct {
	Actor  string
	TaskID string
}

// ExecuteArchiveTask moves a task from the board into the task archive.
func ExecuteArchiveTask(ctx context.Context, input ArchiveTaskInput, deps TaskDeps) (docsync.Result, error) {
	if input.TaskID == "" {
		return docsync.Result{}, errors.New("task ID is required")
	}

	doc := deps.Documents.Snapshot()
	idx := taskIndex(doc.Tasks, input.TaskID)
	if idx < 0 {
		return docsync.Result{}, fmt.Errorf("archive task %s: %w", input.TaskID, document.ErrTaskNotFound)
	}
	t := doc.Tasks[idx]
	t.UpdatedAt = timeNow()
	doc.Tasks = append(doc.Tasks[:idx], doc.Tasks[idx+1:]...)
	doc.ArchivedTasks = append(doc.ArchivedTasks, t)
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("archived task %q", t.Title)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("task_event", "event", "task_archived", "task_id", t.ID, "outcome", res.Outcome.String())
	return res, nil
}

func taskIndex(tasks []task.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
