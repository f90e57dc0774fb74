package task_test

import (
	"testing"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/task"
)

// TestTask_Validate tests task validation.
func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    task.Task
		wantErr error
	}{
		{"valid open task", task.Task{ID: "1", Title: "Call parent", Status: task.StatusOpen}, nil},
		{"valid done task", task.Task{ID: "2", Title: "Collect payment", Status: task.StatusDone}, nil},
		{"empty title", task.Task{ID: "3", Title: "  ", Status: task.StatusOpen}, task.ErrEmptyTitle},
		{"unknown status", task.Task{ID: "4", Title: "X", Status: "blocked"}, task.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.task.Validate(); err != tt.wantErr {
				t.Errorf("Task.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTask_Complete tests completion idempotence.
func TestTask_Complete(t *testing.T) {
	tk := task.Task{ID: "1", Title: "Call", Status: task.StatusOpen}
	if !tk.Complete() {
		t.Error("first Complete() = false, want true")
	}
	if tk.Status != task.StatusDone {
		t.Errorf("status after Complete = %q", tk.Status)
	}
	if tk.Complete() {
		t.Error("second Complete() = true, want false")
	}
}
