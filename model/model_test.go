package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteExcerpt(t *testing.T) {
	short := &Note{Content: "short body"}
	assert.Equal(t, "short body", short.Excerpt())

	exact := &Note{Content: strings.Repeat("a", 150)}
	assert.Equal(t, exact.Content, exact.Excerpt())

	long := &Note{Content: strings.Repeat("é", 151)}
	assert.Equal(t, strings.Repeat("é", 150)+"...", long.Excerpt())
}

func TestNoteApplyDefaults(t *testing.T) {
	n := &Note{}
	n.ApplyDefaults()

	assert.Equal(t, NoteCategoryPersonal, n.Category)
	assert.Equal(t, DefaultNoteColor, n.Color)
	assert.NotNil(t, n.Tags)
	assert.NotNil(t, n.Attachments)
}

func TestTaskCompletionPercentage(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want int
	}{
		{"no subtasks", Task{Status: StatusTodo}, 0},
		{"completed without subtasks", Task{Status: StatusCompleted}, 100},
		{"one of three", Task{Subtasks: []Subtask{{Completed: true}, {}, {}}}, 33},
		{"two of three", Task{Subtasks: []Subtask{{Completed: true}, {Completed: true}, {}}}, 67},
		{"subtasks win over status", Task{Status: StatusCompleted, Subtasks: []Subtask{{}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.CompletionPercentage())
		})
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Task{}).IsOverdue(now))
	assert.True(t, (&Task{DueDate: &past, Status: StatusInProgress}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &past, Status: StatusCompleted}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &future}).IsOverdue(now))
}

func TestTaskStampCompletion(t *testing.T) {
	first := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	task := &Task{Status: StatusCompleted, Subtasks: []Subtask{{Completed: true}, {}}}
	task.StampCompletion(first)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)
	require.NotNil(t, task.Subtasks[0].CompletedAt)
	assert.Nil(t, task.Subtasks[1].CompletedAt)

	task.StampCompletion(later)
	assert.Equal(t, first, *task.CompletedAt, "completion time is kept")
	assert.Equal(t, first, *task.Subtasks[0].CompletedAt)

	task.Status = StatusReview
	task.Subtasks[0].Completed = false
	task.StampCompletion(later)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.Subtasks[0].CompletedAt)
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 33, CompletionRate(1, 3))
	assert.Equal(t, 100, CompletionRate(4, 4))
}

func TestTaskStatusIsValid(t *testing.T) {
	assert.True(t, StatusInProgress.IsValid())
	assert.False(t, TaskStatus("done").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestErrors(t *testing.T) {
	err := NewValidationError("Task title is required", "Invalid priority")
	assert.Equal(t, "Task title is required, Invalid priority", err.Error())

	var verr *ValidationError
	assert.True(t, errors.As(error(err), &verr))
	assert.Equal(t, "Invalid status", NewBadRequest("Invalid status").Error())
}
