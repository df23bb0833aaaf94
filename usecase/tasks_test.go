package usecase

import (
	"context"
	"testing"
	"time"

	"secondbrain/dto"
	"secondbrain/model"
	"secondbrain/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTasksService(tasks ...*model.Task) (*TasksService, *fakeTasks) {
	store := newFakeTasks(tasks...)
	svc := NewTasksService(store)
	svc.now = testutils.FixedClock(fixedNow)
	return svc, store
}

func TestTasksServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc, _ := newTestTasksService()

		task, err := svc.Create(ctx, "alice", dto.TaskRequest{Title: ptr(" Pay rent ")})
		require.NoError(t, err)

		assert.Equal(t, "Pay rent", task.Title)
		assert.Equal(t, model.StatusTodo, task.Status)
		assert.Equal(t, model.PriorityMedium, task.Priority)
		assert.Equal(t, model.TaskCategoryPersonal, task.Category)
		assert.Equal(t, model.RecurrenceDaily, task.RecurringPattern)
		assert.Nil(t, task.DueDate)
		assert.Nil(t, task.CompletedAt)
		assert.Equal(t, 0, task.CompletionPercentage())
	})

	t.Run("due date formats", func(t *testing.T) {
		svc, _ := newTestTasksService()

		task, err := svc.Create(ctx, "alice", dto.TaskRequest{Title: ptr("t"), DueDate: ptr("2024-07-01")})
		require.NoError(t, err)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), *task.DueDate)

		task, err = svc.Create(ctx, "alice", dto.TaskRequest{Title: ptr("t"), DueDate: ptr("2024-07-01T10:30:00+02:00")})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC), *task.DueDate)

		task, err = svc.Create(ctx, "alice", dto.TaskRequest{Title: ptr("t"), DueDate: ptr("someday")})
		require.NoError(t, err)
		assert.Nil(t, task.DueDate)
	})

	t.Run("completed on create is stamped", func(t *testing.T) {
		svc, _ := newTestTasksService()

		task, err := svc.Create(ctx, "alice", dto.TaskRequest{
			Title:    ptr("done already"),
			Status:   ptr("completed"),
			Subtasks: &[]dto.SubtaskRequest{{Title: "a", Completed: true}, {Title: "b"}},
		})
		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, fixedNow, *task.CompletedAt)
		require.Len(t, task.Subtasks, 2)
		assert.False(t, task.Subtasks[0].ID.IsZero())
		assert.NotNil(t, task.Subtasks[0].CompletedAt)
		assert.Nil(t, task.Subtasks[1].CompletedAt)
		assert.Equal(t, 50, task.CompletionPercentage())
	})

	t.Run("aggregates violations", func(t *testing.T) {
		svc, store := newTestTasksService()

		_, err := svc.Create(ctx, "alice", dto.TaskRequest{
			Status:        ptr("blocked"),
			EstimatedTime: ptr(-5.0),
			Subtasks:      &[]dto.SubtaskRequest{{Title: " "}},
			ParentTask:    ptr("nope"),
		})

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{
			"Task title is required",
			"Status must be one of todo, in-progress, review, completed, archived",
			"Estimated time cannot be negative",
			"Subtask title is required",
			"Parent task must be a valid id",
		}, verr.Messages)
		assert.Empty(t, store.tasks)
	})
}

func TestTasksServiceUpdate(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	earlier := fixedNow.Add(-time.Hour)

	existing := &model.Task{
		Title:            "Write report",
		Author:           "alice",
		Status:           model.StatusCompleted,
		Priority:         model.PriorityHigh,
		Category:         model.TaskCategoryWork,
		RecurringPattern: model.RecurrenceWeekly,
		DueDate:          &due,
		CompletedAt:      &earlier,
	}
	existing.ApplyDefaults()
	svc, _ := newTestTasksService(existing)
	id := existing.ID.Hex()

	t.Run("absent due date is kept", func(t *testing.T) {
		task, err := svc.Update(ctx, "alice", id, dto.TaskRequest{Priority: ptr("urgent"), DueDate: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, model.PriorityUrgent, task.Priority)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, due, *task.DueDate)
		assert.Equal(t, earlier, *task.CompletedAt, "completedAt is kept while completed")
	})

	t.Run("leaving completed clears completedAt", func(t *testing.T) {
		task, err := svc.Update(ctx, "alice", id, dto.TaskRequest{Status: ptr("review")})
		require.NoError(t, err)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("unparsable due date clears it", func(t *testing.T) {
		task, err := svc.Update(ctx, "alice", id, dto.TaskRequest{DueDate: ptr("soon")})
		require.NoError(t, err)
		assert.Nil(t, task.DueDate)
	})

	t.Run("subtasks keep identity", func(t *testing.T) {
		task, err := svc.Update(ctx, "alice", id, dto.TaskRequest{
			Subtasks: &[]dto.SubtaskRequest{{Title: "draft", Completed: true}},
		})
		require.NoError(t, err)
		first := task.Subtasks[0]

		task, err = svc.Update(ctx, "alice", id, dto.TaskRequest{
			Subtasks: &[]dto.SubtaskRequest{
				{ID: first.ID.Hex(), Title: "draft", Completed: true},
				{Title: "review"},
			},
		})
		require.NoError(t, err)
		require.Len(t, task.Subtasks, 2)
		assert.Equal(t, first.ID, task.Subtasks[0].ID)
		assert.Equal(t, first.CompletedAt, task.Subtasks[0].CompletedAt)

		task, err = svc.Update(ctx, "alice", id, dto.TaskRequest{
			Subtasks: &[]dto.SubtaskRequest{
				{ID: first.ID.Hex(), Title: "draft", Completed: true},
				{ID: first.ID.Hex(), Title: "draft again"},
			},
		})
		require.NoError(t, err)
		require.Len(t, task.Subtasks, 2)
		assert.Equal(t, first.ID, task.Subtasks[0].ID)
		assert.NotEqual(t, first.ID, task.Subtasks[1].ID, "a repeated id gets a fresh one")
		assert.False(t, task.Subtasks[1].ID.IsZero())
		assert.Nil(t, task.Subtasks[1].CompletedAt)
	})

	t.Run("foreign task", func(t *testing.T) {
		_, err := svc.Update(ctx, "bob", id, dto.TaskRequest{Title: ptr("x")})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestTasksServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()
	existing := &model.Task{Title: "t", Author: "alice", Status: model.StatusTodo}
	svc, _ := newTestTasksService(existing)
	id := existing.ID.Hex()

	_, err := svc.UpdateStatus(ctx, "alice", id, "paused")
	var bad *model.BadRequestError
	require.ErrorAs(t, err, &bad)

	task, err := svc.UpdateStatus(ctx, "alice", id, "completed")
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, fixedNow, *task.CompletedAt)

	task, err = svc.UpdateStatus(ctx, "alice", id, "todo")
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	_, err = svc.UpdateStatus(ctx, "bob", id, "completed")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTasksServiceAppendNote(t *testing.T) {
	ctx := context.Background()
	existing := &model.Task{Title: "t", Author: "alice"}
	svc, _ := newTestTasksService(existing)
	id := existing.ID.Hex()

	_, err := svc.AppendNote(ctx, "alice", id, "   ")
	assert.EqualError(t, err, "Note content is required")

	task, err := svc.AppendNote(ctx, "alice", id, "called the bank")
	require.NoError(t, err)
	require.Len(t, task.Notes, 1)
	assert.Equal(t, "called the bank", task.Notes[0].Content)
	assert.Equal(t, fixedNow, task.Notes[0].CreatedAt)
	assert.Equal(t, fixedNow, task.UpdatedAt)

	_, err = svc.AppendNote(ctx, "bob", id, "hi")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTasksServiceSummary(t *testing.T) {
	ctx := context.Background()
	past := fixedNow.Add(-24 * time.Hour)
	svc, _ := newTestTasksService(
		&model.Task{Author: "alice", Status: model.StatusCompleted, Priority: model.PriorityHigh, Category: "work"},
		&model.Task{Author: "alice", Status: model.StatusTodo, Priority: model.PriorityHigh, Category: "work", DueDate: &past},
		&model.Task{Author: "alice", Status: model.StatusTodo, Priority: model.PriorityLow, Category: "health"},
	)

	sum, err := svc.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.TotalTasks)
	assert.Equal(t, int64(1), sum.CompletedTasks)
	assert.Equal(t, int64(1), sum.OverdueTasks)
	assert.Equal(t, 33, sum.CompletionRate)
	assert.Equal(t, []model.GroupCount{{ID: "todo", Count: 2}, {ID: "completed", Count: 1}}, sum.StatusStats)
	assert.Equal(t, []model.GroupCount{{ID: "high", Count: 2}, {ID: "low", Count: 1}}, sum.PriorityStats)
	assert.Equal(t, []model.GroupCount{{ID: "work", Count: 2}, {ID: "health", Count: 1}}, sum.CategoryStats)
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("")
	assert.False(t, ok)

	got, ok := ParseDate(" 2024-02-29 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("2023-02-29")
	assert.False(t, ok)
}
