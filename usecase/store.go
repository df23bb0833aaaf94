package usecase

import (
	"context"
	"time"

	"secondbrain/model"
	"secondbrain/repository"
)

// NoteStore is the persistence the note, dashboard and aggregation services
// need. *repository.NotesRepo satisfies it.
type NoteStore interface {
	FindNotes(ctx context.Context, author string, q repository.NoteQuery) ([]*model.Note, int64, error)
	GetNote(ctx context.Context, author, id string) (*model.Note, error)
	MarkRead(ctx context.Context, author, id string, at time.Time) (*model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) error
	UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error)
	DeleteNote(ctx context.Context, author, id string) error
	TogglePin(ctx context.Context, author, id string, at time.Time) (*model.Note, error)

	Totals(ctx context.Context, author string) (model.NoteTotals, error)
	CategoryCounts(ctx context.Context, author string) ([]model.GroupCount, error)
	TopTags(ctx context.Context, author string, limit int) ([]model.GroupCount, error)
	RecentNotes(ctx context.Context, author string, limit int) ([]*model.Note, error)
	PinnedNotes(ctx context.Context, author string, limit int) ([]*model.Note, error)
	RecentlyUpdatedNotes(ctx context.Context, author string, limit int) ([]*model.Note, error)
	SearchNotes(ctx context.Context, author, text string, limit int) ([]*model.Note, error)
	MonthlyCreated(ctx context.Context, author string, from, to time.Time) ([]model.MonthCount, error)
}

// TaskStore is the task counterpart of NoteStore.
type TaskStore interface {
	FindTasks(ctx context.Context, author string, q repository.TaskQuery) ([]*model.Task, int64, error)
	GetTask(ctx context.Context, author, id string) (*model.Task, error)
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) (*model.Task, error)
	UpdateStatus(ctx context.Context, author, id string, status model.TaskStatus, at time.Time) (*model.Task, error)
	AppendNote(ctx context.Context, author, id string, entry model.TaskNote) (*model.Task, error)
	DeleteTask(ctx context.Context, author, id string) error

	Totals(ctx context.Context, author string, now time.Time) (model.TaskTotals, error)
	GroupCounts(ctx context.Context, author, field string) ([]model.GroupCount, error)
	RecentTasks(ctx context.Context, author string, limit int) ([]*model.Task, error)
	UpcomingTasks(ctx context.Context, author string, now time.Time, limit int) ([]*model.Task, error)
	RecentlyUpdatedTasks(ctx context.Context, author string, limit int) ([]*model.Task, error)
	SearchTasks(ctx context.Context, author, text string, limit int) ([]*model.Task, error)
	MonthlyCreated(ctx context.Context, author string, from, to time.Time) ([]model.MonthCount, error)
}

var (
	_ NoteStore = (*repository.NotesRepo)(nil)
	_ TaskStore = (*repository.TasksRepo)(nil)
)

// clock reads now truncated to the millisecond precision the store keeps, so
// a returned record compares equal to the same record read back later.
func clock(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
