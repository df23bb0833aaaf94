package model

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string
type Priority string
type TaskCategory string
type RecurrencePattern string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
	StatusArchived   TaskStatus = "archived"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	TaskCategoryPersonal TaskCategory = "personal"
	TaskCategoryWork     TaskCategory = "work"
	TaskCategoryStudy    TaskCategory = "study"
	TaskCategoryHealth   TaskCategory = "health"
	TaskCategoryFinance  TaskCategory = "finance"
	TaskCategoryOther    TaskCategory = "other"

	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

// IsValid reports whether s is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

type Subtask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// TaskNote is a log entry embedded in a task. It is unrelated to Note.
type TaskNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content" validate:"required,max=1000"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Task struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title            string              `bson:"title" json:"title" validate:"required,max=200"`
	Description      string              `bson:"description" json:"description" validate:"max=1000"`
	Author           string              `bson:"author" json:"author" validate:"required"`
	Status           TaskStatus          `bson:"status" json:"status" validate:"oneof=todo in-progress review completed archived"`
	Priority         Priority            `bson:"priority" json:"priority" validate:"oneof=low medium high urgent"`
	Category         TaskCategory        `bson:"category" json:"category" validate:"oneof=personal work study health finance other"`
	DueDate          *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CompletedAt      *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	EstimatedTime    *float64            `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty" validate:"omitempty,min=0"`
	ActualTime       *float64            `bson:"actualTime,omitempty" json:"actualTime,omitempty" validate:"omitempty,min=0"`
	Tags             []string            `bson:"tags" json:"tags" validate:"dive,max=50"`
	Subtasks         []Subtask           `bson:"subtasks" json:"subtasks" validate:"dive"`
	Attachments      []Attachment        `bson:"attachments" json:"attachments" validate:"dive"`
	Notes            []TaskNote          `bson:"notes" json:"notes" validate:"dive"`
	IsRecurring      bool                `bson:"isRecurring" json:"isRecurring"`
	RecurringPattern RecurrencePattern   `bson:"recurringPattern" json:"recurringPattern" validate:"oneof=daily weekly monthly yearly"`
	ParentTask       *primitive.ObjectID `bson:"parentTask,omitempty" json:"parentTask,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`

	Score float64 `bson:"score,omitempty" json:"-"`
}

func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Category == "" {
		t.Category = TaskCategoryPersonal
	}
	if t.RecurringPattern == "" {
		t.RecurringPattern = RecurrenceDaily
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if t.Attachments == nil {
		t.Attachments = []Attachment{}
	}
	if t.Notes == nil {
		t.Notes = []TaskNote{}
	}
}

// CompletionPercentage derives progress from subtasks, or from the status
// when the task has none.
func (t *Task) CompletionPercentage() int {
	if len(t.Subtasks) == 0 {
		if t.Status == StatusCompleted {
			return 100
		}
		return 0
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(t.Subtasks)) * 100))
}

func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// StampCompletion keeps CompletedAt in step with Status and does the same for
// every subtask. An existing completion time is never moved forward.
func (t *Task) StampCompletion(now time.Time) {
	if t.Status == StatusCompleted {
		if t.CompletedAt == nil {
			at := now
			t.CompletedAt = &at
		}
	} else {
		t.CompletedAt = nil
	}
	for i := range t.Subtasks {
		st := &t.Subtasks[i]
		switch {
		case st.Completed && st.CompletedAt == nil:
			at := now
			st.CompletedAt = &at
		case !st.Completed:
			st.CompletedAt = nil
		}
	}
}

// TaskTotals is the single-group result of the tasks totals pipeline.
type TaskTotals struct {
	TotalTasks       int64   `bson:"totalTasks" json:"totalTasks"`
	CompletedTasks   int64   `bson:"completedTasks" json:"completedTasks"`
	OverdueTasks     int64   `bson:"overdueTasks" json:"overdueTasks"`
	AvgEstimatedTime float64 `bson:"avgEstimatedTime" json:"avgEstimatedTime"`
	AvgActualTime    float64 `bson:"avgActualTime" json:"avgActualTime"`
}

// CompletionRate is round(100 * completed / total), or 0 without tasks.
func CompletionRate(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
