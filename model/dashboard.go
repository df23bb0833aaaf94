package model

import "time"

const (
	KindNote = "note"
	KindTask = "task"
)

type OverviewTotals struct {
	TotalNotes     int64 `json:"totalNotes"`
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	CompletionRate int   `json:"completionRate"`
}

// Overview is a snapshot of the user's workspace. Its parts are read
// independently and may not be mutually consistent.
type Overview struct {
	Totals        OverviewTotals
	RecentNotes   []*Note
	RecentTasks   []*Task
	UpcomingTasks []*Task
	PinnedNotes   []*Note
}

// ActivityItem is a note or a task in the activity feed. Exactly one of Note
// and Task is set, matching Kind.
type ActivityItem struct {
	Kind      string
	UpdatedAt time.Time
	Note      *Note
	Task      *Task
}

type ActivityPage struct {
	Items []ActivityItem
	Page  int
	Limit int
}

type SearchHit struct {
	Kind  string
	Score float64
	Note  *Note
	Task  *Task
}

type SearchResult struct {
	Query string
	Hits  []SearchHit
	// Total is the number of merged hits before the page was cut.
	Total int
	Page  int
}

type NoteStats struct {
	NoteTotals
	CategoryStats []GroupCount `json:"categoryStats"`
	TagStats      []GroupCount `json:"tagStats"`
}

type TaskStats struct {
	TaskTotals
	CompletionRate int          `json:"completionRate"`
	StatusStats    []GroupCount `json:"statusStats"`
	PriorityStats  []GroupCount `json:"priorityStats"`
	CategoryStats  []GroupCount `json:"categoryStats"`
}

type Stats struct {
	Notes           NoteStats       `json:"notes"`
	Tasks           TaskStats       `json:"tasks"`
	Averages        Averages        `json:"averages"`
	MonthlyActivity MonthlyActivity `json:"monthlyActivity"`
}
