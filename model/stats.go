package model

// GroupCount is one bucket of a group-and-count pipeline.
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// MonthCount is the number of records created in a calendar month (1-12).
type MonthCount struct {
	Month int   `bson:"_id" json:"month"`
	Count int64 `bson:"count" json:"count"`
}

type NoteSummary struct {
	TotalNotes    int64        `json:"totalNotes"`
	PinnedNotes   int64        `json:"pinnedNotes"`
	PublicNotes   int64        `json:"publicNotes"`
	CategoryStats []GroupCount `json:"categoryStats"`
	TagStats      []GroupCount `json:"tagStats"`
}

type TaskSummary struct {
	TotalTasks     int64        `json:"totalTasks"`
	CompletedTasks int64        `json:"completedTasks"`
	OverdueTasks   int64        `json:"overdueTasks"`
	CompletionRate int          `json:"completionRate"`
	StatusStats    []GroupCount `json:"statusStats"`
	PriorityStats  []GroupCount `json:"priorityStats"`
	CategoryStats  []GroupCount `json:"categoryStats"`
}

type MonthlyActivity struct {
	Year  int          `json:"year"`
	Notes []MonthCount `json:"notes"`
	Tasks []MonthCount `json:"tasks"`
}

type Averages struct {
	AvgReadCount     float64 `json:"avgReadCount"`
	AvgEstimatedTime float64 `json:"avgEstimatedTime"`
	AvgActualTime    float64 `json:"avgActualTime"`
}
