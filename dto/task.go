package dto

import (
	"time"

	"secondbrain/model"
)

type SubtaskRequest struct {
	// ID of an existing subtask. Empty for a new one.
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskRequest is the body of task create and update calls. Nil fields are
// absent from the request.
type TaskRequest struct {
	Title            *string             `json:"title"`
	Description      *string             `json:"description"`
	Status           *string             `json:"status"`
	Priority         *string             `json:"priority"`
	Category         *string             `json:"category"`
	DueDate          *string             `json:"dueDate"`
	EstimatedTime    *float64            `json:"estimatedTime"`
	ActualTime       *float64            `json:"actualTime"`
	Tags             *[]string           `json:"tags"`
	Subtasks         *[]SubtaskRequest   `json:"subtasks"`
	Attachments      *[]model.Attachment `json:"attachments"`
	IsRecurring      *bool               `json:"isRecurring"`
	RecurringPattern *string             `json:"recurringPattern"`
	ParentTask       *string             `json:"parentTask"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type TaskNoteRequest struct {
	Content string `json:"content"`
}

type SubtaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type TaskNoteResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskResponse struct {
	ID                   string             `json:"id"`
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Author               string             `json:"author"`
	Status               string             `json:"status"`
	Priority             string             `json:"priority"`
	Category             string             `json:"category"`
	DueDate              *time.Time         `json:"dueDate,omitempty"`
	CompletedAt          *time.Time         `json:"completedAt,omitempty"`
	EstimatedTime        *float64           `json:"estimatedTime,omitempty"`
	ActualTime           *float64           `json:"actualTime,omitempty"`
	Tags                 []string           `json:"tags"`
	Subtasks             []SubtaskResponse  `json:"subtasks"`
	Attachments          []model.Attachment `json:"attachments"`
	Notes                []TaskNoteResponse `json:"notes"`
	IsRecurring          bool               `json:"isRecurring"`
	RecurringPattern     string             `json:"recurringPattern"`
	ParentTask           string             `json:"parentTask,omitempty"`
	CompletionPercentage int                `json:"completionPercentage"`
	IsOverdue            bool               `json:"isOverdue"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
	Links                map[string]Link    `json:"_links,omitempty"`
}

type TasksPageResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalTasks  int64          `json:"totalTasks"`
}

func TaskLinks(baseURL string, task *model.Task) map[string]Link {
	self := baseURL + "/tasks/" + task.ID.Hex()
	return map[string]Link{
		"self":   {Href: self, Method: "GET"},
		"update": {Href: self, Method: "PUT"},
		"delete": {Href: self, Method: "DELETE"},
		"status": {Href: self + "/status", Method: "PATCH"},
		"notes":  {Href: self + "/notes", Method: "POST"},
	}
}

// ToTaskResponse renders task with its derived fields evaluated at now.
func ToTaskResponse(task *model.Task, now time.Time, links map[string]Link) TaskResponse {
	resp := TaskResponse{
		ID:                   task.ID.Hex(),
		Title:                task.Title,
		Description:          task.Description,
		Author:               task.Author,
		Status:               string(task.Status),
		Priority:             string(task.Priority),
		Category:             string(task.Category),
		DueDate:              task.DueDate,
		CompletedAt:          task.CompletedAt,
		EstimatedTime:        task.EstimatedTime,
		ActualTime:           task.ActualTime,
		Tags:                 nonNil(task.Tags),
		Subtasks:             make([]SubtaskResponse, len(task.Subtasks)),
		Attachments:          nonNil(task.Attachments),
		Notes:                make([]TaskNoteResponse, len(task.Notes)),
		IsRecurring:          task.IsRecurring,
		RecurringPattern:     string(task.RecurringPattern),
		CompletionPercentage: task.CompletionPercentage(),
		IsOverdue:            task.IsOverdue(now),
		CreatedAt:            task.CreatedAt,
		UpdatedAt:            task.UpdatedAt,
		Links:                links,
	}

	for i, st := range task.Subtasks {
		resp.Subtasks[i] = SubtaskResponse{
			ID:          st.ID.Hex(),
			Title:       st.Title,
			Completed:   st.Completed,
			CompletedAt: st.CompletedAt,
		}
	}
	for i, n := range task.Notes {
		resp.Notes[i] = TaskNoteResponse{ID: n.ID.Hex(), Content: n.Content, CreatedAt: n.CreatedAt}
	}
	if task.ParentTask != nil {
		resp.ParentTask = task.ParentTask.Hex()
	}

	return resp
}

func ToTaskResponses(tasks []*model.Task, now time.Time) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = ToTaskResponse(task, now, nil)
	}
	return responses
}

func NewTasksPageResponse(tasks []*model.Task, now time.Time, total int64, totalPages, currentPage int) TasksPageResponse {
	return TasksPageResponse{
		Tasks:       ToTaskResponses(tasks, now),
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		TotalTasks:  total,
	}
}
