package handler

import (
	"context"
	"time"

	"secondbrain/dto"
	"secondbrain/model"
	"secondbrain/repository"
	"secondbrain/usecase"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

type TasksService interface {
	List(ctx context.Context, author string, q repository.TaskQuery) (*usecase.TasksPage, error)
	Get(ctx context.Context, author, id string) (*model.Task, error)
	Create(ctx context.Context, author string, req dto.TaskRequest) (*model.Task, error)
	Update(ctx context.Context, author, id string, req dto.TaskRequest) (*model.Task, error)
	Delete(ctx context.Context, author, id string) error
	UpdateStatus(ctx context.Context, author, id, status string) (*model.Task, error)
	AppendNote(ctx context.Context, author, id, content string) (*model.Task, error)
	Summary(ctx context.Context, author string) (*model.TaskSummary, error)
}

const taskNotFound = "Task not found"

type TasksHandler struct {
	tasks TasksService
	now   func() time.Time
}

func NewTasksHandler(tasks TasksService) *TasksHandler {
	return &TasksHandler{tasks: tasks, now: time.Now}
}

func (h *TasksHandler) respondTask(c *gin.Context, message string, task *model.Task) {
	body := gin.H{"task": dto.ToTaskResponse(task, h.now(), dto.TaskLinks(utils.GetBaseURL(c), task))}
	if message == "" {
		utils.Success(c, body)
		return
	}
	utils.SuccessWithMessage(c, message, body)
}

func (h *TasksHandler) ListTasks(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	sortBy, desc := sortQuery(c)
	q := repository.TaskQuery{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Tags:     tagsQuery(c),
		SortBy:   sortBy,
		SortDesc: desc,
		Page:     pageQuery(c, repository.DefaultPageSize),
	}
	// An unparsable dueDate filter is ignored.
	if due, ok := usecase.ParseDate(c.Query("dueDate")); ok {
		q.DueOn = &due
	}

	page, err := h.tasks.List(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to fetch tasks")
		return
	}

	utils.Success(c, dto.NewTasksPageResponse(page.Tasks, h.now(), page.Total, page.TotalPages, page.Page))
}

func (h *TasksHandler) GetTask(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to fetch task")
		return
	}

	h.respondTask(c, "", task)
}

func (h *TasksHandler) CreateTask(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to create task")
		return
	}

	utils.Created(c, "Task created successfully",
		gin.H{"task": dto.ToTaskResponse(task, h.now(), dto.TaskLinks(utils.GetBaseURL(c), task))})
}

func (h *TasksHandler) UpdateTask(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to update task")
		return
	}

	h.respondTask(c, "Task updated successfully", task)
}

func (h *TasksHandler) DeleteTask(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, taskNotFound, "Failed to delete task")
		return
	}

	utils.SuccessWithMessage(c, "Task deleted successfully", nil)
}

func (h *TasksHandler) UpdateStatus(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to update task status")
		return
	}

	h.respondTask(c, "Task status updated successfully", task)
}

func (h *TasksHandler) AddNote(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.TaskNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.AppendNote(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to add note")
		return
	}

	h.respondTask(c, "Note added successfully", task)
}

func (h *TasksHandler) Summary(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	summary, err := h.tasks.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, taskNotFound, "Failed to fetch task statistics")
		return
	}

	utils.Success(c, summary)
}
