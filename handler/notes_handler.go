package handler

import (
	"context"

	"secondbrain/dto"
	"secondbrain/model"
	"secondbrain/repository"
	"secondbrain/usecase"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

type NotesService interface {
	List(ctx context.Context, author string, q repository.NoteQuery) (*usecase.NotesPage, error)
	Get(ctx context.Context, author, id string) (*model.Note, error)
	Create(ctx context.Context, author string, req dto.NoteRequest) (*model.Note, error)
	Update(ctx context.Context, author, id string, req dto.NoteRequest) (*model.Note, error)
	Delete(ctx context.Context, author, id string) error
	TogglePin(ctx context.Context, author, id string) (*model.Note, error)
	Summary(ctx context.Context, author string) (*model.NoteSummary, error)
}

const noteNotFound = "Note not found"

type NotesHandler struct {
	notes NotesService
}

func NewNotesHandler(notes NotesService) *NotesHandler {
	return &NotesHandler{notes: notes}
}

func (h *NotesHandler) ListNotes(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	sortBy, desc := sortQuery(c)
	q := repository.NoteQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tags:     tagsQuery(c),
		SortBy:   sortBy,
		SortDesc: desc,
		Page:     pageQuery(c, repository.DefaultPageSize),
	}
	if raw, present := c.GetQuery("isPinned"); present {
		pinned := raw == "true"
		q.IsPinned = &pinned
	}

	page, err := h.notes.List(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to fetch notes")
		return
	}

	utils.Success(c, dto.NewNotesPageResponse(page.Notes, page.Total, page.TotalPages, page.Page))
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	note, err := h.notes.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to fetch note")
		return
	}

	utils.Success(c, gin.H{"note": dto.ToNoteResponse(note, dto.NoteLinks(utils.GetBaseURL(c), note))})
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.notes.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to create note")
		return
	}

	utils.Created(c, "Note created successfully",
		gin.H{"note": dto.ToNoteResponse(note, dto.NoteLinks(utils.GetBaseURL(c), note))})
}

func (h *NotesHandler) UpdateNote(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.notes.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to update note")
		return
	}

	utils.SuccessWithMessage(c, "Note updated successfully",
		gin.H{"note": dto.ToNoteResponse(note, dto.NoteLinks(utils.GetBaseURL(c), note))})
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, noteNotFound, "Failed to delete note")
		return
	}

	utils.SuccessWithMessage(c, "Note deleted successfully", nil)
}

func (h *NotesHandler) TogglePin(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	note, err := h.notes.TogglePin(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to toggle pin status")
		return
	}

	message := "Note unpinned successfully"
	if note.IsPinned {
		message = "Note pinned successfully"
	}
	utils.SuccessWithMessage(c, message,
		gin.H{"note": dto.ToNoteResponse(note, dto.NoteLinks(utils.GetBaseURL(c), note))})
}

func (h *NotesHandler) Summary(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	summary, err := h.notes.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, noteNotFound, "Failed to fetch note statistics")
		return
	}

	utils.Success(c, summary)
}
