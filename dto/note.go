package dto

import (
	"time"

	"secondbrain/model"
)

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// NoteRequest is the body of note create and update calls. Nil fields are
// absent from the request and leave the stored value untouched.
type NoteRequest struct {
	Title       *string             `json:"title"`
	Content     *string             `json:"content"`
	Tags        *[]string           `json:"tags"`
	Category    *string             `json:"category"`
	IsPublic    *bool               `json:"isPublic"`
	IsPinned    *bool               `json:"isPinned"`
	Color       *string             `json:"color"`
	Attachments *[]model.Attachment `json:"attachments"`
}

type NoteResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Excerpt     string             `json:"excerpt"`
	Author      string             `json:"author"`
	Tags        []string           `json:"tags"`
	Category    string             `json:"category"`
	IsPublic    bool               `json:"isPublic"`
	IsPinned    bool               `json:"isPinned"`
	Color       string             `json:"color"`
	Attachments []model.Attachment `json:"attachments"`
	ReadCount   int64              `json:"readCount"`
	LastRead    time.Time          `json:"lastRead"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Links       map[string]Link    `json:"_links,omitempty"`
}

type NotesPageResponse struct {
	Notes       []NoteResponse `json:"notes"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalNotes  int64          `json:"totalNotes"`
}

// NoteLinks builds the HAL links of a single note under baseURL.
func NoteLinks(baseURL string, note *model.Note) map[string]Link {
	self := baseURL + "/notes/" + note.ID.Hex()
	return map[string]Link{
		"self":   {Href: self, Method: "GET"},
		"update": {Href: self, Method: "PUT"},
		"delete": {Href: self, Method: "DELETE"},
		"pin":    {Href: self + "/pin", Method: "PATCH"},
	}
}

func ToNoteResponse(note *model.Note, links map[string]Link) NoteResponse {
	return NoteResponse{
		ID:          note.ID.Hex(),
		Title:       note.Title,
		Content:     note.Content,
		Excerpt:     note.Excerpt(),
		Author:      note.Author,
		Tags:        nonNil(note.Tags),
		Category:    string(note.Category),
		IsPublic:    note.IsPublic,
		IsPinned:    note.IsPinned,
		Color:       note.Color,
		Attachments: nonNil(note.Attachments),
		ReadCount:   note.ReadCount,
		LastRead:    note.LastRead,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
		Links:       links,
	}
}

// Convert slice of notes to slice of NoteResponse
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note, nil)
	}
	return responses
}

func NewNotesPageResponse(notes []*model.Note, total int64, totalPages, currentPage int) NotesPageResponse {
	return NotesPageResponse{
		Notes:       ToNoteResponses(notes),
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		TotalNotes:  total,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
