package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"secondbrain/model"
	"secondbrain/utils"
)

var noteMessages = utils.FieldMessages{
	"Title.required":       "Note title is required",
	"Title.max":            "Title cannot exceed 200 characters",
	"Content.required":     "Note content is required",
	"Content.max":          "Content cannot exceed 10000 characters",
	"Author.required":      "Note author is required",
	"Tags.max":             "Tag cannot exceed 50 characters",
	"Category.oneof":       "Category must be one of personal, work, study, ideas, journal, other",
	"Color.len":            "Color must be a valid hex color",
	"Color.hexcolor":       "Color must be a valid hex color",
	"ReadCount.min":        "Read count cannot be negative",
	"Attachments.Size.min": "Attachment size cannot be negative",
}

var taskMessages = utils.FieldMessages{
	"Title.required":          "Task title is required",
	"Title.max":               "Title cannot exceed 200 characters",
	"Description.max":         "Description cannot exceed 1000 characters",
	"Author.required":         "Task author is required",
	"Status.oneof":            "Status must be one of todo, in-progress, review, completed, archived",
	"Priority.oneof":          "Priority must be one of low, medium, high, urgent",
	"Category.oneof":          "Category must be one of personal, work, study, health, finance, other",
	"EstimatedTime.min":       "Estimated time cannot be negative",
	"ActualTime.min":          "Actual time cannot be negative",
	"Tags.max":                "Tag cannot exceed 50 characters",
	"Subtasks.Title.required": "Subtask title is required",
	"Notes.Content.required":  "Note content is required",
	"Notes.Content.max":       "Note cannot exceed 1000 characters",
	"RecurringPattern.oneof":  "Recurring pattern must be one of daily, weekly, monthly, yearly",
	"Attachments.Size.min":    "Attachment size cannot be negative",
}

var taskNoteMessages = utils.FieldMessages{
	"Content.required": "Note content is required",
	"Content.max":      "Note cannot exceed 1000 characters",
}

// validate checks s against its struct tags and adds extra, the problems
// found before validation, to the same error.
func validate(s any, messages utils.FieldMessages, extra ...string) error {
	err := utils.ValidateStruct(s, messages)

	var verr *model.ValidationError
	switch {
	case err == nil:
		if len(extra) == 0 {
			return nil
		}
		return model.NewValidationError(extra...)
	case errors.As(err, &verr):
		return model.NewValidationError(append(verr.Messages, extra...)...)
	default:
		return fmt.Errorf("validate: %w", err)
	}
}

// normalizeTags trims every tag and drops the empty ones.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ParseDate accepts an RFC 3339 timestamp or a calendar date (YYYY-MM-DD,
// taken as midnight UTC).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
