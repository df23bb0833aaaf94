package model

import (
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NoteCategory string

const (
	NoteCategoryPersonal NoteCategory = "personal"
	NoteCategoryWork     NoteCategory = "work"
	NoteCategoryStudy    NoteCategory = "study"
	NoteCategoryIdeas    NoteCategory = "ideas"
	NoteCategoryJournal  NoteCategory = "journal"
	NoteCategoryOther    NoteCategory = "other"
)

const (
	DefaultNoteColor = "#ffffff"
	excerptLength    = 150
)

type Attachment struct {
	Filename string `bson:"filename" json:"filename"`
	URL      string `bson:"url" json:"url"`
	Type     string `bson:"type" json:"type"`
	Size     int64  `bson:"size" json:"size" validate:"min=0"`
}

type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required,max=200"`
	Content     string             `bson:"content" json:"content" validate:"required,max=10000"`
	Author      string             `bson:"author" json:"author" validate:"required"`
	Tags        []string           `bson:"tags" json:"tags" validate:"dive,max=50"`
	Category    NoteCategory       `bson:"category" json:"category" validate:"oneof=personal work study ideas journal other"`
	IsPublic    bool               `bson:"isPublic" json:"isPublic"`
	IsPinned    bool               `bson:"isPinned" json:"isPinned"`
	Color       string             `bson:"color" json:"color" validate:"len=7,hexcolor"`
	Attachments []Attachment       `bson:"attachments" json:"attachments" validate:"dive"`
	ReadCount   int64              `bson:"readCount" json:"readCount" validate:"min=0"`
	LastRead    time.Time          `bson:"lastRead" json:"lastRead"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Populated only by text search projections.
	Score float64 `bson:"score,omitempty" json:"-"`
}

// ApplyDefaults fills the zero values a freshly created note should not keep.
func (n *Note) ApplyDefaults() {
	if n.Category == "" {
		n.Category = NoteCategoryPersonal
	}
	if n.Color == "" {
		n.Color = DefaultNoteColor
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Attachments == nil {
		n.Attachments = []Attachment{}
	}
}

// Excerpt returns the first 150 characters of the content, followed by an
// ellipsis when the content is longer.
func (n *Note) Excerpt() string {
	if utf8.RuneCountInString(n.Content) <= excerptLength {
		return n.Content
	}
	runes := []rune(n.Content)
	return string(runes[:excerptLength]) + "..."
}

// NoteTotals is the single-group result of the notes totals pipeline.
type NoteTotals struct {
	TotalNotes   int64   `bson:"totalNotes" json:"totalNotes"`
	PinnedNotes  int64   `bson:"pinnedNotes" json:"pinnedNotes"`
	PublicNotes  int64   `bson:"publicNotes" json:"publicNotes"`
	AvgReadCount float64 `bson:"avgReadCount" json:"avgReadCount"`
}
