package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber keeps (Number-1)*Size far from overflowing.
	MaxPageNumber = 1_000_000
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps the page number to [1, MaxPageNumber] and the size to
// [1, MaxPageSize], using defaultSize when size is not positive.
func NewPage(number, size, defaultSize int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size < 1 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// TotalPages is ceil(total / size).
func (p Page) TotalPages(total int64) int {
	if total <= 0 || p.Size <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) findOptions(sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Size))
}

type NoteQuery struct {
	Search   string
	Category string
	Tags     []string
	IsPinned *bool
	SortBy   string
	SortDesc bool
	Page     Page
}

type TaskQuery struct {
	Search   string
	Status   string
	Priority string
	Category string
	Tags     []string
	DueOn    *time.Time
	SortBy   string
	SortDesc bool
	Page     Page
}

var noteSortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"category":  true,
	"readCount": true,
	"lastRead":  true,
	"isPinned":  true,
	"isPublic":  true,
	"color":     true,
}

var taskSortFields = map[string]bool{
	"createdAt":     true,
	"updatedAt":     true,
	"title":         true,
	"status":        true,
	"priority":      true,
	"category":      true,
	"dueDate":       true,
	"completedAt":   true,
	"estimatedTime": true,
	"actualTime":    true,
}

func direction(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

func sortField(allowed map[string]bool, field string) string {
	if allowed[field] {
		return field
	}
	return "createdAt"
}

func noteFilter(author string, q NoteQuery) bson.M {
	filter := bson.M{"author": author}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.IsPinned != nil {
		filter["isPinned"] = *q.IsPinned
	}
	return filter
}

// noteSort puts pinned notes ahead of everything else unless the caller is
// sorting on isPinned itself.
func noteSort(q NoteQuery) bson.D {
	field := sortField(noteSortFields, q.SortBy)
	dir := direction(q.SortDesc)
	if field == "isPinned" {
		return bson.D{{Key: "isPinned", Value: dir}, {Key: "_id", Value: -1}}
	}
	return bson.D{
		{Key: "isPinned", Value: -1},
		{Key: field, Value: dir},
		{Key: "_id", Value: -1},
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func taskFilter(author string, q TaskQuery) bson.M {
	filter := bson.M{"author": author}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.DueOn != nil {
		start := StartOfDay(*q.DueOn)
		filter["dueDate"] = bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
	}
	return filter
}

func taskSort(q TaskQuery) bson.D {
	return bson.D{
		{Key: sortField(taskSortFields, q.SortBy), Value: direction(q.SortDesc)},
		{Key: "_id", Value: -1},
	}
}

func textSearchOptions(limit int) *options.FindOptions {
	score := bson.M{"$meta": "textScore"}
	return options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetLimit(int64(limit))
}

func latestOptions(field string, desc bool, limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: field, Value: direction(desc)}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
}
