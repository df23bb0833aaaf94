package repository

import (
	"context"
	"fmt"
	"time"

	"secondbrain/model"
	"secondbrain/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(db *mongo.Database, collection string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(collection),
	}
}

// FindNotes returns one page of the author's notes matching q, and the number
// of matching notes across all pages.
func (r *NotesRepo) FindNotes(ctx context.Context, author string, q NoteQuery) ([]*model.Note, int64, error) {
	filter := noteFilter(author, q)

	notes, err := findMany[model.Note](ctx, r.MongoCollection, filter, q.Page.findOptions(noteSort(q)))
	if err != nil {
		return nil, 0, err
	}

	total, err := count(ctx, r.MongoCollection, filter)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *NotesRepo) GetNote(ctx context.Context, author, id string) (*model.Note, error) {
	return findOwned[model.Note](ctx, r.MongoCollection, id, author)
}

// MarkRead bumps the read counter and stamps lastRead in one atomic update.
func (r *NotesRepo) MarkRead(ctx context.Context, author, id string, at time.Time) (*model.Note, error) {
	update := bson.M{
		"$inc": bson.M{"readCount": 1},
		"$set": bson.M{"lastRead": at},
	}
	return updateOwned[model.Note](ctx, r.MongoCollection, id, author, update)
}

func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	if note.Author == "" {
		utils.TrackError("database", "missing_author")
		return fmt.Errorf("create note: author is required")
	}
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// UpdateNote writes the editable fields of note. The author, read counters
// and creation time are never touched.
func (r *NotesRepo) UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	update := bson.M{
		"$set": bson.M{
			"title":       note.Title,
			"content":     note.Content,
			"tags":        note.Tags,
			"category":    note.Category,
			"isPublic":    note.IsPublic,
			"isPinned":    note.IsPinned,
			"color":       note.Color,
			"attachments": note.Attachments,
			"updatedAt":   note.UpdatedAt,
		},
	}
	return updateOwned[model.Note](ctx, r.MongoCollection, note.ID.Hex(), note.Author, update)
}

func (r *NotesRepo) DeleteNote(ctx context.Context, author, id string) error {
	return deleteOwned(ctx, r.MongoCollection, id, author)
}

// TogglePin flips isPinned server-side so concurrent toggles cannot both read
// the same old value.
func (r *NotesRepo) TogglePin(ctx context.Context, author, id string, at time.Time) (*model.Note, error) {
	update := bson.A{
		bson.M{"$set": bson.M{
			"isPinned":  bson.M{"$not": bson.A{"$isPinned"}},
			"updatedAt": at,
		}},
	}
	return updateOwned[model.Note](ctx, r.MongoCollection, id, author, update)
}

// Totals counts the author's notes, pinned and public notes, and averages the
// read counter, in a single pass.
func (r *NotesRepo) Totals(ctx context.Context, author string) (model.NoteTotals, error) {
	pipeline := mongo.Pipeline{
		matchAuthor(author),
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalNotes":   bson.M{"$sum": 1},
			"pinnedNotes":  countIf("$isPinned"),
			"publicNotes":  countIf("$isPublic"),
			"avgReadCount": bson.M{"$avg": "$readCount"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"totalNotes":   1,
			"pinnedNotes":  1,
			"publicNotes":  1,
			"avgReadCount": avgOrZero("avgReadCount"),
		}}},
	}

	rows, err := aggregate[model.NoteTotals](ctx, r.MongoCollection, pipeline)
	if err != nil {
		return model.NoteTotals{}, err
	}
	if len(rows) == 0 {
		return model.NoteTotals{}, nil
	}
	return rows[0], nil
}

func (r *NotesRepo) CategoryCounts(ctx context.Context, author string) ([]model.GroupCount, error) {
	return groupCount(ctx, r.MongoCollection, author, "category")
}

func (r *NotesRepo) TopTags(ctx context.Context, author string, limit int) ([]model.GroupCount, error) {
	return topTags(ctx, r.MongoCollection, author, limit)
}

func (r *NotesRepo) RecentNotes(ctx context.Context, author string, limit int) ([]*model.Note, error) {
	return findMany[model.Note](ctx, r.MongoCollection,
		bson.M{"author": author}, latestOptions("createdAt", true, limit))
}

func (r *NotesRepo) PinnedNotes(ctx context.Context, author string, limit int) ([]*model.Note, error) {
	return findMany[model.Note](ctx, r.MongoCollection,
		bson.M{"author": author, "isPinned": true}, latestOptions("updatedAt", true, limit))
}

func (r *NotesRepo) RecentlyUpdatedNotes(ctx context.Context, author string, limit int) ([]*model.Note, error) {
	return findMany[model.Note](ctx, r.MongoCollection,
		bson.M{"author": author}, latestOptions("updatedAt", true, limit))
}

// SearchNotes returns the limit best text matches with their relevance score.
func (r *NotesRepo) SearchNotes(ctx context.Context, author, text string, limit int) ([]*model.Note, error) {
	filter := bson.M{"author": author, "$text": bson.M{"$search": text}}
	return findMany[model.Note](ctx, r.MongoCollection, filter, textSearchOptions(limit))
}

func (r *NotesRepo) MonthlyCreated(ctx context.Context, author string, from, to time.Time) ([]model.MonthCount, error) {
	return monthlyCreated(ctx, r.MongoCollection, author, from, to)
}
