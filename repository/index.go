package repository

import (
	"context"
	"fmt"
	"log/slog"

	"secondbrain/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func noteIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("author_created"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().SetName("author_updated"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "isPinned", Value: -1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().SetName("author_pinned"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "tags", Value: 1},
			},
			Options: options.Index().SetName("author_tags"),
		},
		// Title matches outrank body matches.
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "content", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetName("text_search").
				SetDefaultLanguage("english").
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "content", Value: 5},
					{Key: "tags", Value: 3},
				}),
		},
	}
}

func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("author_created"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().SetName("author_updated"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "status", Value: 1},
				{Key: "dueDate", Value: 1},
			},
			Options: options.Index().SetName("author_status_due"),
		},
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "tags", Value: 1},
			},
			Options: options.Index().SetName("author_tags"),
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetName("text_search").
				SetDefaultLanguage("english").
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "description", Value: 5},
					{Key: "tags", Value: 3},
				}),
		},
	}
}

// SetupIndexes creates the indexes both collections rely on, including the
// text indexes search needs. Creating an index that already exists is a no-op.
func SetupIndexes(ctx context.Context, db *mongo.Database, notesCollection, tasksCollection string) error {
	names, err := db.Collection(notesCollection).Indexes().CreateMany(ctx, noteIndexes())
	if err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}
	logger.Debug(ctx, "notes indexes", slog.String("collection", notesCollection), slog.Any("names", names))

	names, err = db.Collection(tasksCollection).Indexes().CreateMany(ctx, taskIndexes())
	if err != nil {
		return fmt.Errorf("failed to create tasks indexes: %w", err)
	}
	logger.Debug(ctx, "tasks indexes", slog.String("collection", tasksCollection), slog.Any("names", names))

	logger.Info(ctx, "indexes ready", slog.String("database", db.Name()))
	return nil
}
