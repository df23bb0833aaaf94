package repository

import (
	"context"
	"errors"
	"fmt"

	"secondbrain/model"
	"secondbrain/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownedFilter scopes a single-record lookup to its author. Ids that are not
// valid ObjectIDs cannot exist, so they are reported as not found.
func ownedFilter(id, author string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}
	return bson.M{"_id": oid, "author": author}, nil
}

// findOwned is the single ownership guard for reads: a record that exists but
// belongs to another author is indistinguishable from a missing one.
func findOwned[T any](ctx context.Context, coll *mongo.Collection, id, author string) (*T, error) {
	timer := utils.TrackDBOperation("find_one", coll.Name())
	defer timer.ObserveDuration()

	filter, err := ownedFilter(id, author)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", coll.Name()+"_find_failed")
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

// updateOwned applies update to the author's record and returns the record as
// it is after the update.
func updateOwned[T any](ctx context.Context, coll *mongo.Collection, id, author string, update any) (*T, error) {
	timer := utils.TrackDBOperation("update", coll.Name())
	defer timer.ObserveDuration()

	filter, err := ownedFilter(id, author)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", coll.Name()+"_update_failed")
		return nil, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

func deleteOwned(ctx context.Context, coll *mongo.Collection, id, author string) error {
	timer := utils.TrackDBOperation("delete", coll.Name())
	defer timer.ObserveDuration()

	filter, err := ownedFilter(id, author)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", coll.Name()+"_delete_failed")
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}

	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}

	return nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	timer := utils.TrackDBOperation("find", coll.Name())
	defer timer.ObserveDuration()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		utils.TrackError("database", coll.Name()+"_find_failed")
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		utils.TrackError("database", coll.Name()+"_decode_failed")
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	timer := utils.TrackDBOperation("aggregate", coll.Name())
	defer timer.ObserveDuration()

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		utils.TrackError("database", coll.Name()+"_aggregate_failed")
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s aggregate: %w", coll.Name(), err)
	}
	return out, nil
}

func count(ctx context.Context, coll *mongo.Collection, filter any) (int64, error) {
	timer := utils.TrackDBOperation("count", coll.Name())
	defer timer.ObserveDuration()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		utils.TrackError("database", coll.Name()+"_count_failed")
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n, nil
}
