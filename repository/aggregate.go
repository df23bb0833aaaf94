package repository

import (
	"context"
	"time"

	"secondbrain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func matchAuthor(author string) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{"author": author}}}
}

// groupCount counts the author's records per distinct value of field,
// largest groups first.
func groupCount(ctx context.Context, coll *mongo.Collection, author, field string) ([]model.GroupCount, error) {
	pipeline := mongo.Pipeline{
		matchAuthor(author),
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	return aggregate[model.GroupCount](ctx, coll, pipeline)
}

// topTags unwinds the tags array and keeps the limit most frequent tags.
func topTags(ctx context.Context, coll *mongo.Collection, author string, limit int) ([]model.GroupCount, error) {
	pipeline := mongo.Pipeline{
		matchAuthor(author),
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	return aggregate[model.GroupCount](ctx, coll, pipeline)
}

// monthlyCreated counts records created in [from, to) per calendar month.
// Months without records are absent from the result.
func monthlyCreated(ctx context.Context, coll *mongo.Collection, author string, from, to time.Time) ([]model.MonthCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"author":    author,
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$createdAt"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return aggregate[model.MonthCount](ctx, coll, pipeline)
}

// countIf sums 1 for every document where cond holds.
func countIf(cond any) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
}

// avgOrZero projects an averaged field, replacing the null produced by an
// empty group with 0.
func avgOrZero(field string) bson.M {
	return bson.M{"$ifNull": bson.A{"$" + field, 0}}
}
