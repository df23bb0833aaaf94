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

type TasksRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for tasks
func GetTasksRepo(db *mongo.Database, collection string) *TasksRepo {
	return &TasksRepo{
		MongoCollection: db.Collection(collection),
	}
}

func (r *TasksRepo) FindTasks(ctx context.Context, author string, q TaskQuery) ([]*model.Task, int64, error) {
	filter := taskFilter(author, q)

	tasks, err := findMany[model.Task](ctx, r.MongoCollection, filter, q.Page.findOptions(taskSort(q)))
	if err != nil {
		return nil, 0, err
	}

	total, err := count(ctx, r.MongoCollection, filter)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TasksRepo) GetTask(ctx context.Context, author, id string) (*model.Task, error) {
	return findOwned[model.Task](ctx, r.MongoCollection, id, author)
}

func (r *TasksRepo) CreateTask(ctx context.Context, task *model.Task) error {
	timer := utils.TrackDBOperation("insert", r.MongoCollection.Name())
	defer timer.ObserveDuration()

	if task.Author == "" {
		utils.TrackError("database", "missing_author")
		return fmt.Errorf("create task: author is required")
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}

	if _, err := r.MongoCollection.InsertOne(ctx, task); err != nil {
		utils.TrackError("database", "task_creation_failed")
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateTask writes the editable fields of task. Optional fields that are nil
// on task are removed from the stored document.
func (r *TasksRepo) UpdateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	set := bson.M{
		"title":            task.Title,
		"description":      task.Description,
		"status":           task.Status,
		"priority":         task.Priority,
		"category":         task.Category,
		"tags":             task.Tags,
		"subtasks":         task.Subtasks,
		"attachments":      task.Attachments,
		"isRecurring":      task.IsRecurring,
		"recurringPattern": task.RecurringPattern,
		"updatedAt":        task.UpdatedAt,
	}
	unset := bson.M{}

	setOrUnset(set, unset, "dueDate", task.DueDate)
	setOrUnset(set, unset, "completedAt", task.CompletedAt)
	setOrUnset(set, unset, "estimatedTime", task.EstimatedTime)
	setOrUnset(set, unset, "actualTime", task.ActualTime)
	setOrUnset(set, unset, "parentTask", task.ParentTask)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return updateOwned[model.Task](ctx, r.MongoCollection, task.ID.Hex(), task.Author, update)
}

func setOrUnset[T any](set, unset bson.M, field string, value *T) {
	if value == nil {
		unset[field] = ""
		return
	}
	set[field] = *value
}

// UpdateStatus moves the task to status. Entering completed stamps
// completedAt unless it is already set; any other status removes it.
func (r *TasksRepo) UpdateStatus(ctx context.Context, author, id string, status model.TaskStatus, at time.Time) (*model.Task, error) {
	var completedAt any = "$$REMOVE"
	if status == model.StatusCompleted {
		completedAt = bson.M{"$ifNull": bson.A{"$completedAt", at}}
	}

	update := bson.A{
		bson.M{"$set": bson.M{
			"status":      string(status),
			"completedAt": completedAt,
			"updatedAt":   at,
		}},
	}
	return updateOwned[model.Task](ctx, r.MongoCollection, id, author, update)
}

// AppendNote pushes entry onto the task's note log.
func (r *TasksRepo) AppendNote(ctx context.Context, author, id string, entry model.TaskNote) (*model.Task, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	update := bson.M{
		"$push": bson.M{"notes": entry},
		"$set":  bson.M{"updatedAt": entry.CreatedAt},
	}
	return updateOwned[model.Task](ctx, r.MongoCollection, id, author, update)
}

func (r *TasksRepo) DeleteTask(ctx context.Context, author, id string) error {
	return deleteOwned(ctx, r.MongoCollection, id, author)
}

// Totals counts the author's tasks, completed and overdue tasks, and averages
// the time estimates, in a single pass. A task is overdue when it has a due
// date before now and is not completed.
func (r *TasksRepo) Totals(ctx context.Context, author string, now time.Time) (model.TaskTotals, error) {
	completed := bson.M{"$eq": bson.A{"$status", string(model.StatusCompleted)}}
	overdue := bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$type": "$dueDate"}, "date"}},
		bson.M{"$lt": bson.A{"$dueDate", now}},
		bson.M{"$ne": bson.A{"$status", string(model.StatusCompleted)}},
	}}

	pipeline := mongo.Pipeline{
		matchAuthor(author),
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"totalTasks":       bson.M{"$sum": 1},
			"completedTasks":   countIf(completed),
			"overdueTasks":     countIf(overdue),
			"avgEstimatedTime": bson.M{"$avg": "$estimatedTime"},
			"avgActualTime":    bson.M{"$avg": "$actualTime"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":              0,
			"totalTasks":       1,
			"completedTasks":   1,
			"overdueTasks":     1,
			"avgEstimatedTime": avgOrZero("avgEstimatedTime"),
			"avgActualTime":    avgOrZero("avgActualTime"),
		}}},
	}

	rows, err := aggregate[model.TaskTotals](ctx, r.MongoCollection, pipeline)
	if err != nil {
		return model.TaskTotals{}, err
	}
	if len(rows) == 0 {
		return model.TaskTotals{}, nil
	}
	return rows[0], nil
}

// GroupCounts counts the author's tasks per value of field (status, priority
// or category).
func (r *TasksRepo) GroupCounts(ctx context.Context, author, field string) ([]model.GroupCount, error) {
	return groupCount(ctx, r.MongoCollection, author, field)
}

func (r *TasksRepo) RecentTasks(ctx context.Context, author string, limit int) ([]*model.Task, error) {
	return findMany[model.Task](ctx, r.MongoCollection,
		bson.M{"author": author}, latestOptions("createdAt", true, limit))
}

// UpcomingTasks returns unfinished tasks due at or after now, soonest first.
func (r *TasksRepo) UpcomingTasks(ctx context.Context, author string, now time.Time, limit int) ([]*model.Task, error) {
	filter := bson.M{
		"author":  author,
		"dueDate": bson.M{"$gte": now},
		"status":  bson.M{"$ne": model.StatusCompleted},
	}
	return findMany[model.Task](ctx, r.MongoCollection, filter, latestOptions("dueDate", false, limit))
}

func (r *TasksRepo) RecentlyUpdatedTasks(ctx context.Context, author string, limit int) ([]*model.Task, error) {
	return findMany[model.Task](ctx, r.MongoCollection,
		bson.M{"author": author}, latestOptions("updatedAt", true, limit))
}

func (r *TasksRepo) SearchTasks(ctx context.Context, author, text string, limit int) ([]*model.Task, error) {
	filter := bson.M{"author": author, "$text": bson.M{"$search": text}}
	return findMany[model.Task](ctx, r.MongoCollection, filter, textSearchOptions(limit))
}

func (r *TasksRepo) MonthlyCreated(ctx context.Context, author string, from, to time.Time) ([]model.MonthCount, error) {
	return monthlyCreated(ctx, r.MongoCollection, author, from, to)
}
