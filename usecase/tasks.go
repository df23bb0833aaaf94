package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"secondbrain/dto"
	"secondbrain/model"
	"secondbrain/repository"
	"secondbrain/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type TasksService struct {
	store TaskStore
	now   func() time.Time
}

func NewTasksService(store TaskStore) *TasksService {
	return &TasksService{store: store, now: time.Now}
}

type TasksPage struct {
	Tasks      []*model.Task
	Total      int64
	TotalPages int
	Page       int
}

func (s *TasksService) List(ctx context.Context, author string, q repository.TaskQuery) (*TasksPage, error) {
	tasks, total, err := s.store.FindTasks(ctx, author, q)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &TasksPage{
		Tasks:      tasks,
		Total:      total,
		TotalPages: q.Page.TotalPages(total),
		Page:       q.Page.Number,
	}, nil
}

func (s *TasksService) Get(ctx context.Context, author, id string) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, author, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *TasksService) Create(ctx context.Context, author string, req dto.TaskRequest) (*model.Task, error) {
	now := clock(s.now)
	task := &model.Task{
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// An unparsable due date on create is dropped rather than rejected.
	if req.DueDate != nil {
		if due, ok := ParseDate(*req.DueDate); ok {
			task.DueDate = &due
		}
	}

	problems := applyTaskRequest(task, req)
	task.ApplyDefaults()
	task.StampCompletion(now)

	if err := validate(task, taskMessages, problems...); err != nil {
		return nil, err
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	utils.TrackRecordOperation(model.KindTask, "create")
	return task, nil
}

// Update merges req into the stored task. An absent or empty dueDate keeps
// the stored one; an unparsable one clears it.
func (s *TasksService) Update(ctx context.Context, author, id string, req dto.TaskRequest) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, author, id)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		if due, ok := ParseDate(*req.DueDate); ok {
			task.DueDate = &due
		} else {
			task.DueDate = nil
		}
	}

	now := clock(s.now)
	problems := applyTaskRequest(task, req)
	task.StampCompletion(now)
	task.UpdatedAt = now

	if err := validate(task, taskMessages, problems...); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	utils.TrackRecordOperation(model.KindTask, "update")
	return updated, nil
}

func (s *TasksService) Delete(ctx context.Context, author, id string) error {
	if err := s.store.DeleteTask(ctx, author, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	utils.TrackRecordOperation(model.KindTask, "delete")
	return nil
}

func (s *TasksService) UpdateStatus(ctx context.Context, author, id, status string) (*model.Task, error) {
	st := model.TaskStatus(status)
	if !st.IsValid() {
		return nil, model.NewBadRequest("Invalid status")
	}

	task, err := s.store.UpdateStatus(ctx, author, id, st, clock(s.now))
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	utils.TrackRecordOperation(model.KindTask, "status_"+status)
	return task, nil
}

// AppendNote adds a timestamped entry to the task's note log.
func (s *TasksService) AppendNote(ctx context.Context, author, id, content string) (*model.Task, error) {
	entry := model.TaskNote{
		ID:        primitive.NewObjectID(),
		Content:   strings.TrimSpace(content),
		CreatedAt: clock(s.now),
	}
	if err := validate(&entry, taskNoteMessages); err != nil {
		return nil, err
	}

	task, err := s.store.AppendNote(ctx, author, id, entry)
	if err != nil {
		return nil, fmt.Errorf("append task note: %w", err)
	}

	utils.TrackRecordOperation(model.KindTask, "append_note")
	return task, nil
}

func (s *TasksService) Summary(ctx context.Context, author string) (*model.TaskSummary, error) {
	now := s.now().UTC()

	var (
		totals                         model.TaskTotals
		statuses, priorities, category []model.GroupCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.store.Totals(gctx, author, now)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.store.GroupCounts(gctx, author, "status")
		return err
	})
	g.Go(func() (err error) {
		priorities, err = s.store.GroupCounts(gctx, author, "priority")
		return err
	})
	g.Go(func() (err error) {
		category, err = s.store.GroupCounts(gctx, author, "category")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("task summary: %w", err)
	}

	return &model.TaskSummary{
		TotalTasks:     totals.TotalTasks,
		CompletedTasks: totals.CompletedTasks,
		OverdueTasks:   totals.OverdueTasks,
		CompletionRate: model.CompletionRate(totals.CompletedTasks, totals.TotalTasks),
		StatusStats:    statuses,
		PriorityStats:  priorities,
		CategoryStats:  category,
	}, nil
}

// applyTaskRequest copies the present fields of req onto task, except the
// due date which create and update treat differently. It returns the
// problems that struct validation cannot see.
func applyTaskRequest(task *model.Task, req dto.TaskRequest) []string {
	var problems []string

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		task.Status = model.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = model.Priority(*req.Priority)
	}
	if req.Category != nil {
		task.Category = model.TaskCategory(*req.Category)
	}
	if req.EstimatedTime != nil {
		v := *req.EstimatedTime
		task.EstimatedTime = &v
	}
	if req.ActualTime != nil {
		v := *req.ActualTime
		task.ActualTime = &v
	}
	if req.Tags != nil {
		task.Tags = normalizeTags(*req.Tags)
	}
	if req.Subtasks != nil {
		task.Subtasks = mergeSubtasks(task.Subtasks, *req.Subtasks)
	}
	if req.Attachments != nil {
		task.Attachments = *req.Attachments
	}
	if req.IsRecurring != nil {
		task.IsRecurring = *req.IsRecurring
	}
	if req.RecurringPattern != nil {
		task.RecurringPattern = model.RecurrencePattern(*req.RecurringPattern)
	}
	if req.ParentTask != nil {
		switch ref := strings.TrimSpace(*req.ParentTask); ref {
		case "":
			task.ParentTask = nil
		default:
			oid, err := primitive.ObjectIDFromHex(ref)
			if err != nil {
				problems = append(problems, "Parent task must be a valid id")
				break
			}
			task.ParentTask = &oid
		}
	}

	return problems
}

// mergeSubtasks replaces the subtask list with reqs. The first entry naming
// an existing subtask keeps its id and completion time; every other entry
// gets a new id.
func mergeSubtasks(existing []model.Subtask, reqs []dto.SubtaskRequest) []model.Subtask {
	byID := make(map[string]model.Subtask, len(existing))
	for _, st := range existing {
		byID[st.ID.Hex()] = st
	}

	out := make([]model.Subtask, 0, len(reqs))
	for _, r := range reqs {
		st := model.Subtask{
			Title:     strings.TrimSpace(r.Title),
			Completed: r.Completed,
		}
		if prev, ok := byID[r.ID]; ok && r.ID != "" {
			st.ID = prev.ID
			st.CompletedAt = prev.CompletedAt
			delete(byID, r.ID)
		} else {
			st.ID = primitive.NewObjectID()
		}
		out = append(out, st)
	}
	return out
}
