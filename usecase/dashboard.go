package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"secondbrain/model"
	"secondbrain/repository"

	"golang.org/x/sync/errgroup"
)

const (
	recentLimit   = 5
	upcomingLimit = 5
	pinnedLimit   = 3

	DefaultActivityLimit = 20

	// maxFeedWindow bounds how deep the activity feed and search can page;
	// pages past it come back empty.
	maxFeedWindow = 1000
)

type DashboardService struct {
	notes NoteStore
	tasks TaskStore
	agg   *AggregationService
	now   func() time.Time
}

func NewDashboardService(notes NoteStore, tasks TaskStore, agg *AggregationService) *DashboardService {
	return &DashboardService{notes: notes, tasks: tasks, agg: agg, now: time.Now}
}

// Overview reads the dashboard parts concurrently. The first failure cancels
// the remaining reads.
func (s *DashboardService) Overview(ctx context.Context, author string) (*model.Overview, error) {
	now := s.now().UTC()

	var (
		out        model.Overview
		noteTotals model.NoteTotals
		taskTotals model.TaskTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		noteTotals, err = s.notes.Totals(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		taskTotals, err = s.tasks.Totals(gctx, author, now)
		return err
	})
	g.Go(func() (err error) {
		out.RecentNotes, err = s.notes.RecentNotes(gctx, author, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		out.RecentTasks, err = s.tasks.RecentTasks(gctx, author, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		out.UpcomingTasks, err = s.tasks.UpcomingTasks(gctx, author, now, upcomingLimit)
		return err
	})
	g.Go(func() (err error) {
		out.PinnedNotes, err = s.notes.PinnedNotes(gctx, author, pinnedLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}

	out.Totals = model.OverviewTotals{
		TotalNotes:     noteTotals.TotalNotes,
		TotalTasks:     taskTotals.TotalTasks,
		CompletedTasks: taskTotals.CompletedTasks,
		OverdueTasks:   taskTotals.OverdueTasks,
		CompletionRate: model.CompletionRate(taskTotals.CompletedTasks, taskTotals.TotalTasks),
	}
	return &out, nil
}

// Activity returns one page of notes and tasks merged by last update, newest
// first. The first page*limit entries of the merged feed are always drawn
// from the page*limit most recent of each kind, so the page is exact.
func (s *DashboardService) Activity(ctx context.Context, author string, page repository.Page) (*model.ActivityPage, error) {
	out := &model.ActivityPage{Items: []model.ActivityItem{}, Page: page.Number, Limit: page.Size}

	window, ok := feedWindow(page)
	if !ok {
		return out, nil
	}

	var (
		notes []*model.Note
		tasks []*model.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = s.notes.RecentlyUpdatedNotes(gctx, author, window)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.RecentlyUpdatedTasks(gctx, author, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("activity feed: %w", err)
	}

	merged := make([]model.ActivityItem, 0, len(notes)+len(tasks))
	for _, n := range notes {
		merged = append(merged, model.ActivityItem{Kind: model.KindNote, UpdatedAt: n.UpdatedAt, Note: n})
	}
	for _, t := range tasks {
		merged = append(merged, model.ActivityItem{Kind: model.KindTask, UpdatedAt: t.UpdatedAt, Task: t})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})

	out.Items = pageOf(merged, page)
	return out, nil
}

// Search runs a text search over notes, tasks or both, merges the hits by
// relevance and returns the requested page.
func (s *DashboardService) Search(ctx context.Context, author, query, kind string, page repository.Page) (*model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewBadRequest("Search query is required")
	}

	var withNotes, withTasks bool
	switch kind {
	case "":
		withNotes, withTasks = true, true
	case "notes":
		withNotes = true
	case "tasks":
		withTasks = true
	default:
		// Unknown kinds are rejected rather than searched as nothing.
		return nil, model.NewBadRequest("Search type must be notes or tasks")
	}

	out := &model.SearchResult{Query: query, Hits: []model.SearchHit{}, Page: page.Number}

	window, ok := feedWindow(page)
	if !ok {
		return out, nil
	}

	var (
		notes []*model.Note
		tasks []*model.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	if withNotes {
		g.Go(func() (err error) {
			notes, err = s.notes.SearchNotes(gctx, author, query, window)
			return err
		})
	}
	if withTasks {
		g.Go(func() (err error) {
			tasks, err = s.tasks.SearchTasks(gctx, author, query, window)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	merged := make([]model.SearchHit, 0, len(notes)+len(tasks))
	for _, n := range notes {
		merged = append(merged, model.SearchHit{Kind: model.KindNote, Score: n.Score, Note: n})
	}
	for _, t := range tasks {
		merged = append(merged, model.SearchHit{Kind: model.KindTask, Score: t.Score, Task: t})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	out.Total = len(merged)
	out.Hits = pageOf(merged, page)
	return out, nil
}

// Stats gathers totals, averages, breakdowns and monthly activity for both
// kinds of record.
func (s *DashboardService) Stats(ctx context.Context, author string) (*model.Stats, error) {
	now := s.now().UTC()

	var (
		out        model.Stats
		noteTotals model.NoteTotals
		taskTotals model.TaskTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		noteTotals, err = s.notes.Totals(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		out.Notes.CategoryStats, err = s.notes.CategoryCounts(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		out.Notes.TagStats, err = s.notes.TopTags(gctx, author, topTagsLimit)
		return err
	})
	g.Go(func() (err error) {
		taskTotals, err = s.tasks.Totals(gctx, author, now)
		return err
	})
	g.Go(func() (err error) {
		out.Tasks.StatusStats, err = s.tasks.GroupCounts(gctx, author, "status")
		return err
	})
	g.Go(func() (err error) {
		out.Tasks.PriorityStats, err = s.tasks.GroupCounts(gctx, author, "priority")
		return err
	})
	g.Go(func() (err error) {
		out.Tasks.CategoryStats, err = s.tasks.GroupCounts(gctx, author, "category")
		return err
	})
	g.Go(func() (err error) {
		out.MonthlyActivity, err = s.agg.MonthlyActivity(gctx, author)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	out.Notes.NoteTotals = noteTotals
	out.Tasks.TaskTotals = taskTotals
	out.Tasks.CompletionRate = model.CompletionRate(taskTotals.CompletedTasks, taskTotals.TotalTasks)
	out.Averages = averagesOf(noteTotals, taskTotals)
	return &out, nil
}

// feedWindow is page.Number*page.Size, the number of merged entries needed to
// cut the page. It reports false for empty pages and for pages that end past
// maxFeedWindow.
func feedWindow(page repository.Page) (int, bool) {
	if page.Number < 1 || page.Size < 1 || page.Number > maxFeedWindow/page.Size {
		return 0, false
	}
	return page.Number * page.Size, true
}

func pageOf[T any](items []T, page repository.Page) []T {
	skip := page.Skip()
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	start := int(skip)
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
