package usecase

import (
	"context"
	"fmt"
	"time"

	"secondbrain/model"

	"golang.org/x/sync/errgroup"
)

type AggregationService struct {
	notes NoteStore
	tasks TaskStore
	now   func() time.Time
}

func NewAggregationService(notes NoteStore, tasks TaskStore) *AggregationService {
	return &AggregationService{notes: notes, tasks: tasks, now: time.Now}
}

// MonthlyActivity counts the notes and tasks created in each month of the
// current UTC year. Both series always have twelve entries.
func (s *AggregationService) MonthlyActivity(ctx context.Context, author string) (model.MonthlyActivity, error) {
	year := s.now().UTC().Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var notes, tasks []model.MonthCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = s.notes.MonthlyCreated(gctx, author, from, to)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.MonthlyCreated(gctx, author, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.MonthlyActivity{}, fmt.Errorf("monthly activity: %w", err)
	}

	return model.MonthlyActivity{
		Year:  year,
		Notes: fillMonths(notes),
		Tasks: fillMonths(tasks),
	}, nil
}

func (s *AggregationService) Averages(ctx context.Context, author string) (model.Averages, error) {
	var (
		notes model.NoteTotals
		tasks model.TaskTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = s.notes.Totals(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.Totals(gctx, author, s.now().UTC())
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Averages{}, fmt.Errorf("averages: %w", err)
	}

	return averagesOf(notes, tasks), nil
}

func averagesOf(notes model.NoteTotals, tasks model.TaskTotals) model.Averages {
	return model.Averages{
		AvgReadCount:     notes.AvgReadCount,
		AvgEstimatedTime: tasks.AvgEstimatedTime,
		AvgActualTime:    tasks.AvgActualTime,
	}
}

// fillMonths expands sparse month counts into January through December.
func fillMonths(counts []model.MonthCount) []model.MonthCount {
	out := make([]model.MonthCount, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, c := range counts {
		if c.Month >= 1 && c.Month <= 12 {
			out[c.Month-1].Count = c.Count
		}
	}
	return out
}
