package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"secondbrain/model"
	"secondbrain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store down")

// fakeNotes keeps notes in memory. Only the behaviour the services depend on
// is modelled: ownership, ordering by time, and substring search.
type fakeNotes struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]*model.Note
	fail  error
	// lastQuery is the query passed to the latest FindNotes call.
	lastQuery repository.NoteQuery
}

func newFakeNotes(notes ...*model.Note) *fakeNotes {
	f := &fakeNotes{notes: map[primitive.ObjectID]*model.Note{}}
	for _, n := range notes {
		if n.ID.IsZero() {
			n.ID = primitive.NewObjectID()
		}
		f.notes[n.ID] = n
	}
	return f
}

func (f *fakeNotes) owned(author, id string) (*model.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}
	n, ok := f.notes[oid]
	if !ok || n.Author != author {
		return nil, model.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotes) byAuthor(author string) []*model.Note {
	var out []*model.Note
	for _, n := range f.notes {
		if n.Author == author {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeNotes) FindNotes(_ context.Context, author string, q repository.NoteQuery) ([]*model.Note, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, 0, f.fail
	}
	f.lastQuery = q
	all := f.byAuthor(author)
	return all, int64(len(all)), nil
}

func (f *fakeNotes) GetNote(_ context.Context, author, id string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) MarkRead(_ context.Context, author, id string, at time.Time) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	n.ReadCount++
	n.LastRead = at
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) CreateNote(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	note.ID = primitive.NewObjectID()
	cp := *note
	f.notes[note.ID] = &cp
	return nil
}

func (f *fakeNotes) UpdateNote(_ context.Context, note *model.Note) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(note.Author, note.ID.Hex()); err != nil {
		return nil, err
	}
	cp := *note
	f.notes[note.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeNotes) DeleteNote(_ context.Context, author, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(author, id)
	if err != nil {
		return err
	}
	delete(f.notes, n.ID)
	return nil
}

func (f *fakeNotes) TogglePin(_ context.Context, author, id string, at time.Time) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	n.IsPinned = !n.IsPinned
	n.UpdatedAt = at
	cp := *n
	return &cp, nil
}

func (f *fakeNotes) Totals(_ context.Context, author string) (model.NoteTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return model.NoteTotals{}, f.fail
	}
	var t model.NoteTotals
	var reads int64
	for _, n := range f.byAuthor(author) {
		t.TotalNotes++
		if n.IsPinned {
			t.PinnedNotes++
		}
		if n.IsPublic {
			t.PublicNotes++
		}
		reads += n.ReadCount
	}
	if t.TotalNotes > 0 {
		t.AvgReadCount = float64(reads) / float64(t.TotalNotes)
	}
	return t, nil
}

func groupBy[T any](items []T, key func(T) []string) []model.GroupCount {
	counts := map[string]int64{}
	for _, it := range items {
		for _, k := range key(it) {
			counts[k]++
		}
	}
	out := make([]model.GroupCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, model.GroupCount{ID: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeNotes) CategoryCounts(_ context.Context, author string) ([]model.GroupCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return groupBy(f.byAuthor(author), func(n *model.Note) []string { return []string{string(n.Category)} }), nil
}

func (f *fakeNotes) TopTags(_ context.Context, author string, limit int) ([]model.GroupCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := groupBy(f.byAuthor(author), func(n *model.Note) []string { return n.Tags })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotes) sorted(author string, filter func(*model.Note) bool, less func(a, b *model.Note) bool, limit int) []*model.Note {
	var out []*model.Note
	for _, n := range f.byAuthor(author) {
		if filter == nil || filter(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeNotes) RecentNotes(_ context.Context, author string, limit int) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author, nil, func(a, b *model.Note) bool { return a.CreatedAt.After(b.CreatedAt) }, limit), nil
}

func (f *fakeNotes) PinnedNotes(_ context.Context, author string, limit int) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author,
		func(n *model.Note) bool { return n.IsPinned },
		func(a, b *model.Note) bool { return a.UpdatedAt.After(b.UpdatedAt) }, limit), nil
}

func (f *fakeNotes) RecentlyUpdatedNotes(_ context.Context, author string, limit int) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return f.sorted(author, nil, func(a, b *model.Note) bool { return a.UpdatedAt.After(b.UpdatedAt) }, limit), nil
}

// SearchNotes matches text against the title. The score is preset on the
// fixtures.
func (f *fakeNotes) SearchNotes(_ context.Context, author, text string, limit int) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author,
		func(n *model.Note) bool { return strings.Contains(n.Title, text) },
		func(a, b *model.Note) bool { return a.Score > b.Score }, limit), nil
}

func (f *fakeNotes) MonthlyCreated(_ context.Context, author string, from, to time.Time) ([]model.MonthCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return monthCounts(f.byAuthor(author), func(n *model.Note) time.Time { return n.CreatedAt }, from, to), nil
}

func monthCounts[T any](items []T, created func(T) time.Time, from, to time.Time) []model.MonthCount {
	counts := map[int]int64{}
	for _, it := range items {
		at := created(it)
		if !at.Before(from) && at.Before(to) {
			counts[int(at.Month())]++
		}
	}
	var out []model.MonthCount
	for m := 1; m <= 12; m++ {
		if c, ok := counts[m]; ok {
			out = append(out, model.MonthCount{Month: m, Count: c})
		}
	}
	return out
}

type fakeTasks struct {
	mu        sync.Mutex
	tasks     map[primitive.ObjectID]*model.Task
	fail      error
	lastQuery repository.TaskQuery
}

func newFakeTasks(tasks ...*model.Task) *fakeTasks {
	f := &fakeTasks{tasks: map[primitive.ObjectID]*model.Task{}}
	for _, t := range tasks {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) owned(author, id string) (*model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotFound
	}
	t, ok := f.tasks[oid]
	if !ok || t.Author != author {
		return nil, model.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) byAuthor(author string) []*model.Task {
	var out []*model.Task
	for _, t := range f.tasks {
		if t.Author == author {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeTasks) FindTasks(_ context.Context, author string, q repository.TaskQuery) ([]*model.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, 0, f.fail
	}
	f.lastQuery = q
	all := f.byAuthor(author)
	return all, int64(len(all)), nil
}

func (f *fakeTasks) GetTask(_ context.Context, author, id string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) CreateTask(_ context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	task.ID = primitive.NewObjectID()
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, task *model.Task) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(task.Author, task.ID.Hex()); err != nil {
		return nil, err
	}
	cp := *task
	f.tasks[task.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTasks) UpdateStatus(_ context.Context, author, id string, status model.TaskStatus, at time.Time) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	t.UpdatedAt = at
	if status != model.StatusCompleted {
		t.CompletedAt = nil
	} else if t.CompletedAt == nil {
		stamp := at
		t.CompletedAt = &stamp
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) AppendNote(_ context.Context, author, id string, entry model.TaskNote) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.owned(author, id)
	if err != nil {
		return nil, err
	}
	t.Notes = append(t.Notes, entry)
	t.UpdatedAt = entry.CreatedAt
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, author, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.owned(author, id)
	if err != nil {
		return err
	}
	delete(f.tasks, t.ID)
	return nil
}

func (f *fakeTasks) Totals(_ context.Context, author string, now time.Time) (model.TaskTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return model.TaskTotals{}, f.fail
	}
	var (
		t          model.TaskTotals
		est, act   float64
		nEst, nAct int
	)
	for _, task := range f.byAuthor(author) {
		t.TotalTasks++
		if task.Status == model.StatusCompleted {
			t.CompletedTasks++
		}
		if task.IsOverdue(now) {
			t.OverdueTasks++
		}
		if task.EstimatedTime != nil {
			est += *task.EstimatedTime
			nEst++
		}
		if task.ActualTime != nil {
			act += *task.ActualTime
			nAct++
		}
	}
	if nEst > 0 {
		t.AvgEstimatedTime = est / float64(nEst)
	}
	if nAct > 0 {
		t.AvgActualTime = act / float64(nAct)
	}
	return t, nil
}

func (f *fakeTasks) GroupCounts(_ context.Context, author, field string) ([]model.GroupCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return groupBy(f.byAuthor(author), func(t *model.Task) []string {
		switch field {
		case "status":
			return []string{string(t.Status)}
		case "priority":
			return []string{string(t.Priority)}
		default:
			return []string{string(t.Category)}
		}
	}), nil
}

func (f *fakeTasks) sorted(author string, filter func(*model.Task) bool, less func(a, b *model.Task) bool, limit int) []*model.Task {
	var out []*model.Task
	for _, t := range f.byAuthor(author) {
		if filter == nil || filter(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeTasks) RecentTasks(_ context.Context, author string, limit int) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author, nil, func(a, b *model.Task) bool { return a.CreatedAt.After(b.CreatedAt) }, limit), nil
}

func (f *fakeTasks) UpcomingTasks(_ context.Context, author string, now time.Time, limit int) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author,
		func(t *model.Task) bool {
			return t.DueDate != nil && !t.DueDate.Before(now) && t.Status != model.StatusCompleted
		},
		func(a, b *model.Task) bool { return a.DueDate.Before(*b.DueDate) }, limit), nil
}

func (f *fakeTasks) RecentlyUpdatedTasks(_ context.Context, author string, limit int) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return f.sorted(author, nil, func(a, b *model.Task) bool { return a.UpdatedAt.After(b.UpdatedAt) }, limit), nil
}

func (f *fakeTasks) SearchTasks(_ context.Context, author, text string, limit int) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(author,
		func(t *model.Task) bool { return strings.Contains(t.Title, text) },
		func(a, b *model.Task) bool { return a.Score > b.Score }, limit), nil
}

func (f *fakeTasks) MonthlyCreated(_ context.Context, author string, from, to time.Time) ([]model.MonthCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return monthCounts(f.byAuthor(author), func(t *model.Task) time.Time { return t.CreatedAt }, from, to), nil
}

var (
	_ NoteStore = (*fakeNotes)(nil)
	_ TaskStore = (*fakeTasks)(nil)
)
