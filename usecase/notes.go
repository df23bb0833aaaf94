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

	"golang.org/x/sync/errgroup"
)

const topTagsLimit = 10

type NotesService struct {
	store NoteStore
	now   func() time.Time
}

func NewNotesService(store NoteStore) *NotesService {
	return &NotesService{store: store, now: time.Now}
}

type NotesPage struct {
	Notes      []*model.Note
	Total      int64
	TotalPages int
	Page       int
}

func (s *NotesService) List(ctx context.Context, author string, q repository.NoteQuery) (*NotesPage, error) {
	notes, total, err := s.store.FindNotes(ctx, author, q)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return &NotesPage{
		Notes:      notes,
		Total:      total,
		TotalPages: q.Page.TotalPages(total),
		Page:       q.Page.Number,
	}, nil
}

// Get returns the note and records the read.
func (s *NotesService) Get(ctx context.Context, author, id string) (*model.Note, error) {
	note, err := s.store.MarkRead(ctx, author, id, clock(s.now))
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	utils.TrackRecordOperation(model.KindNote, "read")
	return note, nil
}

func (s *NotesService) Create(ctx context.Context, author string, req dto.NoteRequest) (*model.Note, error) {
	now := clock(s.now)
	note := &model.Note{
		Author:    author,
		LastRead:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyNoteRequest(note, req)
	note.ApplyDefaults()

	if err := validate(note, noteMessages); err != nil {
		return nil, err
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	utils.TrackRecordOperation(model.KindNote, "create")
	return note, nil
}

// Update merges req into the stored note and validates the result as a
// whole before writing it.
func (s *NotesService) Update(ctx context.Context, author, id string, req dto.NoteRequest) (*model.Note, error) {
	note, err := s.store.GetNote(ctx, author, id)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}

	applyNoteRequest(note, req)
	note.UpdatedAt = clock(s.now)

	if err := validate(note, noteMessages); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateNote(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	utils.TrackRecordOperation(model.KindNote, "update")
	return updated, nil
}

func (s *NotesService) Delete(ctx context.Context, author, id string) error {
	if err := s.store.DeleteNote(ctx, author, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	utils.TrackRecordOperation(model.KindNote, "delete")
	return nil
}

func (s *NotesService) TogglePin(ctx context.Context, author, id string) (*model.Note, error) {
	note, err := s.store.TogglePin(ctx, author, id, clock(s.now))
	if err != nil {
		return nil, fmt.Errorf("toggle pin: %w", err)
	}
	utils.TrackRecordOperation(model.KindNote, "toggle_pin")
	return note, nil
}

func (s *NotesService) Summary(ctx context.Context, author string) (*model.NoteSummary, error) {
	var (
		totals     model.NoteTotals
		categories []model.GroupCount
		tags       []model.GroupCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.store.Totals(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.store.CategoryCounts(gctx, author)
		return err
	})
	g.Go(func() (err error) {
		tags, err = s.store.TopTags(gctx, author, topTagsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("note summary: %w", err)
	}

	return &model.NoteSummary{
		TotalNotes:    totals.TotalNotes,
		PinnedNotes:   totals.PinnedNotes,
		PublicNotes:   totals.PublicNotes,
		CategoryStats: categories,
		TagStats:      tags,
	}, nil
}

func applyNoteRequest(note *model.Note, req dto.NoteRequest) {
	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = normalizeTags(*req.Tags)
	}
	if req.Category != nil {
		note.Category = model.NoteCategory(*req.Category)
	}
	if req.IsPublic != nil {
		note.IsPublic = *req.IsPublic
	}
	if req.IsPinned != nil {
		note.IsPinned = *req.IsPinned
	}
	if req.Color != nil {
		note.Color = *req.Color
	}
	if req.Attachments != nil {
		note.Attachments = *req.Attachments
	}
}
