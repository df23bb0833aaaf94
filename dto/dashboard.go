package dto

import (
	"time"

	"secondbrain/model"
)

type OverviewResponse struct {
	Overview      model.OverviewTotals `json:"overview"`
	RecentNotes   []NoteResponse       `json:"recentNotes"`
	RecentTasks   []TaskResponse       `json:"recentTasks"`
	UpcomingTasks []TaskResponse       `json:"upcomingTasks"`
	PinnedNotes   []NoteResponse       `json:"pinnedNotes"`
}

func NewOverviewResponse(o *model.Overview, now time.Time) OverviewResponse {
	return OverviewResponse{
		Overview:      o.Totals,
		RecentNotes:   ToNoteResponses(o.RecentNotes),
		RecentTasks:   ToTaskResponses(o.RecentTasks, now),
		UpcomingTasks: ToTaskResponses(o.UpcomingTasks, now),
		PinnedNotes:   ToNoteResponses(o.PinnedNotes),
	}
}

// FeedItem carries either a note or a task, tagged by type.
type FeedItem struct {
	Type      string        `json:"type"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Score     float64       `json:"score,omitempty"`
	Note      *NoteResponse `json:"note,omitempty"`
	Task      *TaskResponse `json:"task,omitempty"`
}

type ActivityResponse struct {
	Activity    []FeedItem `json:"activity"`
	CurrentPage int        `json:"currentPage"`
	TotalItems  int        `json:"totalItems"`
}

func newFeedItem(kind string, note *model.Note, task *model.Task, now time.Time) FeedItem {
	item := FeedItem{Type: kind}
	if note != nil {
		resp := ToNoteResponse(note, nil)
		item.Note = &resp
		item.UpdatedAt = note.UpdatedAt
	}
	if task != nil {
		resp := ToTaskResponse(task, now, nil)
		item.Task = &resp
		item.UpdatedAt = task.UpdatedAt
	}
	return item
}

func NewActivityResponse(page *model.ActivityPage, now time.Time) ActivityResponse {
	items := make([]FeedItem, len(page.Items))
	for i, it := range page.Items {
		items[i] = newFeedItem(it.Kind, it.Note, it.Task, now)
	}
	return ActivityResponse{
		Activity:    items,
		CurrentPage: page.Page,
		TotalItems:  len(items),
	}
}

type SearchResponse struct {
	Results      []FeedItem `json:"results"`
	Query        string     `json:"query"`
	TotalResults int        `json:"totalResults"`
	CurrentPage  int        `json:"currentPage"`
}

func NewSearchResponse(res *model.SearchResult, now time.Time) SearchResponse {
	items := make([]FeedItem, len(res.Hits))
	for i, hit := range res.Hits {
		items[i] = newFeedItem(hit.Kind, hit.Note, hit.Task, now)
		items[i].Score = hit.Score
	}
	return SearchResponse{
		Results:      items,
		Query:        res.Query,
		TotalResults: res.Total,
		CurrentPage:  res.Page,
	}
}
