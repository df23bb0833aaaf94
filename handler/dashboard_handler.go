package handler

import (
	"context"
	"time"

	"secondbrain/dto"
	"secondbrain/model"
	"secondbrain/repository"
	"secondbrain/usecase"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

type DashboardService interface {
	Overview(ctx context.Context, author string) (*model.Overview, error)
	Activity(ctx context.Context, author string, page repository.Page) (*model.ActivityPage, error)
	Search(ctx context.Context, author, query, kind string, page repository.Page) (*model.SearchResult, error)
	Stats(ctx context.Context, author string) (*model.Stats, error)
}

type DashboardHandler struct {
	dashboard DashboardService
	now       func() time.Time
}

func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, now: time.Now}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	overview, err := h.dashboard.Overview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "", "Failed to fetch dashboard overview")
		return
	}

	utils.Success(c, dto.NewOverviewResponse(overview, h.now()))
}

func (h *DashboardHandler) Activity(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	page, err := h.dashboard.Activity(c.Request.Context(), userID, pageQuery(c, usecase.DefaultActivityLimit))
	if err != nil {
		respondError(c, err, "", "Failed to fetch activity feed")
		return
	}

	utils.Success(c, dto.NewActivityResponse(page, h.now()))
}

func (h *DashboardHandler) Search(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	result, err := h.dashboard.Search(c.Request.Context(), userID,
		c.Query("q"), c.Query("type"), pageQuery(c, repository.DefaultPageSize))
	if err != nil {
		respondError(c, err, "", "Search failed")
		return
	}

	utils.Success(c, dto.NewSearchResponse(result, h.now()))
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, ok := author(c)
	if !ok {
		return
	}

	stats, err := h.dashboard.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "", "Failed to fetch statistics")
		return
	}

	utils.Success(c, stats)
}
