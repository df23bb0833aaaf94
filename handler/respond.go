package handler

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"secondbrain/logger"
	"secondbrain/middleware"
	"secondbrain/model"
	"secondbrain/repository"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Anything that
// is not a client error is logged and reported with the generic fallback.
func respondError(c *gin.Context, err error, notFound, fallback string) {
	var (
		verr *model.ValidationError
		bad  *model.BadRequestError
	)

	switch {
	case errors.As(err, &verr):
		utils.TrackError("validation", c.FullPath())
		utils.BadRequest(c, verr.Error())
	case errors.As(err, &bad):
		utils.BadRequest(c, bad.Message)
	case errors.Is(err, model.ErrNotFound):
		utils.NotFound(c, notFound)
	default:
		attrs := []slog.Attr{logger.Err(err)}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, logger.RecordID(id))
		}
		logger.Error(c.Request.Context(), fallback, attrs...)
		utils.TrackError("handler", c.FullPath())
		utils.InternalError(c, fallback)
	}
}

// author returns the caller's user id, or writes a 401 when the request
// carries no identity.
func author(c *gin.Context) (string, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return "", false
	}
	return id.UserID, true
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// pageQuery reads the page and limit query parameters.
func pageQuery(c *gin.Context, defaultLimit int) repository.Page {
	return repository.NewPage(intQuery(c, "page", 1), intQuery(c, "limit", defaultLimit), defaultLimit)
}

// sortQuery reads sortBy and sortOrder; the order is descending unless asc
// is asked for.
func sortQuery(c *gin.Context) (string, bool) {
	return c.Query("sortBy"), c.DefaultQuery("sortOrder", "desc") != "asc"
}

// tagsQuery splits a comma separated tag list.
func tagsQuery(c *gin.Context) []string {
	raw := c.Query("tags")
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
