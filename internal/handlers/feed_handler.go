package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zerooneblog/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedSvc *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedSvc}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/timeline", h.GetTimeline)
}

// GetFeed returns the current user's feed: their own posts unioned with
// posts from everyone they follow, newest first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	offset, limit := pageParams(c)
	entries, err := h.feedService.Feed(c.Request().Context(), currentUserID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": entries}})
}

// GetTimeline returns the global chronological view of all posts.
func (h *FeedHandler) GetTimeline(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	offset, limit := pageParams(c)
	entries, err := h.feedService.Timeline(c.Request().Context(), currentUserID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": entries}})
}

func pageParams(c echo.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return offset, limit
}
