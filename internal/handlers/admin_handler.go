package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"github.com/zerooneblog/backend/internal/services"
	"gorm.io/gorm"
)

// AdminHandler handles moderation and account administration endpoints.
// All routes here are mounted behind the admin-role middleware.
type AdminHandler struct {
	userRepository      repositories.UserRepository
	postRepository      repositories.PostRepository
	likeRepository      repositories.LikeRepository
	commentRepository   repositories.CommentRepository
	notificationService *services.NotificationService
	reportService       *services.ReportService
	purgeService        *services.PurgeService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	notifSvc *services.NotificationService,
	reportSvc *services.ReportService,
	purgeSvc *services.PurgeService,
) *AdminHandler {
	return &AdminHandler{
		userRepository:      userRepo,
		postRepository:      postRepo,
		likeRepository:      likeRepo,
		commentRepository:   commentRepo,
		notificationService: notifSvc,
		reportService:       reportSvc,
		purgeService:        purgeSvc,
	}
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.POST("/users/:id/ban", h.BanUser)
	g.POST("/users/:id/unban", h.UnbanUser)
	g.DELETE("/users/:id", h.PurgeUser)
	g.GET("/posts", h.GetPosts)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/reports", h.GetNewReports)
	g.POST("/reports/:id/resolve", h.ResolveReport)
}

// GetUsers lists all users, newest first
func (h *AdminHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

// BanUser blocks an account. A blocked user can no longer log in.
func (h *AdminHandler) BanUser(c echo.Context) error {
	return h.setUserStatus(c, models.UserStatusBlocked)
}

// UnbanUser re-activates a blocked account
func (h *AdminHandler) UnbanUser(c echo.Context) error {
	return h.setUserStatus(c, models.UserStatusActive)
}

func (h *AdminHandler) setUserStatus(c echo.Context, status string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userRepository.UpdateStatus(c.Request().Context(), uint(id), status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": id, "status": status}})
}

// PurgeUser deletes an account and its entire footprint: posts with their
// likes and comments, follow edges on both sides, notifications the user
// received or caused, and reports they filed. All-or-nothing.
func (h *AdminHandler) PurgeUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.purgeService.PurgeUser(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPosts lists all posts, newest first
func (h *AdminHandler) GetPosts(c echo.Context) error {
	offset, limit := pageParams(c)
	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// DeletePost removes any post and its dependents, regardless of author
func (h *AdminHandler) DeletePost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := []uint{post.ID}
	if err := h.likeRepository.DeleteByPostIDs(ctx, postIDs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteByPostIDs(ctx, postIDs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.notificationService.DeleteByPost(ctx, post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.postRepository.DeletePost(ctx, post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetNewReports lists reports awaiting review
func (h *AdminHandler) GetNewReports(c echo.Context) error {
	reports, err := h.reportService.NewReports(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reports": reports}})
}

// ResolveReport marks a report as reviewed
func (h *AdminHandler) ResolveReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report ID")
	}

	if err := h.reportService.ResolveReport(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
