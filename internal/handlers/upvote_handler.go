package handlers

import (
	"log"
	"net/http"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"github.com/aheel03/Artspire/internal/services"
	"github.com/labstack/echo/v4"
)

// UpvoteHandler handles HTTP requests related to post upvotes
type UpvoteHandler struct {
	upvoteRepository repositories.UpvoteRepository
	postRepository   repositories.PostRepository
	notifier         services.Notifier
}

// NewUpvoteHandler creates a new UpvoteHandler
func NewUpvoteHandler(upvoteRepo repositories.UpvoteRepository, postRepo repositories.PostRepository, notifier services.Notifier) *UpvoteHandler {
	return &UpvoteHandler{
		upvoteRepository: upvoteRepo,
		postRepository:   postRepo,
		notifier:         notifier,
	}
}

// RegisterUpvoteRoutes registers upvote-related routes
func (h *UpvoteHandler) RegisterUpvoteRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/upvotes", h.UpvotePost)
	g.DELETE("/posts/:post_id/upvotes", h.RemoveUpvote)
	g.GET("/posts/:post_id/upvotes/count", h.GetUpvotesCountForPost)
}

// UpvotePost handles upvoting a post. The post's author is notified after the
// upvote commits unless they upvoted their own post.
func (h *UpvoteHandler) UpvotePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasUpvoted, err := h.upvoteRepository.HasUserUpvotedPost(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasUpvoted {
		return echo.NewHTTPError(http.StatusConflict, "Post already upvoted by this user")
	}

	upvote := &models.Upvote{
		PostID: postID,
		UserID: currentUserID,
	}

	if err := h.upvoteRepository.CreateUpvote(upvote); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementUpvotesCount(c.Request().Context(), postID); err != nil {
		log.Printf("failed to increment upvotes count for post %s: %v", postID, err)
	}

	// Best-effort notification after the upvote commit
	event := services.PostReactionEvent{ReactorID: currentUserID, PostID: postID}
	if _, err := h.notifier.Notify(c.Request().Context(), event); err != nil {
		log.Printf("failed to create post reaction notification: %v", err)
	}

	return c.JSON(http.StatusCreated, upvote)
}

// RemoveUpvote handles removing an upvote from a post
func (h *UpvoteHandler) RemoveUpvote(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if err := h.upvoteRepository.DeleteUpvote(postID, currentUserID); err != nil {
		if err.Error() == "upvote not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Upvote not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementUpvotesCount(c.Request().Context(), postID); err != nil {
		log.Printf("failed to decrement upvotes count for post %s: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUpvotesCountForPost retrieves the total number of upvotes for a post
func (h *UpvoteHandler) GetUpvotesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	count, err := h.upvoteRepository.GetUpvotesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "upvotes_count": count})
}
