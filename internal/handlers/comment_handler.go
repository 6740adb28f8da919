package handlers

import (
	"log"
	"net/http"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"github.com/aheel03/Artspire/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	notifier          services.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, notifier services.Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		notifier:          notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
}

// CreateComment creates a new comment on a post. The post's author is
// notified after the comment commits; the comment is returned successfully
// even when notification creation fails.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: currentUserID,
		Content:  req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID); err != nil {
		log.Printf("failed to increment comments count for post %s: %v", postID, err)
	}

	// Best-effort notification after the comment commit
	event := services.CommentEvent{
		CommenterID: currentUserID,
		PostID:      postID,
		CommentID:   comment.ID,
	}
	if _, err := h.notifier.Notify(c.Request().Context(), event); err != nil {
		log.Printf("failed to create comment notification: %v", err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comments)
}
