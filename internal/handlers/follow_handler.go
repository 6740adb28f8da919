package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"github.com/aheel03/Artspire/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         services.Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier services.Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
}

// FollowUser follows a user. The followed user is notified after the follow
// row commits; a notification failure never fails the follow itself.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	// Self-follow is rejected here, before any write happens. The
	// notification layer is not the enforcement point for this rule.
	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: uint(targetID),
	}

	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Best-effort notification after the follow commit
	event := services.FollowEvent{FollowerID: currentUserID, FollowedID: uint(targetID)}
	if _, err := h.notifier.Notify(c.Request().Context(), event); err != nil {
		log.Printf("failed to create follow notification: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
		if err.Error() == "follow relationship not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}
