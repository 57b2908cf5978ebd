package handlers

import (
	"errors"
	"net/http"

	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/BereketMelese/Bloom/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user profiles and follows.
type UserHandler struct {
	Service       *services.UserService
	FollowService *services.FollowService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		Service:       userService,
		FollowService: followService,
	}
}

// WithUserCheck rejects requests whose {id} is malformed or refers to no
// user before the wrapped handler runs.
func (h *UserHandler) WithUserCheck(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid User Id format")
			return
		}

		exists, err := h.Service.UserExists(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !exists {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}

		next(w, r)
	}
}

// GetUsersHandler handles GET /api/user.
func (h *UserHandler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 20)
	search := r.URL.Query().Get("search")

	users, total, err := h.Service.GetUsers(r.Context(), search, page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch users")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
	})
}

// GetUserHandler handles GET /api/user/{id}.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	viewerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, recentPosts, err := h.Service.GetUserProfile(r.Context(), viewerID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"user":        profile,
		"recentPosts": recentPosts,
	})
}

// GetFollowersHandler handles GET /api/user/{id}/followers.
func (h *UserHandler) GetFollowersHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	page, limit := parsePagination(r, 20)

	followers, total, err := h.FollowService.GetFollowers(r.Context(), userID, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"results":   len(followers),
		"total":     total,
		"page":      page,
		"pages":     totalPages(total, limit),
		"followers": followers,
	})
}

// GetFollowingHandler handles GET /api/user/{id}/following.
func (h *UserHandler) GetFollowingHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	page, limit := parsePagination(r, 20)

	following, total, err := h.FollowService.GetFollowing(r.Context(), userID, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"results":   len(following),
		"total":     total,
		"page":      page,
		"pages":     totalPages(total, limit),
		"following": following,
	})
}

// ToggleFollowHandler handles POST /api/user/{id}/follow.
func (h *UserHandler) ToggleFollowHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	followerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	following, err := h.FollowService.Toggle(r.Context(), followerID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrSelfFollow) {
			respondError(w, http.StatusBadRequest, "Cannot follow yourself")
			return
		}
		log.WithError(err).Error("Failed to toggle follow")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	message := "Unfollowed successfully"
	if following {
		status = http.StatusCreated
		message = "Followed successfully"
	}

	respondJSON(w, status, map[string]interface{}{
		"success":     true,
		"message":     message,
		"isFollowing": following,
	})
}
