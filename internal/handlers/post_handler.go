package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/BereketMelese/Bloom/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	Service            *services.PostService
	InteractionService *services.InteractionService
}

// NewPostHandler creates a new instance of PostHandler.
func NewPostHandler(postService *services.PostService, interactionService *services.InteractionService) *PostHandler {
	return &PostHandler{
		Service:            postService,
		InteractionService: interactionService,
	}
}

// CreatePostHandler handles POST /api/post.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var input services.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	post, err := h.Service.CreatePost(r.Context(), userID, input)
	if err != nil {
		log.WithError(err).Warn("Failed to create post")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"userID": claims.UserID,
		"postID": post.ID.Hex(),
	}).Info("Post created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

// GetPostsHandler handles GET /api/post.
func (h *PostHandler) GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 10)
	category := r.URL.Query().Get("category")

	posts, total, err := h.Service.GetPosts(r.Context(), category, page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch posts")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   posts,
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
	})
}

// AdminGetAllPostsHandler handles GET /api/admin/posts. Unlike the public
// listing it includes archived posts.
func (h *PostHandler) AdminGetAllPostsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 10)

	posts, total, err := h.Service.GetAllPosts(r.Context(), page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch posts")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   posts,
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
	})
}

// GetPostHandler handles GET /api/post/{id}.
func (h *PostHandler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

// loadOwnedPost fetches the post and enforces the owner-or-admin policy.
// Writes the error response and returns nil when access is denied.
func (h *PostHandler) loadOwnedPost(w http.ResponseWriter, r *http.Request) *models.Post {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return nil
	}

	post, err := h.Service.GetPostRaw(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return nil
	}

	if post.Author.Hex() != claims.UserID && claims.Role != "admin" {
		log.WithFields(log.Fields{
			"userID": claims.UserID,
			"postID": post.ID.Hex(),
		}).Warn("Forbidden post mutation attempt")
		respondError(w, http.StatusForbidden, "Not authorized")
		return nil
	}

	return post
}

// UpdatePostHandler handles PUT /api/post/{id}.
func (h *PostHandler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}
	if post.IsArchived {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	var input services.UpdatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdatePost(r.Context(), post, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"post":    updated,
	})
}

// DeletePostHandler handles DELETE /api/post/{id}. Posts are archived, not
// removed.
func (h *PostHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}
	if post.IsArchived {
		respondError(w, http.StatusBadRequest, "Post is already deleted")
		return
	}

	if err := h.Service.ArchivePost(r.Context(), post); err != nil {
		log.WithError(err).Error("Failed to archive post")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Post deleted",
	})
}

// GetUserPostsHandler handles GET /api/post/user/{userId}.
func (h *PostHandler) GetUserPostsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 10)

	posts, total, err := h.Service.GetUserPosts(r.Context(), mux.Vars(r)["userId"], page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   posts,
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
	})
}

// GetFeedHandler handles GET /api/post/feed.
func (h *PostHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	page, limit := parsePagination(r, 10)

	posts, total, err := h.Service.GetFeed(r.Context(), userID, page, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch feed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   posts,
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
	})
}

// toggleInteraction is shared by the like and bookmark endpoints.
func (h *PostHandler) toggleInteraction(w http.ResponseWriter, r *http.Request, interactionType string) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	active, err := h.InteractionService.Toggle(r.Context(), userID, postID, interactionType)
	if err != nil {
		if err.Error() == "post not found" {
			respondError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.WithError(err).Error("Failed to toggle interaction")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	past := pastTense(interactionType)

	status := http.StatusOK
	message := interactionType + " removed"
	if active {
		status = http.StatusCreated
		message = "Post " + past
	}

	respondJSON(w, status, map[string]interface{}{
		"success": true,
		past:      active,
		"message": message,
	})
}

// pastTense maps an interaction type to the field name used in toggle
// responses (like -> liked, bookmark -> bookmarked).
func pastTense(interactionType string) string {
	if strings.HasSuffix(interactionType, "e") {
		return interactionType + "d"
	}
	return interactionType + "ed"
}

// ToggleLikeHandler handles POST /api/post/{id}/like.
func (h *PostHandler) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleInteraction(w, r, models.InteractionLike)
}

// ToggleBookmarkHandler handles POST /api/post/{id}/bookmark.
func (h *PostHandler) ToggleBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleInteraction(w, r, models.InteractionBookmark)
}

// GetLikesHandler handles POST /api/post/{id}/likes.
func (h *PostHandler) GetLikesHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	page, limit := parsePagination(r, 20)

	likes, total, err := h.InteractionService.GetLikes(r.Context(), postID, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(likes),
		"total":   total,
		"page":    page,
		"pages":   totalPages(total, limit),
		"likes":   likes,
	})
}
