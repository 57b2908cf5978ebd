package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/BereketMelese/Bloom/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	Service *services.CommentService
}

// NewCommentHandler creates a new instance of CommentHandler.
func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{Service: service}
}

// CreateCommentHandler handles POST /api/comments/post/{id}.
func (h *CommentHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	authorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var payload struct {
		Content       string `json:"content"`
		ParentComment string `json:"parentComment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	var parentID primitive.ObjectID
	if payload.ParentComment != "" {
		parentID, err = primitive.ObjectIDFromHex(payload.ParentComment)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid parent comment ID")
			return
		}
	}

	comment, err := h.Service.CreateComment(r.Context(), postID, authorID, payload.Content, parentID)
	if err != nil {
		if err.Error() == "post not found" {
			respondError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.WithError(err).Warn("Failed to create comment")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

// GetCommentsHandler handles GET /api/comments/post/{id}.
func (h *CommentHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	_, limit := parsePagination(r, 50)

	comments, err := h.Service.GetComments(r.Context(), postID, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch comments")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"comments": comments,
	})
}

// loadOwnedComment fetches the comment and enforces the owner-or-admin
// policy. Writes the error response and returns nil when access is denied.
func (h *CommentHandler) loadOwnedComment(w http.ResponseWriter, r *http.Request) *models.Comment {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return nil
	}

	commentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["commentId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid comment ID")
		return nil
	}

	comment, err := h.Service.GetComment(r.Context(), commentID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return nil
	}

	if comment.Author.Hex() != claims.UserID && claims.Role != "admin" {
		log.WithFields(log.Fields{
			"userID":    claims.UserID,
			"commentID": commentID.Hex(),
		}).Warn("Forbidden comment mutation attempt")
		respondError(w, http.StatusForbidden, "Not authorized")
		return nil
	}

	return comment
}

// UpdateCommentHandler handles PUT /api/comments/{commentId}.
func (h *CommentHandler) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	comment := h.loadOwnedComment(w, r)
	if comment == nil {
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateComment(r.Context(), comment.ID, payload.Content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"comment": updated,
	})
}

// DeleteCommentHandler handles DELETE /api/comments/{commentId}.
func (h *CommentHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	comment := h.loadOwnedComment(w, r)
	if comment == nil {
		return
	}

	if err := h.Service.DeleteComment(r.Context(), comment.ID); err != nil {
		log.WithError(err).Error("Failed to delete comment")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment deleted",
	})
}
