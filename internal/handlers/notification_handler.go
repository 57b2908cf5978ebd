package handlers

import (
	"net/http"

	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/BereketMelese/Bloom/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests related to notifications.
type NotificationHandler struct {
	Service *services.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// requireUserID resolves the authenticated user's ObjectID or writes 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return primitive.NilObjectID, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// GetNotificationsHandler handles GET /api/notification.
func (h *NotificationHandler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	_, limit := parsePagination(r, 20)

	notifications, err := h.Service.GetNotifications(r.Context(), userID, limit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch notifications")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
	})
}

// GetUnreadCountHandler handles GET /api/notification/unread-count.
func (h *NotificationHandler) GetUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

// MarkAsReadHandler handles POST /api/notification/read and
// POST /api/notification/read/{id}. Without an id, every notification of
// the user is flagged.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if id, present := mux.Vars(r)["id"]; present {
		notifID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid notification ID")
			return
		}

		if err := h.Service.MarkAsRead(r.Context(), notifID); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Notification marked as read",
		})
		return
	}

	if err := h.Service.MarkAllAsRead(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All notifications marked as read",
	})
}
