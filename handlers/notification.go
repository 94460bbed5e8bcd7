package handlers

import (
	"net/http"

	"solace/middleware"
	"solace/utils"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *HandlerBundle) ListNotifications(c *gin.Context) {
	callerID, okID := middleware.CallerID(c)
	role, okRole := middleware.CallerRole(c)
	if !okID || !okRole {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	page, limit := pagination(c)
	items, err := h.Notifications.ListForRecipient(c.Request.Context(), callerID, role, page, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load notifications", nil)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Notifications fetched", gin.H{
		"notifications": items,
		"page":          page,
		"limit":         limit,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *HandlerBundle) MarkNotificationRead(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), callerID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Notification not found", nil)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Notification marked read", nil)
}
