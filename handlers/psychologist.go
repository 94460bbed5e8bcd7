package handlers

import (
	"errors"
	"net/http"

	"solace/middleware"
	"solace/models"
	"solace/services/psychologist"
	"solace/utils"

	"github.com/gin-gonic/gin"
)

// GetPsychologist returns a psychologist's public profile.
func (h *HandlerBundle) GetPsychologist(c *gin.Context) {
	p, err := h.Psychologists.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, psychologist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Psychologist not found", nil)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load psychologist", nil)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Psychologist fetched", p)
}

// AddScheduleSlots appends availability windows to the caller's own schedule.
func (h *HandlerBundle) AddScheduleSlots(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req struct {
		Slots []models.ScheduleSlot `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	slots, err := h.Psychologists.AddScheduleSlots(c.Request.Context(), callerID, req.Slots)
	if err != nil {
		var conflictErr *psychologist.ScheduleConflictError
		switch {
		case errors.As(err, &conflictErr):
			utils.JSONError(c, http.StatusConflict, "Schedule windows overlap", conflictErr.Conflicts)
		case errors.Is(err, psychologist.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Psychologist not found", nil)
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, "Schedule updated", slots)
}

// GetSchedule lists a psychologist's declared availability windows.
func (h *HandlerBundle) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id, _ = middleware.CallerID(c)
	}

	schedule, err := h.Psychologists.GetSchedule(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, psychologist.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Psychologist not found", nil)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load schedule", nil)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Schedule fetched", schedule)
}

// DeleteScheduleSlot removes one of the caller's availability windows. Refused
// while an active booking still references the window.
func (h *HandlerBundle) DeleteScheduleSlot(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	err := h.Psychologists.DeleteScheduleSlot(c.Request.Context(), callerID, c.Param("slotId"))
	if err != nil {
		switch {
		case errors.Is(err, psychologist.ErrSlotInUse):
			utils.JSONError(c, http.StatusConflict, "Slot has an active booking", nil)
		case errors.Is(err, psychologist.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "Psychologist not found", nil)
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Slot removed", nil)
}
