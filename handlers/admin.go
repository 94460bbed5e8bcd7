package handlers

import (
	"net/http"

	"solace/middleware"
	"solace/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreatePsychologistInvite issues a single-use, TTL-bound invite token and
// mails it to the prospective psychologist.
func (h *HandlerBundle) CreatePsychologistInvite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	callerID, _ := middleware.CallerID(c)
	token, err := utils.CreateInvite(c.Request.Context(), utils.Invite{
		Email:     req.Email,
		InvitedBy: callerID,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create invite", nil)
		return
	}

	if err := h.Mailer.SendPsychologistInvite(req.Email, token); err != nil {
		utils.GetLogger().Warn("invite email failed",
			zap.String("email", req.Email), zap.Error(err))
	}

	utils.JSONSuccess(c, http.StatusCreated, "Invite created", gin.H{
		"email":     req.Email,
		"token":     token,
		"expiresIn": utils.InviteTTL.String(),
	})
}
