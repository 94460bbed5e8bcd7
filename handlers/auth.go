package handlers

import (
	"errors"
	"net/http"

	"solace/services/psychologist"
	"solace/services/user"
	"solace/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a patient account and returns it with an auth token.
func (h *HandlerBundle) RegisterUser(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	u, token, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "Email already registered", nil)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register", nil)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, "Account created", gin.H{
		"user":  u,
		"token": token,
	})
}

// LoginUser authenticates a patient.
func (h *HandlerBundle) LoginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	u, token, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to authenticate", nil)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Authenticated", gin.H{
		"user":  u,
		"token": token,
	})
}

// LoginPsychologist authenticates a psychologist account.
func (h *HandlerBundle) LoginPsychologist(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	p, token, err := h.Psychologists.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, psychologist.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to authenticate", nil)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Authenticated", gin.H{
		"psychologist": p,
		"token":        token,
	})
}

// OnboardPsychologist redeems an invite token and creates an approved account.
func (h *HandlerBundle) OnboardPsychologist(c *gin.Context) {
	var req psychologist.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	p, token, err := h.Psychologists.Onboard(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, psychologist.ErrInviteInvalid):
			utils.JSONError(c, http.StatusBadRequest, "Invite not found or expired", nil)
		case errors.Is(err, psychologist.ErrEmailTaken):
			utils.JSONError(c, http.StatusConflict, "Email already registered", nil)
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to onboard", nil)
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, "Psychologist onboarded", gin.H{
		"psychologist": p,
		"token":        token,
	})
}
