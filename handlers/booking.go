package handlers

import (
	"net/http"
	"strconv"

	"solace/middleware"
	"solace/models"
	"solace/services/booking"
	"solace/utils"

	"github.com/gin-gonic/gin"
)

func callerFrom(c *gin.Context) (booking.Caller, bool) {
	id, okID := middleware.CallerID(c)
	role, okRole := middleware.CallerRole(c)
	if !okID || !okRole {
		return booking.Caller{}, false
	}
	return booking.Caller{ID: id, Role: role}, true
}

func pagination(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// bookingError translates service errors to envelope responses.
func bookingError(c *gin.Context, err error) {
	status := booking.StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Something went wrong"
	}
	utils.JSONError(c, status, msg, nil)
}

// CreateBooking reserves a slot window and opens a Razorpay order for it.
func (h *HandlerBundle) CreateBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.Bookings.CreateBooking(c.Request.Context(), caller.ID, req)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Booking created, awaiting payment", result)
}

// VerifyPayment checks the Razorpay signature and confirms the booking.
func (h *HandlerBundle) VerifyPayment(c *gin.Context) {
	var req booking.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Bookings.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Payment verified, booking confirmed", b)
}

// ListMyBookings returns the caller's bookings, scoped by their role.
func (h *HandlerBundle) ListMyBookings(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	page, limit := pagination(c)
	items, err := h.Bookings.ListMyBookings(c.Request.Context(), caller, page, limit)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Bookings fetched", gin.H{
		"bookings": items,
		"page":     page,
		"limit":    limit,
	})
}

// GetBooking returns one booking visible to the caller.
func (h *HandlerBundle) GetBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	b, err := h.Bookings.GetBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking fetched", b)
}

// CancelBooking cancels a live booking and releases its slot window.
func (h *HandlerBundle) CancelBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	b, err := h.Bookings.CancelBooking(c.Request.Context(), caller, c.Param("id"), req.Reason)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking cancelled", b)
}

// RescheduleBooking moves a confirmed booking to a new slot window.
func (h *HandlerBundle) RescheduleBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req booking.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Bookings.RescheduleBooking(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Booking rescheduled", b)
}

// UpdateSessionStatus advances the session workflow state.
func (h *HandlerBundle) UpdateSessionStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req struct {
		SessionStatus string `json:"sessionStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Bookings.UpdateSessionStatus(c.Request.Context(), caller, c.Param("id"), req.SessionStatus)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Session status updated", b)
}

// UpdateMeetingLink stores the session meeting link on the booking.
func (h *HandlerBundle) UpdateMeetingLink(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req struct {
		MeetingLink string `json:"meetingLink" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Bookings.UpdateMeetingLink(c.Request.Context(), caller, c.Param("id"), req.MeetingLink)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Meeting link updated", b)
}

// SendMeetingLink delivers the meeting link to the patient over email and the
// notification channel. An inline link overrides the stored one.
func (h *HandlerBundle) SendMeetingLink(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req struct {
		MeetingLink string `json:"meetingLink"`
	}
	_ = c.ShouldBindJSON(&req)

	b, err := h.Bookings.SendMeetingLink(c.Request.Context(), caller, c.Param("id"), req.MeetingLink)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Meeting link sent", b)
}

// SetPrescription records the post-session prescription.
func (h *HandlerBundle) SetPrescription(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", nil)
		return
	}

	var req models.Prescription
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Bookings.SetPrescription(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		bookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Prescription saved", b)
}
