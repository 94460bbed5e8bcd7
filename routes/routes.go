package routes

import (
	"net/http"
	"time"

	"solace/handlers"
	"solace/middleware"
	"solace/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterUser)
		api.POST("/login", hb.LoginUser)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
		adminGroup.POST("/invites", hb.CreatePsychologistInvite)
	}
}

// RegisterPsychologistRoutes registers profile and schedule endpoints.
func RegisterPsychologistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/psychologists")
	{
		// Public onboarding surface: the invite token is the credential.
		api.POST("/onboard", hb.OnboardPsychologist)
		api.POST("/login", hb.LoginPsychologist)

		api.Use(middleware.AuthMiddleware())
		api.GET("/:id", hb.GetPsychologist)
		api.GET("/:id/schedule", hb.GetSchedule)

		// Schedule management is restricted to the psychologist's own account.
		own := api.Group("")
		own.Use(middleware.RequireRoles(models.RolePsychologist))
		own.PUT("/schedule", hb.AddScheduleSlots)
		own.DELETE("/schedule/:slotId", hb.DeleteScheduleSlot)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.AuthMiddleware())

		bookingGroup.POST("", middleware.RequireRoles(models.RoleUser), hb.CreateBooking)
		bookingGroup.POST("/verify-payment", middleware.RequireRoles(models.RoleUser), hb.VerifyPayment)
		bookingGroup.GET("/my-bookings", hb.ListMyBookings)
		bookingGroup.GET("/:id", hb.GetBooking)
		bookingGroup.PUT("/:id/cancel", hb.CancelBooking)
		bookingGroup.PUT("/:id/reschedule", hb.RescheduleBooking)
		bookingGroup.PUT("/:id/session-status", hb.UpdateSessionStatus)
		bookingGroup.PUT("/:id/meeting-link", hb.UpdateMeetingLink)
		bookingGroup.POST("/:id/meeting-link/send", hb.SendMeetingLink)
		bookingGroup.PUT("/:id/prescription", middleware.RequireRoles(models.RolePsychologist), hb.SetPrescription)
	}
}

// RegisterNotificationRoutes registers the in-app notification feed.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.AuthMiddleware())
		api.GET("", hb.ListNotifications)
		api.PUT("/:id/read", hb.MarkNotificationRead)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Solace"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterPsychologistRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}
