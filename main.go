package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solace/config"
	"solace/cron"
	"solace/database"
	bookingRepoPkg "solace/database/repository/booking"
	notificationRepoPkg "solace/database/repository/notification"
	psychologistRepoPkg "solace/database/repository/psychologist"
	userRepoPkg "solace/database/repository/user"
	"solace/handlers"
	"solace/middleware"
	"solace/routes"
	"solace/services/booking"
	"solace/services/notification"
	"solace/services/psychologist"
	"solace/services/tasks"
	"solace/services/user"
	"solace/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.InitInviteCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	psychRepo := psychologistRepoPkg.NewMongoPsychologistRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// reminder queue client.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	mailer := utils.NewSMTPMailer()

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}

	psychologistService := &psychologist.DefaultPsychologistService{
		Repo:        psychRepo,
		BookingRepo: bookingRepo,
		Logger:      logger,
	}

	notificationService := &notification.DefaultNotificationService{
		Repo:      notificationRepo,
		UserRepo:  userRepo,
		PsychRepo: psychRepo,
		Logger:    logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:      bookingRepo,
		PsychRepo: psychRepo,
		UserRepo:  userRepo,
		Payments: booking.NewRazorpayBridge(
			config.AppConfig.RazorpayKeyID,
			config.AppConfig.RazorpayKeySecret,
			logger,
		),
		Notifier:    notificationService,
		Mailer:      mailer,
		Reminders:   &tasks.AsynqReminderScheduler{Client: asynqClient},
		Logger:      logger,
		DefaultRate: config.AppConfig.DefaultSessionRate,
		Currency:    config.AppConfig.Currency,
	}

	// Session reminder worker.
	cron.InitReminderWorker(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Users:         userService,
		Psychologists: psychologistService,
		Bookings:      bookingService,
		Notifications: notificationService,
		Mailer:        mailer,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
