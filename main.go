package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medivoice/bootstrap"
	"medivoice/config"
	"medivoice/cron"
	"medivoice/handlers"
	"medivoice/middleware"
	"medivoice/routes"
	"medivoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := &config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize services", zap.Error(err))
	}
	defer components.Close()

	utils.StartHealthMonitor(ctx, components.RedisClient, components.MongoClient)

	if cfg.RemindersEnabled {
		stopWorker := cron.InitReminderWorker(cfg, logger)
		defer stopWorker()
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	doctorHandler := handlers.NewDoctorHandler(components.Catalog, components.Scheduler)
	appointmentHandler := handlers.NewAppointmentHandler(components.Appointments)
	bookingHandler := handlers.NewBookingHandler(components.Assistant)
	aiHandler := handlers.NewAIHandler(components.Assistant, components.Transcriber, cfg.STTLanguage)

	handlerBundle := &handlers.HandlerBundle{
		// Doctor catalog endpoints.
		ListDoctorsHandler:         doctorHandler.ListDoctorsHandler,
		GetDoctorHandler:           doctorHandler.GetDoctorHandler,
		GetDoctorSlotsHandler:      doctorHandler.GetDoctorSlotsHandler,
		AvailabilitySummaryHandler: doctorHandler.AvailabilitySummaryHandler,

		// Appointment endpoints.
		ListAppointmentsHandler: appointmentHandler.ListAppointmentsHandler,

		// Booking endpoints.
		InitiateSession: bookingHandler.InitiateSession,
		GetSession:      bookingHandler.GetSession,
		UpdateSession:   bookingHandler.UpdateSession,
		ConfirmBooking:  bookingHandler.ConfirmBooking,
		CancelSession:   bookingHandler.CancelSession,

		// AI endpoints.
		AIChatHandler: aiHandler.HandleAIRequest,
		AISTTHandler:  aiHandler.AISTTHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
