package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	"glowbook/database/repository"
	"glowbook/handlers"
	"glowbook/routes"
	"glowbook/services/agent"
	"glowbook/services/dialogue"
	"glowbook/services/extract"
	"glowbook/services/knowledge"
	"glowbook/services/otp"
	"glowbook/services/prompt"
	"glowbook/services/session"
	"glowbook/services/tasks"
	"glowbook/services/validate"
	"glowbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Static reference data.
	catalog := config.DefaultCatalog()
	countries := config.DefaultCountryRules()
	rules := extract.DefaultRules(countries)
	rules.DefaultPhoneCountry = config.AppConfig.DefaultPhoneCountry
	rules.PostalCountryByLength = map[int]string{
		6: config.AppConfig.Postal6Country,
		5: config.AppConfig.Postal5Country,
		4: config.AppConfig.Postal4Country,
	}

	// The pure conversational core.
	extractor := extract.New(rules, catalog)
	validator := validate.New(countries, catalog)
	engine := dialogue.NewFSM(catalog, extractor, validator, config.AppConfig.HistoryRecoveryTurns)
	classifier := dialogue.NewClassifier(rules.QuestionStarters)

	// Collaborating services.
	sessions := session.NewRedisStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLHours)*time.Hour,
	)
	otpService := otp.NewRedisService(
		utils.GetOTPCacheClient(),
		otp.WhatsAppSender{},
		time.Duration(config.AppConfig.OTPExpiryMinutes)*time.Minute,
		config.AppConfig.MaxOTPAttempts,
		time.Duration(config.AppConfig.OTPResendCooldownSecs)*time.Second,
	)

	var knowledgeSvc knowledge.Service
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		svc, err := knowledge.NewGeminiService(
			key, catalog,
			time.Duration(config.AppConfig.KnowledgeTimeoutSecs)*time.Second,
		)
		if err != nil {
			logger.Sugar().Warnf("main: knowledge service unavailable: %v", err)
		} else {
			knowledgeSvc = svc
		}
	}

	bookingRepo := repository.NewMongoBookingRepo()
	reminders := tasks.NewAsynqEnqueuer()
	cron.InitReminderWorker(otp.WhatsAppSender{})

	agentService := &agent.DefaultAgentService{
		Sessions:          sessions,
		Engine:            engine,
		Classifier:        classifier,
		Knowledge:         knowledgeSvc,
		OTP:               otpService,
		Bookings:          bookingRepo,
		Prompts:           prompt.NewTemplateRenderer(catalog),
		Reminders:         reminders,
		OffTopicThreshold: config.AppConfig.OffTopicThreshold,
	}

	agentHandler := handlers.NewAgentHandler(agentService)
	adminHandler := handlers.NewAdminHandler(bookingRepo)
	routes.RegisterRoutes(router, agentHandler, adminHandler)

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
