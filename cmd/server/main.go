package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/config"
	"github.com/ella-rises/membership-api/internal/database"
	"github.com/ella-rises/membership-api/internal/handlers"
	"github.com/ella-rises/membership-api/internal/ledger"
	"github.com/ella-rises/membership-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Connect to Database
	db := database.Connect(cfg)

	// Staff notifier is optional; without a token, announcements are skipped.
	var staffNotifier notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID, logger)
	if err != nil {
		logger.Warn("discord notifier not initialized", zap.Error(err))
	} else {
		staffNotifier = discordNotifier
	}

	// Ledgers
	registrations := ledger.NewRegistrationLedger(db)
	milestones := ledger.NewMilestoneLedger(db)
	donations := ledger.NewDonationLedger(db)

	// Handlers
	authHandler := auth.NewAuthHandler(cfg, db, logger)
	h := handlers.Handlers{
		Auth:         authHandler,
		Participants: handlers.NewParticipantHandler(db, logger),
		Events:       handlers.NewEventHandler(db, logger),
		Registration: handlers.NewRegistrationHandler(db, registrations, staffNotifier, logger),
		Milestones:   handlers.NewMilestoneHandler(milestones, logger),
		Donations:    handlers.NewDonationHandler(db, donations, staffNotifier, logger),
		Views:        handlers.NewViewHandler(db, registrations, milestones, donations),
		Surveys:      handlers.NewSurveyHandler(db),
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, h, logger)

	// Start Server
	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if parsed == zapcore.DebugLevel {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
