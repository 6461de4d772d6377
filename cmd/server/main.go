package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/peoplehub/events-api/internal/auth"
	"github.com/peoplehub/events-api/internal/config"
	"github.com/peoplehub/events-api/internal/database"
	"github.com/peoplehub/events-api/internal/handlers"
	"github.com/peoplehub/events-api/internal/notifier"
	"github.com/peoplehub/events-api/internal/scheduling"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	logger := logrus.New()

	// Notifications are best-effort; the server runs without Discord.
	var discordNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			discordNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	authHandler := auth.NewAuthHandler(cfg, db)
	service := scheduling.NewService(db, auth.NewRoleAuthorizer(), logger, cfg.MaxGenerationWindowDays)

	eventHandler := handlers.NewEventHandler(service, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(service, discordNotifier, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, eventHandler, registrationHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
