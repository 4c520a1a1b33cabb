package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/playasoft/camp-registration-api/internal/auth"
	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/database"
	"github.com/playasoft/camp-registration-api/internal/handlers"
	"github.com/playasoft/camp-registration-api/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Discord session for auth role checks and notifications
	var discordSession *discordgo.Session
	if cfg.DiscordBotToken != "" {
		var err error
		discordSession, err = discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord session not initialized: %v", err)
		}
	}
	discordNotifier := notifier.NewDiscordNotifier(discordSession, cfg.DiscordNotificationsChannelID)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db, discordSession)
	catalogHandler := handlers.NewCatalogHandler(db, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(db, cfg, discordNotifier, authHandler)
	paymentHandler := handlers.NewPaymentHandler(db, cfg, discordNotifier, authHandler)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, catalogHandler, registrationHandler, paymentHandler, apiKeyHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
