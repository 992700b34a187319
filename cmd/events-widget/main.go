package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/yair/events-widget/pkg/config"
	"github.com/yair/events-widget/pkg/discovery"
	"github.com/yair/events-widget/pkg/domain"
	"github.com/yair/events-widget/pkg/integrations"
	"github.com/yair/events-widget/pkg/interfaces"
	"github.com/yair/events-widget/pkg/presentation"
)

func main() {
	log.Println("Starting Events Widget...")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	loc, err := cfg.Display.LoadLocation()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	// Upstream events API
	eventsClient, err := integrations.NewEventsAPIClient(integrations.EventsAPIConfig{
		Endpoint:  cfg.Feed.URL,
		UserAgent: cfg.Feed.UserAgent,
		Timeout:   cfg.Feed.Timeout(),
	})
	if err != nil {
		log.Fatalf("Failed to create events API client: %v", err)
	}

	// Widget sessions
	metrics := interfaces.NewMetrics()
	sessions := interfaces.NewSessionManager(interfaces.SessionConfig{
		IdleTTL:     cfg.Sessions.IdleTTL(),
		MaxSessions: cfg.Sessions.MaxSessions,
		Defaults: presentation.Defaults{
			Location: cfg.Display.DefaultLocation,
			Center: domain.Coordinates{
				Latitude:  cfg.Display.DefaultLatitude,
				Longitude: cfg.Display.DefaultLongitude,
			},
			Zoom:      cfg.Display.MapZoom,
			FocusZoom: cfg.Display.FocusZoom,
		},
	}, discovery.NewNormalizer(loc, time.Now), metrics)

	widgetHandler := interfaces.NewWidgetHandler(sessions, eventsClient, cfg.Display.TileURL)

	// Setup router
	router := mux.NewRouter()
	widgetHandler.RegisterRoutes(router)
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Log available routes
	log.Println("Available routes:")
	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		log.Printf("  %v %s", methods, path)
		return nil
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handlers.LoggingHandler(os.Stdout, router)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on port %s, events from %s", cfg.Server.Port, cfg.Feed.URL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped.")
}
