package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grupomacor/vigilancia/internal/alerts"
	"github.com/grupomacor/vigilancia/internal/config"
	"github.com/grupomacor/vigilancia/internal/core"
	"github.com/grupomacor/vigilancia/internal/handlers"
	"github.com/grupomacor/vigilancia/internal/notify"
	"github.com/grupomacor/vigilancia/internal/remote"
	"github.com/grupomacor/vigilancia/internal/store"
	"github.com/grupomacor/vigilancia/internal/syncer"
	ws "github.com/grupomacor/vigilancia/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the device-local database
	st, err := store.Open(cfg.LocalDB)
	if err != nil {
		log.Fatalf("Failed to open local database: %v", err)
	}

	// 3. Remote data API client
	client := remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey)

	// 4. Compose the core
	queue := notify.NewQueue()
	poller := alerts.NewPoller(client, time.Duration(cfg.Alerts.PollIntervalSeconds)*time.Second)
	sy := syncer.New(client, st)
	app := core.New(st, queue, poller, sy)

	// 5. Push hub for the UI webview
	hub := ws.NewHub()
	go hub.Run()
	app.SetOnEvent(func(e core.Event) {
		hub.BroadcastEvent(string(e))
	})

	// 6. Restore a persisted session, if any
	app.Restore()

	// 7. Local HTTP facade
	router := handlers.NewRouter(app, cfg, hub)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Vigilância: facade ouvindo na porta %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("⚠️ Sinal recebido: %v. Encerrando...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Release timers and tickers before the database goes away
	app.Shutdown()

	if err := st.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Encerrado")
}
