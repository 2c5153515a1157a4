package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"alphatrade/internal/candlegen"
	"alphatrade/internal/config"
	"alphatrade/internal/quote"
	"alphatrade/internal/scheduler"
	"alphatrade/internal/server"
	"alphatrade/internal/service"
	"alphatrade/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] alphatrade starting...")

	if err := run(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Println("[INFO] alphatrade stopped")
}

// run wires the application and blocks until shutdown. Fatal conditions are
// returned as errors so deferred cleanup still runs.
func run() error {
	godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		sqliteStore, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory store: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = sqliteStore
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Init quote provider
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := candlegen.New(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))
	var fetcher quote.Fetcher
	if cfg.Market.FinnhubAPIKey != "" {
		fetcher = quote.NewFinnhubFetcher(cfg.Market.FinnhubAPIKey)
		log.Printf("[INFO] live quote source: %s", fetcher.Name())
	} else {
		log.Println("[INFO] no live quote source configured, serving synthetic data")
	}
	provider := quote.New(fetcher, gen, rng)

	// Init portfolio service
	pf, err := service.NewPortfolio(st)
	if err != nil {
		return fmt.Errorf("init portfolio: %w", err)
	}
	if cfg.SeedDemoData {
		if err := pf.SeedDemoTrades(); err != nil {
			log.Printf("[WARN] seed demo trades: %v", err)
		}
	}

	// Init snapshot scheduler
	sched := scheduler.NewScheduler(pf)
	if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv := server.New(pf, provider, server.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		PreferLive:  cfg.Market.PreferLive,
	})
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-sigCh:
	}

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	return nil
}
