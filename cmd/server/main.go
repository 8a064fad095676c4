package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/api"
	"github.com/supplier-portal/backend/internal/config"
	"github.com/supplier-portal/backend/internal/metrics"
	"github.com/supplier-portal/backend/internal/session"
	"github.com/supplier-portal/backend/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to the XML configuration file")
	flag.Parse()

	if *configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(exePath), config.DefaultFileName)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Advanced.LogLevel, cfg.Advanced.LogFormat)

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal().Err(err).Msg("failed to create directories")
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir(), cfg.MaxFileSizeBytes())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	recorder := metrics.New()

	svc, err := buildServices(cfg, fileStore, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer svc.close()

	sessionMgr := session.NewManager(svc.session, session.Options{
		MaxSessions: cfg.Processing.MaxSessions,
	})
	defer sessionMgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, sessionMgr, cfg.CleanupInterval(), cfg.SessionTimeout())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareOptions{
		LogRequests:  cfg.Advanced.EnableRequestLogging,
		EnableGzip:   cfg.Processing.EnableCompression,
		CORSOrigins:  cfg.CORSOrigins(),
		BodyLimit:    cfg.Server.BodyLimit,
		ExposeErrors: cfg.Advanced.ExposeErrorDetails,
	})
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		SessionMgr:   sessionMgr,
		Requirements: svc.session.Requirements,
		Upstreams:    svc.upstreams,
		Metrics:      recorder.Handler(),
		MaxFileSize:  cfg.MaxFileSizeBytes(),
		Version:      Version,
	}))

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cfg, *configPath)

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// runCleanup drops idle sessions until ctx is cancelled.
func runCleanup(ctx context.Context, mgr *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mgr.CleanupOldSessions(maxAge); n > 0 {
				log.Info().Int("removed", n).Msg("expired portal sessions cleaned up")
			}
		}
	}
}

func printBanner(cfg *config.AppConfig, configPath string) {
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Supplier Homologation Portal                    ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  History:    %-45s║\n", cfg.Processing.HistorySource)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Services:  %-46s║\n", cfg.Services.BaseURL)
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}
