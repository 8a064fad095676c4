package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/api"
	"github.com/supplier-portal/backend/internal/catalog"
	"github.com/supplier-portal/backend/internal/config"
	"github.com/supplier-portal/backend/internal/history"
	"github.com/supplier-portal/backend/internal/journal"
	"github.com/supplier-portal/backend/internal/metrics"
	"github.com/supplier-portal/backend/internal/models"
	"github.com/supplier-portal/backend/internal/remote"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/session"
	"github.com/supplier-portal/backend/internal/storage"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
)

// services is everything main wires into the session manager.
type services struct {
	session   session.Services
	upstreams map[string]api.UpstreamState
	journal   *journal.Journal
}

func (s *services) close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close submission journal")
		}
	}
}

func buildServices(cfg *config.AppConfig, store storage.Store, recorder *metrics.Recorder) (*services, error) {
	breaker := remote.BreakerConfig{
		FailureThreshold: cfg.Services.BreakerFailures,
		SuccessThreshold: cfg.Services.BreakerSuccesses,
		OpenTimeout:      time.Duration(cfg.Services.BreakerOpenSeconds) * time.Second,
	}
	newClient := func(baseURL string) *remote.Client {
		return remote.NewClient(remote.Options{
			BaseURL:       baseURL,
			Timeout:       time.Duration(cfg.Services.RequestTimeout) * time.Second,
			SubmitTimeout: time.Duration(cfg.Services.SubmitTimeout) * time.Second,
			Breaker:       breaker,
		})
	}

	directory := newClient(cfg.ServiceURL(cfg.Services.DirectoryURL))
	intake := newClient(cfg.ServiceURL(cfg.Services.IntakeURL))

	out := &services{
		upstreams: map[string]api.UpstreamState{
			"directory": func() string { return directory.BreakerState().String() },
			"intake":    func() string { return intake.BreakerState().String() },
		},
	}

	var docs requirements.Catalog
	if cfg.Services.CatalogFile != "" {
		fc, err := catalog.Load(cfg.Services.CatalogFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.Services.CatalogFile).Int("categories", fc.Categories()).Msg("using local document catalog")
		docs = fc
	} else {
		remoteCatalog := newClient(cfg.ServiceURL(cfg.Services.CatalogURL))
		out.upstreams["catalog"] = func() string { return remoteCatalog.BreakerState().String() }
		docs = remoteCatalog
	}

	if cfg.Storage.JournalPath != "" {
		j, err := journal.Open(cfg.Storage.JournalPath)
		if err != nil {
			return nil, err
		}
		out.journal = j
		if n, err := j.Count(context.Background()); err == nil {
			log.Info().Str("path", cfg.Storage.JournalPath).Int("entries", n).Msg("submission journal opened")
		} else {
			log.Warn().Err(err).Msg("submission journal unreadable")
		}
	}

	var loader history.Loader = history.Stub{}
	if cfg.Processing.HistorySource == config.HistorySourceJournal {
		if out.journal == nil {
			return nil, fmt.Errorf("history source %q needs a journal", config.HistorySourceJournal)
		}
		loader = history.NewJournalLoader(out.journal)
	}

	out.session = session.Services{
		Suppliers:    supplier.NewResolver(directory, profileDefaults(cfg.Profile)),
		Requirements: requirements.NewResolver(docs),
		Orchestrator: submission.NewOrchestrator(intake),
		History:      history.NewBounded(loader, cfg.HistoryTimeout()),
		Store:        store,
		Metrics:      recorder,
	}
	// A nil *journal.Journal must not reach the interface field.
	if out.journal != nil {
		out.session.Journal = out.journal
	}

	return out, nil
}

func profileDefaults(p config.ProfileConfig) supplier.Defaults {
	d := supplier.DefaultDefaults()
	if p.NotInformed != "" {
		d.NotInformed = p.NotInformed
	}
	if p.TotalEvaluations > 0 {
		d.TotalEvaluations = p.TotalEvaluations
	}
	if p.Status != "" {
		d.Status = models.SupplierStatus(p.Status)
	}
	if p.ReviewIntervalDays > 0 {
		d.ReviewInterval = time.Duration(p.ReviewIntervalDays) * 24 * time.Hour
	}
	if p.Feedback != "" {
		d.Feedback = p.Feedback
	}
	return d
}

func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
}
