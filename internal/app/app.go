// Package app wires configuration, datasets, the decision log and the HTTP
// server into one runnable unit.
package app

import (
	"context"
	"fmt"

	"mandimitra/internal/config"
	"mandimitra/internal/dataset"
	"mandimitra/internal/engine"
	"mandimitra/internal/logger"
	"mandimitra/internal/logistics"
	"mandimitra/internal/store/decisionlog"
	apihttp "mandimitra/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

// App owns application-level orchestration: load datasets, open the decision
// log, serve the API.
type App struct {
	cfg    *config.Config
	loader *dataset.Loader
	logs   *decisionlog.Store
	server *apihttp.Server
}

// NewApp builds the application from config without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	loader, err := dataset.NewLoader(dataset.Paths{
		Crops:      cfg.Data.CropsPath,
		Markets:    cfg.Data.MarketsPath,
		Facilities: cfg.Data.FacilitiesPath,
		Watch:      cfg.Data.Watch,
	})
	if err != nil {
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}

	logs, err := decisionlog.NewStore(cfg.Store.DecisionLogPath)
	if err != nil {
		loader.Close()
		return nil, fmt.Errorf("decision log open failed: %w", err)
	}

	rates := logistics.RateTable{
		BaseFee:    cfg.Transport.BaseFee,
		PerKmPerKg: cfg.Transport.PerKmPerKg,
	}
	opts := engine.Options{
		MaxDistanceKm:         cfg.Decision.MaxDistanceKm,
		MinImprovementPct:     cfg.Decision.MinImprovementPct,
		ForecastHorizonDays:   cfg.Decision.ForecastHorizonDays,
		MaxAlternativeMarkets: cfg.Decision.MaxAlternativeMarkets,
		MaxProjectionSwingPct: cfg.Decision.MaxProjectionSwingPct,
	}
	router := apihttp.NewRouter(loader, rates, opts, logs)
	server, err := apihttp.NewServer(cfg.Server.Addr, router)
	if err != nil {
		logs.Close()
		loader.Close()
		return nil, err
	}

	return &App{cfg: cfg, loader: loader, logs: logs, server: server}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	logger.Infof("mandimitra starting (env=%s, addr=%s)", a.cfg.App.Env, a.server.Addr())

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	err := group.Wait()
	a.Close()
	return err
}

// Close releases the dataset watcher and the decision log.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.loader != nil {
		_ = a.loader.Close()
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
}
