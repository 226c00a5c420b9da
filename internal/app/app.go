package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/five82/coinsearch/internal/coingecko"
	"github.com/five82/coinsearch/internal/config"
	"github.com/five82/coinsearch/internal/logger"
	"github.com/five82/coinsearch/internal/metrics"
	"github.com/five82/coinsearch/internal/prefs"
	"github.com/five82/coinsearch/internal/search"
	"github.com/five82/coinsearch/internal/ui"
)

// Options configure the coinsearch application. Debounce and MetricsAddr
// override the config file when set.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses prefs.DefaultPath
	Debounce    int    // milliseconds; zero uses config
	Query       string // initial query text
	MetricsAddr string // host:port for /metrics; empty uses config
}

// Run boots the coinsearch TUI until the user exits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	client, err := coingecko.NewClient(cfg.APIBase, coingecko.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init coingecko client: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(reg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	metricsDone := StartMetrics(ctx, cfg.MetricsAddr, reg, log)

	pipeline := search.New(client, search.Options{
		Debounce:  cfg.Debounce,
		DropStale: cfg.DropStaleResponses,
		Logger:    log,
		Observer:  recorder,
	})
	defer pipeline.Close()

	// Closing the pipeline closes sub.C, which ends any pending UI read.
	sub := pipeline.Subscribe()

	if opts.Query != "" {
		pipeline.SetQueryText(opts.Query)
	}

	prefsFile := prefsPath(opts)
	userPrefs, err := prefs.Load(prefsFile)
	if err != nil {
		log.Warn("load prefs, using config theme", zap.Error(err))
	}

	log.Info("coinsearch starting",
		zap.String("api_base", cfg.APIBase),
		zap.Duration("debounce", cfg.Debounce),
		zap.Bool("drop_stale", cfg.DropStaleResponses),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.String("prefs", prefsFile),
	)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Pipeline:  pipeline,
		Updates:   sub.C,
		ThemeName: userPrefs.ThemeOr(cfg.Theme),
		SaveTheme: func(name string) error {
			return prefs.Save(prefsFile, prefs.Prefs{Theme: name})
		},
		Logger: log,
	})

	cancel()
	<-metricsDone
	log.Info("coinsearch stopped")
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Debounce > 0 {
		cfg.Debounce = time.Duration(opts.Debounce) * time.Millisecond
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
}

func prefsPath(opts Options) string {
	if strings.TrimSpace(opts.PrefsPath) == "" {
		return prefs.DefaultPath()
	}
	return opts.PrefsPath
}
