package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/coinsearch/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/coinsearch/config.toml)")
	debounceMS := flag.Int("debounce", 0, "debounce window in milliseconds (optional, defaults to 500)")
	query := flag.String("query", "", "initial search text (optional)")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on host:port (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		Query:       *query,
		MetricsAddr: *metricsAddr,
	}
	if d := *debounceMS; d > 0 {
		opts.Debounce = d
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "coinsearch: %v\n", err)
		return 1
	}
	return 0
}
