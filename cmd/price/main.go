package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PriceStore/internal/config"
	"PriceStore/internal/price"
	"PriceStore/pkg/kit"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(cfg.Service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &price.Server{
		Store: price.NewInstrumentedStore(price.NewStore(), reg),
		Log:   log,
	}
	if n := cfg.RateLimit.WritesPerWindow; n > 0 {
		s.WriteLimiter = kit.NewIPRateLimiter(n, cfg.RateLimit.Window)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Token == "" {
		log.Warn("metrics enabled without METRICS_TOKEN; /metrics will refuse every scrape")
	}

	h := price.NewHandler(s, price.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	opts := kit.ServerOptions{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(context.Background(), cfg.Server.Addr, h, log, opts); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
	log.Info("http server stopped")
}
