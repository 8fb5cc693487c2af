package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"rit-maker-go/config"
	"rit-maker-go/gateway"
	"rit-maker-go/infrastructure/alert"
	"rit-maker-go/infrastructure/logger"
	"rit-maker-go/infrastructure/monitor"
	"rit-maker-go/metrics"
	"rit-maker-go/order"
	"rit-maker-go/sim"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	tickerFlag := flag.String("ticker", "", "run only this ticker (default: all configured)")
	dryRun := flag.Bool("dryRun", false, "log order decisions without sending them")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Close()

	tickers := selectTickers(cfg, *tickerFlag)
	if len(tickers) == 0 {
		lg.Fatal("no tickers selected", zap.String("flag", *tickerFlag))
	}

	m := metrics.New("")
	m.StartServer(cfg.MetricsAddr)

	hub := monitor.NewHub()
	if cfg.EventsAddr != "" {
		monitor.StartServer(cfg.EventsAddr, hub)
	}

	alerts := alert.NewManager([]alert.Channel{
		alert.NewLogChannel("log", lg.Named("alert").Logger),
	}, 5*time.Minute)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot reload is informational only; strategy parameter changes
	// need a restart.
	watcher := config.Watcher{Path: *cfgPath, Cooldown: time.Second}
	go func() {
		err := watcher.Start(ctx, func(config.AppConfig) {
			lg.Info("config reloaded", zap.String("path", *cfgPath))
		}, func(err error) {
			lg.Warn("config reload failed", zap.Error(err))
		})
		if err != nil {
			lg.Warn("config watcher unavailable", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	for _, ticker := range tickers {
		client := &gateway.Client{
			BaseURL:    cfg.Gateway.BaseURL,
			APIKey:     cfg.Gateway.APIKey,
			HTTPClient: gateway.NewDefaultHTTPClient(),
			Limiter:    gateway.NewTokenBucketLimiter(cfg.Gateway.RestRate, cfg.Gateway.RestBurst),
		}

		var exec order.Execution = client
		if *dryRun {
			exec = &dryRunExec{log: lg.Named("dryrun").Logger}
		}

		runner, err := sim.BuildRunner(ticker, cfg.Tickers[ticker], sim.Deps{
			Data:    client,
			Exec:    exec,
			Log:     lg.Named(strings.ToLower(ticker)).Logger,
			Metrics: m,
			Events:  hub,
			Alerts:  alerts,
		})
		if err != nil {
			lg.Fatal("build runner", zap.String("ticker", ticker), zap.Error(err))
		}

		wg.Add(1)
		go func(ticker string, r *sim.Runner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				lg.Error("runner halted", zap.String("ticker", ticker), zap.Error(err))
				stop()
			}
		}(ticker, runner)
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	lg.Info("runner started",
		zap.Strings("tickers", tickers),
		zap.Bool("dryRun", *dryRun),
		zap.String("baseURL", cfg.Gateway.BaseURL),
	)

	wg.Wait()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	lg.Info("runner stopped")
}

func selectTickers(cfg config.AppConfig, only string) []string {
	if only != "" {
		only = strings.ToUpper(only)
		if _, ok := cfg.Tickers[only]; !ok {
			return nil
		}
		return []string{only}
	}
	out := make([]string, 0, len(cfg.Tickers))
	for t := range cfg.Tickers {
		out = append(out, t)
	}
	return out
}

// dryRunExec logs order decisions instead of sending them.
type dryRunExec struct {
	log *zap.Logger
	seq int
}

func (d *dryRunExec) Submit(ctx context.Context, ticker, side, otype string, price float64, qty int) (string, error) {
	d.seq++
	d.log.Info("would submit",
		zap.String("ticker", ticker),
		zap.String("side", side),
		zap.String("type", otype),
		zap.Float64("price", price),
		zap.Int("qty", qty),
	)
	return fmt.Sprintf("dry-%d", d.seq), nil
}

func (d *dryRunExec) Cancel(ctx context.Context, orderID string) error {
	d.log.Info("would cancel", zap.String("orderId", orderID))
	return nil
}

func (d *dryRunExec) CancelAll(ctx context.Context, ticker string) error {
	d.log.Info("would cancel all", zap.String("ticker", ticker))
	return nil
}
