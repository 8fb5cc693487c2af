// Command flatten is the emergency stop: it pulls every resting order
// and market-orders each position back to zero. Run it when the
// strategy loop has been killed but inventory is still on the book.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"rit-maker-go/config"
	"rit-maker-go/gateway"
)

// RIT rejects single orders above this size, so unwinds go out in
// slices.
const maxOrderSize = 10000

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	tickerFlag := flag.String("ticker", "", "flatten only this ticker (default: all configured)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client := &gateway.Client{
		BaseURL:    cfg.Gateway.BaseURL,
		APIKey:     cfg.Gateway.APIKey,
		HTTPClient: gateway.NewDefaultHTTPClient(),
		Limiter:    gateway.NewTokenBucketLimiter(cfg.Gateway.RestRate, cfg.Gateway.RestBurst),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var tickers []string
	if *tickerFlag != "" {
		tickers = []string{strings.ToUpper(*tickerFlag)}
	} else {
		for t := range cfg.Tickers {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		log.Fatal("no tickers to flatten")
	}

	fmt.Println("cancelling all resting orders...")
	if err := client.CancelAll(ctx, ""); err != nil {
		log.Fatalf("cancel all: %v", err)
	}

	for _, ticker := range tickers {
		if err := flatten(ctx, client, ticker); err != nil {
			log.Fatalf("flatten %s: %v", ticker, err)
		}
	}

	// Let the market orders settle before the final check.
	time.Sleep(2 * time.Second)
	for _, ticker := range tickers {
		pos, err := client.Position(ctx, ticker)
		if err != nil {
			log.Printf("final position check %s: %v", ticker, err)
			continue
		}
		fmt.Printf("%s final position: %d\n", ticker, pos)
	}
}

func flatten(ctx context.Context, client *gateway.Client, ticker string) error {
	pos, err := client.Position(ctx, ticker)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}
	if pos == 0 {
		fmt.Printf("%s already flat\n", ticker)
		return nil
	}

	side := "SELL"
	remaining := pos
	if remaining < 0 {
		side = "BUY"
		remaining = -remaining
	}
	fmt.Printf("%s position %d, unwinding with %s market orders\n", ticker, pos, side)

	for remaining > 0 {
		qty := remaining
		if qty > maxOrderSize {
			qty = maxOrderSize
		}
		id, err := client.Submit(ctx, ticker, side, "MARKET", 0, qty)
		if err != nil {
			return fmt.Errorf("market order: %w", err)
		}
		fmt.Printf("  submitted %s %d (order %s)\n", side, qty, id)
		remaining -= qty
	}
	return nil
}
