package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"gift_registry_echo/internal/logger"
	"gift_registry_echo/internal/poller"
)

// Drives a pending payment from the command line: polls the status
// endpoint, counts down the timeout budget and auto-cancels on expiry.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	paymentID := flag.String("payment", "", "payment id to track")
	flag.Parse()

	if *paymentID == "" {
		log.Fatal("-payment is required")
	}

	zlog, err := logger.Init(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := poller.NewAPIClient(*baseURL)
	p := poller.New(client, poller.DefaultConfig(), zlog, func(state poller.State) {
		fmt.Printf("payment %s: %s\n", *paymentID, state)
	})

	final := p.Run(ctx, *paymentID)
	zlog.Info("checkout finished",
		zap.String("payment_id", *paymentID),
		zap.String("state", string(final)),
	)
}
