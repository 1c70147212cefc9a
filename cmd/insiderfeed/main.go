package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trogers1052/insider-feed/internal/config"
	"github.com/trogers1052/insider-feed/internal/kafka"
	"github.com/trogers1052/insider-feed/internal/notify"
	"github.com/trogers1052/insider-feed/internal/secapi"
	"github.com/trogers1052/insider-feed/internal/sector"
	"github.com/trogers1052/insider-feed/internal/service"
	"github.com/trogers1052/insider-feed/internal/store"
	"github.com/trogers1052/insider-feed/internal/stream"
)

func main() {
	log.Println("Starting insider-feed...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Configuration loaded:")
	log.Printf("  Stream URL: %s", cfg.StreamURL)
	log.Printf("  Settle delay: %s", cfg.SettleDelay)
	log.Printf("  Ping interval: %s (pong timeout %s)", cfg.PingInterval, cfg.PongTimeout)
	log.Printf("  Max reconnect attempts: %d (wait %s)", cfg.MaxReconnectAttempts, cfg.ReconnectWait)
	log.Printf("  Email notifications: %v, SMS notifications: %v", cfg.EmailEnabled, cfg.SMSEnabled)
	log.Printf("  Kafka publishing: %v", cfg.KafkaEnabled)

	// Static ticker -> sector/market-cap lookup
	sectors, err := sector.Load(cfg.SectorDataPath)
	if err != nil {
		log.Printf("Warning: sector data unavailable (%v), tickers will resolve to Unknown", err)
		sectors = sector.Empty()
	} else {
		log.Printf("Loaded sector data for %d tickers", sectors.Len())
	}

	// Trade store
	tradeStore, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open trade store: %v", err)
	}
	defer tradeStore.Close()

	// Notification dispatcher
	var senders []notify.Sender
	if cfg.EmailEnabled {
		senders = append(senders, notify.NewEmailSender(notify.EmailConfig{
			SMTPServer: cfg.SMTPServer,
			SMTPPort:   cfg.SMTPPort,
			SMTPUser:   cfg.SMTPUser,
			SMTPPass:   cfg.SMTPPass,
			FromEmail:  cfg.FromEmail,
			Recipients: cfg.EmailRecipients,
		}))
	}
	if cfg.SMSEnabled {
		senders = append(senders, notify.NewSMSSender(notify.SMSConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
			Recipients: cfg.SMSRecipients,
		}))
	}
	dispatcher := notify.NewDispatcher(senders...)

	// Optional Kafka publisher for downstream services
	var publisher service.TradePublisher
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTradeTopic)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	// Event pipeline
	fetcher := secapi.NewClient(cfg.SECAPIKey, cfg.QueryAPIURL)
	fanout := service.NewFanout(dispatcher, tradeStore, publisher)
	pipeline := service.NewPipeline(
		fetcher,
		service.NewOfficerFilter(cfg.OfficerTitles),
		service.NewExtractor(sectors),
		fanout,
		cfg.SettleDelay,
	)

	// Stream connection manager
	manager := stream.NewManager(stream.Config{
		URL:           cfg.StreamEndpoint(),
		PingInterval:  cfg.PingInterval,
		PongTimeout:   cfg.PongTimeout,
		ReconnectWait: cfg.ReconnectWait,
		MaxAttempts:   cfg.MaxReconnectAttempts,
	}, pipeline.HandleEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- manager.Run(ctx)
	}()

	log.Println("Insider feed running. Waiting for filings...")

	// Wait for shutdown signal or stream exhaustion
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received %s, shutting down insider-feed...", sig)
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil {
			log.Printf("Stream stopped: %v", err)
		}
	}

	// Let already-dispatched filings finish their fan-out
	log.Println("Waiting for in-flight filings to finish...")
	manager.Wait()

	log.Println("Insider feed stopped")
}
