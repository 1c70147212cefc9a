package service

import (
	"context"
	"log"

	"github.com/trogers1052/insider-feed/internal/models"
)

// Notifier fans a trade batch out to notification subscribers
type Notifier interface {
	Notify(ctx context.Context, trades []models.NormalizedTrade) error
}

// TradeStore persists a trade batch
type TradeStore interface {
	InsertTrades(ctx context.Context, trades []models.NormalizedTrade) error
}

// TradePublisher publishes a trade batch for downstream services
type TradePublisher interface {
	PublishTrades(ctx context.Context, trades []models.NormalizedTrade) error
}

// Fanout hands extracted trades to each configured sink. Sinks are
// independent: a failure in one is logged with the originating accession
// number and never suppresses the others.
type Fanout struct {
	notifier  Notifier
	store     TradeStore
	publisher TradePublisher
}

// NewFanout creates a fan-out stage. Any sink may be nil and is skipped.
func NewFanout(notifier Notifier, store TradeStore, publisher TradePublisher) *Fanout {
	return &Fanout{notifier: notifier, store: store, publisher: publisher}
}

// Publish delivers the batch to every sink. An empty batch is a no-op.
func (f *Fanout) Publish(ctx context.Context, accessionNo string, trades []models.NormalizedTrade) {
	if len(trades) == 0 {
		return
	}

	if f.notifier != nil {
		if err := f.notifier.Notify(ctx, trades); err != nil {
			log.Printf("Failed to send notifications for accessionNo %s: %v", accessionNo, err)
		}
	}

	if f.store != nil {
		if err := f.store.InsertTrades(ctx, trades); err != nil {
			log.Printf("Failed to insert trades for accessionNo %s: %v", accessionNo, err)
		}
	}

	if f.publisher != nil {
		if err := f.publisher.PublishTrades(ctx, trades); err != nil {
			log.Printf("Failed to publish trades for accessionNo %s: %v", accessionNo, err)
		}
	}
}
