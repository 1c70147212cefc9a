/*
Package notify fans extracted trade batches out to notification
subscribers over email and SMS.
*/
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/trogers1052/insider-feed/internal/models"
)

// Sender delivers one trade batch over a single channel
type Sender interface {
	Name() string
	Send(ctx context.Context, trades []models.NormalizedTrade) error
}

// Dispatcher fans a trade batch to every configured sender. Senders are
// independent: one failing channel never blocks another.
type Dispatcher struct {
	senders []Sender
}

// NewDispatcher creates a dispatcher over the given senders
func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// Notify delivers the batch to each sender in turn. Every failure is
// logged per channel; the combined error is returned so the caller can
// record the delivery as degraded.
func (d *Dispatcher) Notify(ctx context.Context, trades []models.NormalizedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	var errs []error
	for _, sender := range d.senders {
		if err := sender.Send(ctx, trades); err != nil {
			log.Printf("Notification via %s failed: %v", sender.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", sender.Name(), err))
			continue
		}
		log.Printf("Sent %s notification for %s %s", sender.Name(), trades[0].Ticker, trades[0].AccessionNo)
	}
	return errors.Join(errs...)
}
