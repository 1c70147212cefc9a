package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/trogers1052/insider-feed/internal/models"
)

// DetailFetcher fetches the full filing document for an accession number.
// A nil document with a nil error means the provider has no match.
type DetailFetcher interface {
	LatestByAccessionNo(ctx context.Context, accessionNo string) (*models.FilingDocument, error)
}

// Pipeline runs one stream event through classification, detail fetch,
// officer filtering, extraction, and fan-out. Each event is handled
// independently; the stream manager runs HandleEvent in its own goroutine.
type Pipeline struct {
	fetcher     DetailFetcher
	filter      *OfficerFilter
	extractor   *Extractor
	fanout      *Fanout
	settleDelay time.Duration
}

// NewPipeline creates a pipeline. The settle delay is the wait before the
// detail fetch, covering the provider index's ingestion lag.
func NewPipeline(fetcher DetailFetcher, filter *OfficerFilter, extractor *Extractor, fanout *Fanout, settleDelay time.Duration) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		filter:      filter,
		extractor:   extractor,
		fanout:      fanout,
		settleDelay: settleDelay,
	}
}

// HandleEvent processes a single stream event end to end. Only a detail
// fetch failure is returned as an error; filter rejections and empty
// extractions are routine and logged here. The stream will not resend
// this event, so a fetch failure is a permanent miss for this filing.
func (p *Pipeline) HandleEvent(ctx context.Context, event models.FilingEvent) error {
	if !IsCandidate(event) {
		return nil
	}

	runID := shortID()
	log.Printf("[%s] Got a form %s filing for %s (%s), accessionNo %s",
		runID, event.FormType, event.Ticker, event.CompanyName, event.AccessionNo)

	// Let the detail provider's index catch up with the announcement.
	select {
	case <-time.After(p.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	doc, err := p.fetcher.LatestByAccessionNo(ctx, event.AccessionNo)
	if err != nil {
		return fmt.Errorf("detail fetch for accessionNo %s (%s): %w", event.AccessionNo, event.Ticker, err)
	}
	if doc == nil {
		log.Printf("[%s] No filing found for accessionNo %s (%s)", runID, event.AccessionNo, event.Ticker)
		return nil
	}

	if ok, reason := p.filter.Accept(doc); !ok {
		log.Printf("[%s] Skipping %s: %s", runID, event.Ticker, reason)
		return nil
	}

	trades := p.extractor.ExtractTrades(doc)
	if len(trades) == 0 {
		log.Printf("[%s] No purchase or sale transactions in accessionNo %s", runID, event.AccessionNo)
		return nil
	}

	// The stream event's detail link is fresher than the document's.
	if event.Link != "" {
		for i := range trades {
			trades[i].Link = event.Link
		}
	}

	log.Printf("[%s] Found a CEO trade: extracted %d record(s) for %s", runID, len(trades), event.Ticker)
	p.fanout.Publish(ctx, event.AccessionNo, trades)
	return nil
}

// shortID returns a compact correlation id for log lines of one event run.
func shortID() string {
	return uuid.NewString()[:8]
}
