// Package stream owns the long-lived websocket connection to the filing
// stream: connect, keepalive, receive, and bounded-retry reconnect.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trogers1052/insider-feed/internal/models"
)

// ErrAttemptsExhausted is returned by Run after the configured number of
// consecutive connection failures.
var ErrAttemptsExhausted = errors.New("stream: reconnection attempts exhausted")

// EventHandler processes a single filing event. Handlers run in their own
// goroutine per event; a handler error is logged and isolated, never
// terminating the connection.
type EventHandler func(ctx context.Context, event models.FilingEvent) error

// Config holds the connection parameters for a Manager.
type Config struct {
	URL           string
	PingInterval  time.Duration // interval between keepalive pings
	PongTimeout   time.Duration // max wait for a pong acknowledgement
	ReconnectWait time.Duration // backoff between connection attempts
	MaxAttempts   int           // consecutive failures before Run gives up
}

// Manager maintains the stream connection and dispatches every received
// filing event to the handler.
type Manager struct {
	cfg      Config
	handler  EventHandler
	dialer   *websocket.Dialer
	inflight sync.WaitGroup
}

// NewManager creates a stream manager. Run must be called to connect.
func NewManager(cfg Config, handler EventHandler) *Manager {
	return &Manager{
		cfg:     cfg,
		handler: handler,
		dialer:  websocket.DefaultDialer,
	}
}

// Run connects to the stream and blocks, reconnecting with a fixed
// backoff on failure. A successful connection resets the retry counter.
// Run returns ErrAttemptsExhausted after MaxAttempts consecutive
// failures, or ctx.Err() once the context is cancelled. Event pipelines
// already dispatched keep running either way; use Wait to drain them.
func (m *Manager) Run(ctx context.Context) error {
	attempts := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, resp, err := m.dialer.DialContext(ctx, m.cfg.URL, nil)
		if err != nil {
			if resp != nil {
				resp.Body.Close()
			}
			attempts++
			log.Printf("Stream connection failed: %v", err)
			if attempts >= m.cfg.MaxAttempts {
				log.Println("Maximum reconnection attempts reached. Stopping stream client.")
				return ErrAttemptsExhausted
			}
			log.Printf("Reconnecting in %s... (attempt %d/%d)", m.cfg.ReconnectWait, attempts, m.cfg.MaxAttempts)
			if err := sleep(ctx, m.cfg.ReconnectWait); err != nil {
				return err
			}
			continue
		}

		log.Printf("Connected to %s", m.cfg.URL)
		attempts = 0

		err = m.serve(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempts++
		log.Printf("Stream connection closed: %v", err)
		if attempts >= m.cfg.MaxAttempts {
			log.Println("Maximum reconnection attempts reached. Stopping stream client.")
			return ErrAttemptsExhausted
		}
		log.Printf("Reconnecting in %s... (attempt %d/%d)", m.cfg.ReconnectWait, attempts, m.cfg.MaxAttempts)
		if err := sleep(ctx, m.cfg.ReconnectWait); err != nil {
			return err
		}
	}
}

// serve runs the connected state: a keepalive goroutine and a receive
// loop, cooperating only through a cancellation signal. It returns once
// either duty fails or ctx is cancelled, after both have stopped.
func (m *Manager) serve(ctx context.Context, conn *websocket.Conn) error {
	keepaliveCtx, cancelKeepalive := context.WithCancel(ctx)
	defer cancelKeepalive()

	pong := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	keepaliveDone := make(chan error, 1)
	go func() {
		keepaliveDone <- m.keepalive(keepaliveCtx, conn, pong)
	}()

	receiveDone := make(chan error, 1)
	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				receiveDone <- err
				return
			}
			m.dispatch(ctx, payload)
		}
	}()

	select {
	case err := <-keepaliveDone:
		// Draining: the keepalive gave up on the connection; closing it
		// unblocks the receive loop.
		conn.Close()
		<-receiveDone
		return err
	case err := <-receiveDone:
		cancelKeepalive()
		<-keepaliveDone
		return err
	case <-ctx.Done():
		cancelKeepalive()
		conn.Close()
		<-receiveDone
		<-keepaliveDone
		return ctx.Err()
	}
}

// keepalive sends a ping every PingInterval and requires a pong within
// PongTimeout. It only writes control frames; the receive loop owns all
// reads, which is where pong frames are processed.
func (m *Manager) keepalive(ctx context.Context, conn *websocket.Conn, pong <-chan struct{}) error {
	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Drop any stale acknowledgement from a previous ping.
			select {
			case <-pong:
			default:
			}

			deadline := time.Now().Add(m.cfg.PongTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return fmt.Errorf("send ping: %w", err)
			}

			select {
			case <-pong:
			case <-time.After(m.cfg.PongTimeout):
				return fmt.Errorf("no pong within %s", m.cfg.PongTimeout)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// dispatch decodes a message as a batch of filing events and hands each
// one to the handler in its own goroutine, so a slow pipeline (e.g. the
// settle delay) never stalls receipt of subsequent messages. Handlers get
// a context detached from the connection lifecycle: reconnects and
// shutdown must not abandon a fan-out mid-write.
func (m *Manager) dispatch(ctx context.Context, payload []byte) {
	var events []models.FilingEvent
	if err := json.Unmarshal(payload, &events); err != nil {
		log.Printf("Failed to decode filing batch: %v", err)
		return
	}

	handlerCtx := context.WithoutCancel(ctx)
	for _, event := range events {
		m.inflight.Add(1)
		go func(ev models.FilingEvent) {
			defer m.inflight.Done()
			if err := m.handler(handlerCtx, ev); err != nil {
				log.Printf("Failed to process filing %s (%s): %v", ev.AccessionNo, ev.Ticker, err)
			}
		}(event)
	}
}

// Wait blocks until all dispatched event pipelines have finished.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
