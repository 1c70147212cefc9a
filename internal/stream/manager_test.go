package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trogers1052/insider-feed/internal/models"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func runManager(t *testing.T, m *Manager, ctx context.Context) chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	return done
}

func waitStopped(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop in time")
		return nil
	}
}

func TestManagerDispatchesFilingBatches(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		batch := `[
			{"formType":"4","ticker":"TSLA","companyName":"Tesla, Inc.","accessionNo":"acc-1"},
			{"formType":"8-K","ticker":"IBM","accessionNo":"acc-2"}
		]`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(batch)); err != nil {
			return
		}
		// Keep reading so control frames are serviced until the client leaves.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	received := make(chan models.FilingEvent, 4)
	m := NewManager(Config{
		URL:           wsURL(srv),
		PingInterval:  time.Hour, // keepalive quiet for this test
		PongTimeout:   time.Second,
		ReconnectWait: 10 * time.Millisecond,
		MaxAttempts:   3,
	}, func(ctx context.Context, event models.FilingEvent) error {
		received <- event
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runManager(t, m, ctx)

	// Every event in the batch reaches the handler; classification is the
	// pipeline's job, not the connection manager's.
	got := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case event := <-received:
			got[event.AccessionNo] = true
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for dispatched events")
		}
	}
	if !got["acc-1"] || !got["acc-2"] {
		t.Fatalf("expected both events dispatched, got %v", got)
	}

	cancel()
	if err := waitStopped(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	m.Wait()
}

func TestManagerStopsAfterExhaustedAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := wsURL(srv)
	srv.Close() // every dial now fails

	var calls int
	m := NewManager(Config{
		URL:           url,
		PingInterval:  time.Hour,
		PongTimeout:   time.Second,
		ReconnectWait: time.Millisecond,
		MaxAttempts:   3,
	}, func(ctx context.Context, event models.FilingEvent) error {
		calls++
		return nil
	})

	done := runManager(t, m, context.Background())
	if err := waitStopped(t, done); !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no events should be dispatched without a connection")
	}
}

func TestManagerIsolatesHandlerFailures(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`[{"formType":"4","accessionNo":"bad-1"}]`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`[{"formType":"4","accessionNo":"good-2"}]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	received := make(chan string, 4)
	m := NewManager(Config{
		URL:           wsURL(srv),
		PingInterval:  time.Hour,
		PongTimeout:   time.Second,
		ReconnectWait: 10 * time.Millisecond,
		MaxAttempts:   3,
	}, func(ctx context.Context, event models.FilingEvent) error {
		received <- event.AccessionNo
		if event.AccessionNo == "bad-1" {
			return errors.New("processing failed")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runManager(t, m, ctx)

	// Both a handler error and an undecodable message leave the
	// connection receiving subsequent batches.
	got := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case acc := <-received:
			got[acc] = true
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out, got %v so far", got)
		}
	}
	if !got["bad-1"] || !got["good-2"] {
		t.Fatalf("expected events around the failure, got %v", got)
	}

	cancel()
	waitStopped(t, done)
	m.Wait()
}

func TestKeepaliveTimeoutForcesReconnect(t *testing.T) {
	var mu sync.Mutex
	conns := 0

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		mu.Lock()
		conns++
		n := conns
		mu.Unlock()

		if n == 1 {
			// Swallow pings so the client's keepalive times out.
			conn.SetPingHandler(func(string) error { return nil })
			conn.WriteMessage(websocket.TextMessage, []byte(`[{"formType":"4","ticker":"AAPL","accessionNo":"slow-1"}]`))
		} else {
			conn.WriteMessage(websocket.TextMessage, []byte(`[{"formType":"4","ticker":"MSFT","accessionNo":"fast-2"}]`))
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	release := make(chan struct{})
	received := make(chan string, 4)
	m := NewManager(Config{
		URL:           wsURL(srv),
		PingInterval:  30 * time.Millisecond,
		PongTimeout:   50 * time.Millisecond,
		ReconnectWait: time.Millisecond,
		MaxAttempts:   5,
	}, func(ctx context.Context, event models.FilingEvent) error {
		if event.AccessionNo == "slow-1" {
			// Still in flight when the first connection is drained.
			<-release
		}
		received <- event.AccessionNo
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runManager(t, m, ctx)

	// The keepalive failure must drain the first connection and reconnect.
	select {
	case acc := <-received:
		if acc != "fast-2" {
			t.Fatalf("expected the reconnected session's event first, got %q", acc)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not reconnect after keepalive timeout")
	}

	mu.Lock()
	if conns < 2 {
		mu.Unlock()
		t.Fatalf("expected at least 2 connections, got %d", conns)
	}
	mu.Unlock()

	// The pipeline dispatched on the dropped connection still completes.
	close(release)
	select {
	case acc := <-received:
		if acc != "slow-1" {
			t.Fatalf("expected the in-flight event to finish, got %q", acc)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("in-flight pipeline was lost across the reconnect")
	}

	cancel()
	waitStopped(t, done)
	m.Wait()
}
