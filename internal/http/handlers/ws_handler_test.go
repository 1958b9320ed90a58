package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bruteosaur/backend/internal/config"
	"github.com/bruteosaur/backend/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type nopSubscriber struct{}

func (nopSubscriber) Subscribe(context.Context, string, func(events.Event)) error { return nil }

// overlapConn counts writes that run while another write is still in flight.
type overlapConn struct {
	inFlight int32
	overlaps int32
	writes   int32
}

func (c *overlapConn) WriteMessage(_ int, _ []byte) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestBroadcastSerializesWritesPerConnection(t *testing.T) {
	// The hub subscribes to two streams, so wallet and user events arriving
	// together broadcast from two goroutines. Writes to one connection must
	// never interleave.
	hub := NewWSHub(&config.Config{}, nopSubscriber{}, zap.NewNop())
	conn := &overlapConn{}
	hub.register(uuid.New(), &wsClient{conn: conn})

	const rounds = 20
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				event := events.Event{Type: events.EventWalletConnected}
				if g == 1 {
					event.Type = events.EventUserStatusUpdated
				}
				hub.broadcast(event)
			}
		}(g)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&conn.overlaps); n != 0 {
		t.Errorf("%d concurrent writes hit the same connection", n)
	}
	if n := atomic.LoadInt32(&conn.writes); n != 2*rounds {
		t.Errorf("writes = %d, want %d", n, 2*rounds)
	}
}

func TestUnregisterRemovesConnection(t *testing.T) {
	hub := NewWSHub(&config.Config{}, nopSubscriber{}, zap.NewNop())
	userID := uuid.New()

	first := &wsClient{conn: &overlapConn{}}
	second := &wsClient{conn: &overlapConn{}}
	hub.register(userID, first)
	hub.register(userID, second)

	hub.unregister(userID, first)
	if got := len(hub.connections[userID]); got != 1 {
		t.Fatalf("connections after first unregister = %d, want 1", got)
	}
	if hub.connections[userID][0] != second {
		t.Error("wrong client removed")
	}

	hub.unregister(userID, second)
	if _, ok := hub.connections[userID]; ok {
		t.Error("empty connection list not deleted")
	}
}
