package http

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func TestRateLimiterAllowance(t *testing.T) {
	limiter := newRateLimiter(2)
	if !limiter.allow() || !limiter.allow() {
		t.Fatal("first two messages must pass")
	}
	if limiter.allow() {
		t.Fatal("third message must be limited")
	}

	unlimited := newRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !unlimited.allow() {
			t.Fatal("zero limit must disable limiting")
		}
	}
}

// The counter is written both by the read loop and the reset goroutine; this
// exercises both sides together so the race detector can check them.
func TestRateLimiterConcurrentUse(t *testing.T) {
	limiter := newRateLimiter(1000)
	stop := make(chan struct{})
	limiter.startReset(stop)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				limiter.allow()
			}
		}()
	}
	wg.Wait()
	close(stop)

	if limiter.allow() {
		t.Fatal("limit must be exhausted after 1000 messages")
	}
}

func TestWebSocketRateLimitSurfacesError(t *testing.T) {
	disabledLogger := zerolog.Nop()
	hub := core.NewHub(nil, &disabledLogger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.MessageRateLimit = 1

	server := NewServer(hub, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()

	conn := dial(t, dialCtx, ts)
	if err := sendJoin(dialCtx, conn, "general", "alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	readUntilEvent(t, dialCtx, conn, proto.EventNameRoomJoined)

	if err := sendMsg(dialCtx, conn, "first"); err != nil {
		t.Fatalf("send first: %v", err)
	}
	if err := sendMsg(dialCtx, conn, "second"); err != nil {
		t.Fatalf("send second: %v", err)
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(dialCtx, conn, &outbound); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if outbound.Type == proto.OutboundTypeError {
			if outbound.Error == nil || outbound.Error.Code != core.ErrCodeRateLimited {
				t.Fatalf("unexpected error payload: %+v", outbound.Error)
			}
			return
		}
	}
}
