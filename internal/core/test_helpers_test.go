package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/roomchat-server/internal/auth"
)

// newTestHub starts a hub with an optional admin secret and stops it when the
// test finishes.
func newTestHub(t *testing.T, adminSecret string) *Hub {
	t.Helper()

	var gate *auth.SecretGate
	if adminSecret != "" {
		g, err := auth.NewSecretGate(adminSecret)
		if err != nil {
			t.Fatalf("new secret gate: %v", err)
		}
		gate = g
	}

	hub := NewHub(gate, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()
	c := NewClient(id)
	hub.RegisterClient(c)
	return c
}

func join(c *Client, room, user, password string) {
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room, User: user, Password: password}
}

func say(c *Client, text string) {
	c.Commands <- &Command{Kind: CommandSendMessage, Text: text}
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustMessage waits for a message event whose text contains substr.
func mustMessage(t *testing.T, ch <-chan *Event, substr string) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == EventMessage && strings.Contains(ev.Text, substr) {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected message containing %q not received", substr)
	return nil
}

// assertNoEvent fails the test if an event of the given kind arrives within
// the window. Other kinds are discarded.
func assertNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// waitSnapshot polls the hub's directory until the condition holds.
func waitSnapshot(t *testing.T, hub *Hub, ok func([]RoomSummary) bool) []RoomSummary {
	t.Helper()

	var last []RoomSummary
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		rooms, err := hub.Snapshot(ctx)
		cancel()
		if err == nil {
			last = rooms
			if ok(rooms) {
				return rooms
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("directory never reached expected state, last snapshot: %+v", last)
	return nil
}

func oneRoom(name string, members int, locked bool) func([]RoomSummary) bool {
	return func(rooms []RoomSummary) bool {
		return len(rooms) == 1 && rooms[0].Name == name &&
			rooms[0].Members == members && rooms[0].Locked == locked
	}
}
