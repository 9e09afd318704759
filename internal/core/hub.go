package core

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/auth"
)

const adminBadge = "<span class='admin-badge'>ADMIN</span> "

// Hub coordinates connection identity, room membership, and presence fan-out.
// A single run loop owns both the connection registry and the room directory,
// so every compound check-then-mutate sequence (password check, nickname
// uniqueness, membership commit) executes without an interleaving mutation.
type Hub struct {
	registry  *connRegistry
	directory *roomDirectory
	admin     *auth.SecretGate

	register   chan *Client
	unregister chan *Client
	requests   chan request
	snapshots  chan snapshotRequest
	done       chan struct{}

	log *zerolog.Logger
}

type request struct {
	client *Client
	cmd    *Command
}

type snapshotRequest struct {
	reply chan []RoomSummary
}

// NewHub creates a hub. A nil admin gate disables the elevation command
// entirely; attempts then fail the same silent way a wrong secret does.
func NewHub(admin *auth.SecretGate, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   newConnRegistry(),
		directory:  newRoomDirectory(),
		admin:      admin,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan request),
		snapshots:  make(chan snapshotRequest),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient triggers best-effort cleanup for a disconnecting client.
// It never fails, even when the connection already left or was kicked.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Snapshot returns a point-in-time view of the room directory, observed from
// inside the run loop.
func (h *Hub) Snapshot(ctx context.Context) ([]RoomSummary, error) {
	req := snapshotRequest{reply: make(chan []RoomSummary, 1)}
	select {
	case h.snapshots <- req:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case rooms := <-req.reply:
		return rooms, nil
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes registrations, commands, and queries until ctx is canceled.
// It is the single coordination point for all registry and directory state.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registry.ensure(c)
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.leave(c.ID)
			h.registry.drop(c.ID)
		case req := <-h.requests:
			h.dispatch(req.client, req.cmd)
		case sr := <-h.snapshots:
			sr.reply <- h.directory.snapshot(h.registry)
		}
	}
}

// pump forwards one client's commands into the hub's serialized request lane.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.requests <- request{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for _, st := range h.registry.all() {
		close(st.client.Events)
	}
	h.registry = newConnRegistry()
	h.directory = newRoomDirectory()
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		h.join(c, cmd.Room, cmd.User, cmd.Password)
	case CommandSendMessage:
		h.message(c, cmd.Text)
	}
}

// join implements create-or-join: validation, departure from the previous
// room, password and nickname checks against the target, then commit.
func (h *Hub) join(c *Client, roomName, userName, password string) {
	roomName = strings.TrimSpace(roomName)
	userName = strings.TrimSpace(userName)
	if roomName == "" {
		h.notifyError(c, ErrCodeBadRequest, "room name cannot be empty")
		return
	}
	if userName == "" {
		h.notifyError(c, ErrCodeBadRequest, "user name cannot be empty")
		return
	}

	st := h.registry.ensure(c)

	if st.room != "" && strings.EqualFold(st.room, roomName) {
		h.notifyError(c, ErrCodeAlreadyInRoom, "you are already in this room")
		return
	}

	// Departure from the old room happens before the target room's checks, so
	// a join that fails the password leaves the caller in no room at all.
	// Observable client behavior, kept as-is. The notice carries the name the
	// caller supplied with this join, not the previously registered one.
	if old := st.room; old != "" {
		h.registry.setRoom(c.ID, "")
		h.notifyRoom(old, fmt.Sprintf("<em>%s left.</em>", html.EscapeString(userName)))
		h.directory.deleteIfEmpty(old, h.registry.countIn(old))
	}

	rec, created, err := h.directory.getOrCreate(roomName, password)
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("room", roomName).Msg("create room")
		h.notifyError(c, ErrCodeBadRequest, "could not create room")
		return
	}
	if !created {
		if !rec.verifyPassword(password) {
			h.notifyError(c, ErrCodeWrongPassword, "wrong room password")
			return
		}
		if _, taken := h.registry.lookupByName(rec.name, userName); taken {
			h.notifyError(c, ErrCodeNameTaken, "that name is already in use")
			return
		}
	}

	h.registry.setIdentity(c.ID, userName)
	h.registry.setRoom(c.ID, rec.name)
	h.notifyRoom(rec.name, fmt.Sprintf("<em>%s joined!</em>", html.EscapeString(userName)))
	h.broadcastRoomList()
	h.send(c, &Event{Kind: EventRoomJoined, Room: rec.name})

	h.log.Debug().Str("conn_id", c.ID).Str("room", rec.name).Str("user", userName).Msg("joined room")
}

// leave is the single removal path for voluntary disconnects and kicks. It
// removes the connection's name, room, and admin state, notifies the vacated
// room, drops the room when it becomes empty, and pushes a fresh directory
// snapshot. Unknown or already-removed ids are ignored.
func (h *Hub) leave(connID string) {
	name, room, ok := h.registry.clear(connID)
	if !ok || room == "" {
		return
	}
	if name == "" {
		name = "a user"
	}
	h.notifyRoom(room, fmt.Sprintf("<em>%s left.</em>", html.EscapeString(name)))
	h.directory.deleteIfEmpty(room, h.registry.countIn(room))
	h.broadcastRoomList()

	h.log.Debug().Str("conn_id", connID).Str("room", room).Msg("left room")
}

// message broadcasts chat text to the sender's current room, or routes
// slash-commands. Blank text is dropped without any response.
func (h *Hub) message(c *Client, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if cmd, ok := parseSlash(text); ok {
		h.runCommand(c, cmd)
		return
	}

	st, ok := h.registry.get(c.ID)
	if !ok || st.room == "" {
		return
	}

	badge := ""
	if st.admin {
		badge = adminBadge
	}
	h.notifyRoom(st.room, fmt.Sprintf("%s<strong>%s</strong>: %s",
		badge, html.EscapeString(st.name), html.EscapeString(text)))
}

// runCommand dispatches a parsed slash-command. Wrong admin secrets,
// non-admin kicks, and missing kick targets all fail without any response;
// malformed or unknown commands get the generic help notice.
func (h *Hub) runCommand(c *Client, cmd slashCommand) {
	st, ok := h.registry.get(c.ID)
	if !ok {
		return
	}

	switch cmd.name {
	case "admin":
		if cmd.arg == "" {
			h.send(c, &Event{Kind: EventHelp})
			return
		}
		if h.admin == nil || !h.admin.Verify(cmd.arg) {
			return
		}
		h.registry.setAdmin(c.ID)
		h.send(c, &Event{Kind: EventMessage, Text: "<em>admin privileges granted</em>"})
		h.log.Info().Str("conn_id", c.ID).Msg("admin elevation granted")

	case "kick":
		if cmd.arg == "" {
			h.send(c, &Event{Kind: EventHelp})
			return
		}
		if !h.registry.isAdmin(c.ID) || st.room == "" {
			return
		}
		target, found := h.registry.lookupByName(st.room, cmd.arg)
		if !found {
			return
		}
		room := st.room
		victim := target.client
		h.leave(victim.ID)
		h.send(victim, &Event{Kind: EventKicked, Room: room})
		h.log.Info().Str("conn_id", c.ID).Str("target", victim.ID).Str("room", room).Msg("kicked user")

	case "nick":
		if cmd.arg == "" {
			h.send(c, &Event{Kind: EventHelp})
			return
		}
		// The new name is not checked against the room's other members; a
		// rename may collide where a join would have been rejected.
		old := st.name
		h.registry.setIdentity(c.ID, cmd.arg)
		if st.room != "" {
			h.notifyRoom(st.room, fmt.Sprintf("<em>%s is now %s</em>",
				html.EscapeString(old), html.EscapeString(cmd.arg)))
		}

	default:
		h.send(c, &Event{Kind: EventHelp})
	}
}

// notifyRoom delivers text to every connection currently mapped to room.
func (h *Hub) notifyRoom(room, text string) {
	ev := &Event{Kind: EventMessage, Room: room, Text: text}
	for _, st := range h.registry.membersOf(room) {
		h.send(st.client, ev)
	}
}

// broadcastRoomList pushes the current directory snapshot to every
// connection, joined or not.
func (h *Hub) broadcastRoomList() {
	ev := &Event{Kind: EventRoomList, Rooms: h.directory.snapshot(h.registry)}
	for _, st := range h.registry.all() {
		h.send(st.client, ev)
	}
}

func (h *Hub) notifyError(c *Client, code, msg string) {
	h.send(c, &Event{Kind: EventError, Error: coreError(code, msg)})
}

// send never blocks; a consumer that cannot keep up loses events.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Msg("dropping event for slow consumer")
	}
}
