package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin = "join"
	InboundTypeMsg  = "msg"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameMessage    = "message"
	EventNameRoomJoined = "room_joined"
	EventNameKicked     = "kicked"
	EventNameRoomList   = "room_list"
	EventNameHelp       = "help"
)

// JoinData asks to create or join a room under a display name.
type JoinData struct {
	Room     string `json:"room"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
}

// MsgData is chat text or a slash-command from the client. Room and User are
// accepted for client compatibility but ignored; the coordinator's own
// records are authoritative.
type MsgData struct {
	Room string `json:"room,omitempty"`
	User string `json:"user,omitempty"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage carries rendered, html-safe chat or notice text.
type EventMessage struct {
	Room string `json:"room,omitempty"`
	Text string `json:"text"`
}

// EventRoomJoined confirms a successful join to the caller.
type EventRoomJoined struct {
	Room string `json:"room"`
}

// EventKicked tells the client it was forcibly removed from a room.
type EventKicked struct {
	Room string `json:"room"`
}

// RoomEntry is one row of a directory snapshot.
type RoomEntry struct {
	Name     string `json:"name"`
	Members  int    `json:"members"`
	Password bool   `json:"password"`
}

// EventRoomList carries the full directory snapshot.
type EventRoomList struct {
	Rooms []RoomEntry `json:"rooms"`
}

// EventHelp lists the recognized slash-commands.
type EventHelp struct {
	Commands []string `json:"commands"`
}

// Error describes a failure reported privately to one client.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
