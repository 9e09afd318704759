package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage delivers rendered, html-safe chat or notice text to a room.
	EventMessage EventKind = iota
	// EventError reports a validation, conflict, or authorization failure
	// privately to one client.
	EventError
	// EventRoomJoined confirms a successful join to the caller alone.
	EventRoomJoined
	// EventKicked tells a connection it was forcibly removed from a room,
	// distinct from a voluntary departure so clients can react differently.
	EventKicked
	// EventRoomList carries a directory snapshot to every connection.
	EventRoomList
	// EventHelp points the caller at the slash-command reference.
	EventHelp
)

// RoomSummary is one entry of a directory snapshot. Members is always
// computed live from the connection registry, never stored.
type RoomSummary struct {
	Name    string
	Members int
	Locked  bool
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind  EventKind
	Room  string
	Text  string
	Rooms []RoomSummary
	Error *CoreError
}
