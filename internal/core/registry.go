package core

import "strings"

// connState is the registry's record for one live connection: its display
// name, current room (canonical display form, empty when not joined), and
// admin flag.
type connState struct {
	client *Client
	name   string
	room   string
	admin  bool
}

// connRegistry maps connection ids to identity and membership state. It is
// owned by the hub's run loop together with the room directory; no method
// takes a lock because all mutation is serialized through that loop.
type connRegistry struct {
	conns map[string]*connState
}

func newConnRegistry() *connRegistry {
	return &connRegistry{conns: make(map[string]*connState)}
}

// ensure returns the record for a connection, creating a blank one when none
// exists.
func (r *connRegistry) ensure(c *Client) *connState {
	if st, ok := r.conns[c.ID]; ok {
		return st
	}
	st := &connState{client: c}
	r.conns[c.ID] = st
	return st
}

func (r *connRegistry) get(id string) (*connState, bool) {
	st, ok := r.conns[id]
	return st, ok
}

// setIdentity records the display name for a connection.
func (r *connRegistry) setIdentity(id, name string) {
	if st, ok := r.conns[id]; ok {
		st.name = name
	}
}

// setRoom rebinds the connection's current room; empty means not joined.
func (r *connRegistry) setRoom(id, room string) {
	if st, ok := r.conns[id]; ok {
		st.room = room
	}
}

func (r *connRegistry) setAdmin(id string) {
	if st, ok := r.conns[id]; ok {
		st.admin = true
	}
}

func (r *connRegistry) isAdmin(id string) bool {
	st, ok := r.conns[id]
	return ok && st.admin
}

// clear wipes a connection's name, room, and admin state and reports the
// last-known values. The record itself stays while the transport connection
// lives, so the connection keeps receiving directory broadcasts. Calling it
// again, or for an unknown id, is a no-op.
func (r *connRegistry) clear(id string) (name, room string, ok bool) {
	st, ok := r.conns[id]
	if !ok {
		return "", "", false
	}
	name, room = st.name, st.room
	st.name = ""
	st.room = ""
	st.admin = false
	return name, room, true
}

// drop deletes the connection record entirely; used when the transport
// connection goes away.
func (r *connRegistry) drop(id string) {
	delete(r.conns, id)
}

// lookupByName finds the connection holding name within room. The name
// comparison is case-insensitive and scoped to the given room.
func (r *connRegistry) lookupByName(room, name string) (*connState, bool) {
	for _, st := range r.conns {
		if st.room != "" && strings.EqualFold(st.room, room) && strings.EqualFold(st.name, name) {
			return st, true
		}
	}
	return nil, false
}

// membersOf returns the states of all connections currently in room.
func (r *connRegistry) membersOf(room string) []*connState {
	var members []*connState
	for _, st := range r.conns {
		if st.room != "" && strings.EqualFold(st.room, room) {
			members = append(members, st)
		}
	}
	return members
}

// countIn returns the number of connections currently in room.
func (r *connRegistry) countIn(room string) int {
	n := 0
	for _, st := range r.conns {
		if st.room != "" && strings.EqualFold(st.room, room) {
			n++
		}
	}
	return n
}

// all returns every live connection state, joined or not.
func (r *connRegistry) all() []*connState {
	states := make([]*connState, 0, len(r.conns))
	for _, st := range r.conns {
		states = append(states, st)
	}
	return states
}
