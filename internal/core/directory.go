package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/roomchat-server/internal/auth"
)

// roomRecord is the directory's entry for one live room. The name keeps the
// creator's casing for display; matching always goes through roomKey.
type roomRecord struct {
	name         string
	passwordHash string
}

// verifyPassword reports whether candidate opens the room. An unprotected
// room accepts only the empty candidate.
func (rec *roomRecord) verifyPassword(candidate string) bool {
	if rec.passwordHash == "" {
		return candidate == ""
	}
	if candidate == "" {
		return false
	}
	return auth.CompareSecret(rec.passwordHash, candidate) == nil
}

func (rec *roomRecord) locked() bool {
	return rec.passwordHash != ""
}

// roomDirectory tracks room existence and passwords, keyed by folded name. It
// is owned by the hub's run loop together with the connection registry, so
// join/leave reasoning spans both without independent locking.
type roomDirectory struct {
	rooms map[string]*roomRecord
}

func roomKey(name string) string {
	return strings.ToLower(name)
}

func newRoomDirectory() *roomDirectory {
	return &roomDirectory{rooms: make(map[string]*roomRecord)}
}

// getOrCreate resolves name to its record, creating one when unknown. The
// password binds at creation time only; for an existing room the supplied
// password is ignored and the stored one stays authoritative.
func (d *roomDirectory) getOrCreate(name, password string) (rec *roomRecord, created bool, err error) {
	key := roomKey(name)
	if rec, ok := d.rooms[key]; ok {
		return rec, false, nil
	}
	rec = &roomRecord{name: name}
	if password != "" {
		hash, err := auth.HashSecret(password)
		if err != nil {
			return nil, false, fmt.Errorf("hash room password: %w", err)
		}
		rec.passwordHash = hash
	}
	d.rooms[key] = rec
	return rec, true, nil
}

func (d *roomDirectory) get(name string) (*roomRecord, bool) {
	rec, ok := d.rooms[roomKey(name)]
	return rec, ok
}

// deleteIfEmpty removes the record once the caller has confirmed zero members
// remain. Callers run on the hub loop, which excludes a concurrent join
// repopulating the same name.
func (d *roomDirectory) deleteIfEmpty(name string, members int) bool {
	if members != 0 {
		return false
	}
	key := roomKey(name)
	if _, ok := d.rooms[key]; !ok {
		return false
	}
	delete(d.rooms, key)
	return true
}

// snapshot lists all non-blank rooms with live member counts, sorted by
// folded name for deterministic output.
func (d *roomDirectory) snapshot(reg *connRegistry) []RoomSummary {
	rooms := make([]RoomSummary, 0, len(d.rooms))
	for _, rec := range d.rooms {
		if strings.TrimSpace(rec.name) == "" {
			continue
		}
		rooms = append(rooms, RoomSummary{
			Name:    rec.name,
			Members: reg.countIn(rec.name),
			Locked:  rec.locked(),
		})
	}
	sort.Slice(rooms, func(i, j int) bool {
		return roomKey(rooms[i].Name) < roomKey(rooms[j].Name)
	})
	return rooms
}
