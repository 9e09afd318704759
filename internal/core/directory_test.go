package core

import (
	"strings"
	"testing"
)

func TestGetOrCreateFirstWriterWins(t *testing.T) {
	dir := newRoomDirectory()

	rec, created, err := dir.getOrCreate("VIP", "secret")
	if err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}
	if !rec.locked() {
		t.Fatal("expected room to be locked")
	}

	// Case-insensitive match, later password ignored.
	again, created, err := dir.getOrCreate("vip", "other")
	if err != nil || created {
		t.Fatalf("second resolve: created=%v err=%v", created, err)
	}
	if again != rec {
		t.Fatal("expected the same record")
	}
	if !again.verifyPassword("secret") || again.verifyPassword("other") {
		t.Fatal("stored password must stay authoritative")
	}
	if again.name != "VIP" {
		t.Fatalf("display casing lost: %q", again.name)
	}
}

func TestVerifyPasswordEmptyMatchesEmpty(t *testing.T) {
	dir := newRoomDirectory()
	rec, _, err := dir.getOrCreate("open", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !rec.verifyPassword("") {
		t.Error("unprotected room must accept the empty password")
	}
	if rec.verifyPassword("anything") {
		t.Error("unprotected room must reject non-empty candidates")
	}
}

func TestRoomPasswordLengthUnbounded(t *testing.T) {
	dir := newRoomDirectory()
	long := strings.Repeat("p", 100)

	rec, created, err := dir.getOrCreate("vault", long)
	if err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}
	if !rec.verifyPassword(long) {
		t.Error("long password must verify")
	}
	if rec.verifyPassword(long[:72]) {
		t.Error("prefix of a long password must not verify")
	}
}

func TestDeleteIfEmpty(t *testing.T) {
	dir := newRoomDirectory()
	if _, _, err := dir.getOrCreate("lobby", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if dir.deleteIfEmpty("lobby", 2) {
		t.Fatal("room with members must not be deleted")
	}
	if _, ok := dir.get("lobby"); !ok {
		t.Fatal("room vanished despite members")
	}

	if !dir.deleteIfEmpty("LOBBY", 0) {
		t.Fatal("empty room should be deleted")
	}
	if dir.deleteIfEmpty("lobby", 0) {
		t.Fatal("second delete should be a no-op")
	}
}

func TestSnapshotSkipsBlankNamesAndCountsLive(t *testing.T) {
	dir := newRoomDirectory()
	reg := newConnRegistry()

	if _, _, err := dir.getOrCreate("lobby", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := dir.getOrCreate("  ", ""); err != nil {
		t.Fatalf("create blank: %v", err)
	}

	a := reg.ensure(NewClient("a"))
	a.name, a.room = "alice", "lobby"
	b := reg.ensure(NewClient("b"))
	b.name, b.room = "bob", "lobby"

	rooms := dir.snapshot(reg)
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %+v", rooms)
	}
	if rooms[0].Members != 2 {
		t.Fatalf("expected 2 members, got %d", rooms[0].Members)
	}
}
