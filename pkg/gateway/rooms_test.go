package gateway

import (
	"sort"
	"testing"
)

func TestRoomJoinAndMembers(t *testing.T) {
	table := NewRoomTable()

	table.Join("sess-a", "room-1")
	table.Join("sess-b", "room-1")
	table.Join("sess-a", "room-1") // joining twice is a no-op

	members := table.MembersOf("room-1")
	sort.Strings(members)
	if len(members) != 2 || members[0] != "sess-a" || members[1] != "sess-b" {
		t.Errorf("Expected members [sess-a sess-b], got %v", members)
	}
}

func TestRoomLeave(t *testing.T) {
	table := NewRoomTable()

	table.Join("sess-a", "room-1")
	table.Join("sess-b", "room-1")
	table.Leave("sess-a", "room-1")

	members := table.MembersOf("room-1")
	if len(members) != 1 || members[0] != "sess-b" {
		t.Errorf("Expected members [sess-b], got %v", members)
	}
}

func TestRoomLeaveUnknownIsNoOp(t *testing.T) {
	table := NewRoomTable()

	table.Join("sess-a", "room-1")
	table.Leave("sess-b", "room-1")
	table.Leave("sess-a", "room-2")

	members := table.MembersOf("room-1")
	if len(members) != 1 || members[0] != "sess-a" {
		t.Errorf("Expected members [sess-a], got %v", members)
	}
}

func TestRoomMembersOfEmptyRoom(t *testing.T) {
	table := NewRoomTable()

	if members := table.MembersOf("room-1"); members != nil {
		t.Errorf("Expected nil members for unknown room, got %v", members)
	}
}

func TestRoomDropSession(t *testing.T) {
	table := NewRoomTable()

	table.Join("sess-a", "room-1")
	table.Join("sess-a", "room-2")
	table.Join("sess-b", "room-1")

	left := table.DropSession("sess-a")
	sort.Strings(left)
	if len(left) != 2 || left[0] != "room-1" || left[1] != "room-2" {
		t.Errorf("Expected dropped rooms [room-1 room-2], got %v", left)
	}

	members := table.MembersOf("room-1")
	if len(members) != 1 || members[0] != "sess-b" {
		t.Errorf("Expected members [sess-b] after drop, got %v", members)
	}
	if members := table.MembersOf("room-2"); members != nil {
		t.Errorf("Expected room-2 to be empty after drop, got %v", members)
	}
}

func TestRoomDropUnknownSession(t *testing.T) {
	table := NewRoomTable()

	if left := table.DropSession("sess-a"); left != nil {
		t.Errorf("Expected no dropped rooms for unknown session, got %v", left)
	}
}
