package gateway

import "testing"

func TestPresenceRegisterFirstSession(t *testing.T) {
	table := NewPresenceTable()

	if !table.Register("user-1", "sess-a") {
		t.Error("Expected first session to report user coming online")
	}
	if !table.IsOnline("user-1") {
		t.Error("Expected user to be online after register")
	}
}

func TestPresenceRegisterSecondDevice(t *testing.T) {
	table := NewPresenceTable()

	table.Register("user-1", "sess-a")
	if table.Register("user-1", "sess-b") {
		t.Error("Expected second session not to report user coming online")
	}
}

func TestPresenceRegisterIdempotentPerPair(t *testing.T) {
	table := NewPresenceTable()

	table.Register("user-1", "sess-a")
	if table.Register("user-1", "sess-a") {
		t.Error("Expected repeated register of same pair not to report online")
	}
	if table.Unregister("user-1", "sess-a") != true {
		t.Error("Expected single unregister to report user going offline")
	}
}

func TestPresenceUnregisterLastSessionWins(t *testing.T) {
	table := NewPresenceTable()

	table.Register("user-1", "sess-a")
	table.Register("user-1", "sess-b")

	if table.Unregister("user-1", "sess-a") {
		t.Error("Expected user to stay online while another session remains")
	}
	if !table.IsOnline("user-1") {
		t.Error("Expected user to be online with one session left")
	}

	if !table.Unregister("user-1", "sess-b") {
		t.Error("Expected removing the last session to report user going offline")
	}
	if table.IsOnline("user-1") {
		t.Error("Expected user to be offline after last session left")
	}
}

func TestPresenceUnregisterUnknownPair(t *testing.T) {
	table := NewPresenceTable()

	if table.Unregister("user-1", "sess-a") {
		t.Error("Expected unregister of unknown user to be a no-op")
	}

	table.Register("user-1", "sess-a")
	if table.Unregister("user-1", "sess-b") {
		t.Error("Expected unregister of unknown session to be a no-op")
	}
	if !table.IsOnline("user-1") {
		t.Error("Expected user to stay online after no-op unregister")
	}
}

func TestPresenceOnlineSnapshot(t *testing.T) {
	table := NewPresenceTable()

	table.Register("user-1", "sess-a")
	table.Register("user-1", "sess-b")
	table.Register("user-2", "sess-c")

	snapshot := table.OnlineSnapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 online users, got %d", len(snapshot))
	}

	seen := make(map[string]bool)
	for _, userID := range snapshot {
		seen[userID] = true
	}
	if !seen["user-1"] || !seen["user-2"] {
		t.Errorf("Expected snapshot to contain user-1 and user-2, got %v", snapshot)
	}
}
