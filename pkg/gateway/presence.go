package gateway

import "sync"

// PresenceTable tracks which identities currently have live sessions on
// this gateway instance. It is a derived index over connected sessions,
// not a source of truth: it starts empty and is never persisted.
//
// An identity may be connected from several devices at once, so the table
// maps a user id to the set of its session ids. The identity counts as
// online as long as that set is non-empty.
type PresenceTable struct {
	sessions map[string]map[string]struct{}
	sync.RWMutex
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{
		sessions: make(map[string]map[string]struct{}),
	}
}

// Register adds the (userID, sessionID) pair to the table. It is
// idempotent per pair. The return value reports whether this was the
// identity's first live session, i.e. the user just came online.
func (t *PresenceTable) Register(userID, sessionID string) bool {
	t.Lock()
	defer t.Unlock()

	set, ok := t.sessions[userID]
	if !ok {
		set = make(map[string]struct{})
		t.sessions[userID] = set
	}
	set[sessionID] = struct{}{}

	return !ok
}

// Unregister removes only the given session of the identity. The return
// value reports whether the identity's session set became empty, i.e. the
// user just went offline. Removing an unknown pair is a no-op.
func (t *PresenceTable) Unregister(userID, sessionID string) bool {
	t.Lock()
	defer t.Unlock()

	set, ok := t.sessions[userID]
	if !ok {
		return false
	}

	if _, ok := set[sessionID]; !ok {
		return false
	}

	delete(set, sessionID)
	if len(set) > 0 {
		return false
	}

	delete(t.sessions, userID)
	return true
}

// IsOnline reports whether the identity has at least one live session.
func (t *PresenceTable) IsOnline(userID string) bool {
	t.RLock()
	defer t.RUnlock()

	return len(t.sessions[userID]) > 0
}

// OnlineSnapshot returns the ids of all identities with a live session.
func (t *PresenceTable) OnlineSnapshot() []string {
	t.RLock()
	defer t.RUnlock()

	userIDs := make([]string, 0, len(t.sessions))
	for userID := range t.sessions {
		userIDs = append(userIDs, userID)
	}

	return userIDs
}
