package gateway

import "sync"

// RoomTable is the in-memory room membership index. A room identifier is
// an opaque conversation id, rooms are not stored entities: membership is
// derived entirely from the sessions that joined them.
//
// The table keeps a reverse index so that tearing down a session does not
// require scanning every room.
type RoomTable struct {
	members map[string]map[string]struct{}
	joined  map[string]map[string]struct{}
	sync.RWMutex
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		members: make(map[string]map[string]struct{}),
		joined:  make(map[string]map[string]struct{}),
	}
}

// Join adds the session to the room. Joining twice is a no-op.
func (t *RoomTable) Join(sessionID, roomID string) {
	t.Lock()
	defer t.Unlock()

	if t.members[roomID] == nil {
		t.members[roomID] = make(map[string]struct{})
	}
	t.members[roomID][sessionID] = struct{}{}

	if t.joined[sessionID] == nil {
		t.joined[sessionID] = make(map[string]struct{})
	}
	t.joined[sessionID][roomID] = struct{}{}
}

// Leave removes the session from the room. Leaving a room the session is
// not a member of is a no-op, not an error.
func (t *RoomTable) Leave(sessionID, roomID string) {
	t.Lock()
	defer t.Unlock()

	t.leave(sessionID, roomID)
}

func (t *RoomTable) leave(sessionID, roomID string) {
	if set, ok := t.members[roomID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(t.members, roomID)
		}
	}

	if set, ok := t.joined[sessionID]; ok {
		delete(set, roomID)
		if len(set) == 0 {
			delete(t.joined, sessionID)
		}
	}
}

// MembersOf returns the ids of all sessions currently joined to the room.
func (t *RoomTable) MembersOf(roomID string) []string {
	t.RLock()
	defer t.RUnlock()

	set := t.members[roomID]
	if len(set) == 0 {
		return nil
	}

	sessionIDs := make([]string, 0, len(set))
	for sessionID := range set {
		sessionIDs = append(sessionIDs, sessionID)
	}

	return sessionIDs
}

// DropSession removes the session from every room it belongs to and
// returns the ids of the rooms it left. Called once on session teardown
// so no dangling membership survives a disconnect.
func (t *RoomTable) DropSession(sessionID string) []string {
	t.Lock()
	defer t.Unlock()

	set := t.joined[sessionID]
	if len(set) == 0 {
		return nil
	}

	roomIDs := make([]string, 0, len(set))
	for roomID := range set {
		roomIDs = append(roomIDs, roomID)
	}

	for _, roomID := range roomIDs {
		t.leave(sessionID, roomID)
	}

	return roomIDs
}
