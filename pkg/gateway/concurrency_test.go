package gateway

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/nsyszr/chatline/pkg/auth"
	"github.com/nsyszr/chatline/pkg/gateway/proto"
)

// Exercises the shared presence and room tables from many independent
// connection lifecycles at once. Run with -race. Every session walks the
// full activate/join/send/leave/close path, several sessions share one
// identity and rooms overlap, so first/last presence transitions and the
// membership reverse index are hit concurrently from all sides.
func TestConcurrentSessionLifecycles(t *testing.T) {
	const (
		numSessions = 50
		numUsers    = 10
		numRooms    = 5
	)

	ctrl := NewController(nil)

	var wg sync.WaitGroup
	for i := 0; i < numSessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			userID := fmt.Sprintf("user-%d", i%numUsers)
			roomID := fmt.Sprintf("room-%d", i%numRooms)

			// Outbox pushes never block, a generous buffer only keeps
			// the drop path out of this test's way.
			outbox := make(chan *Frame, 256)

			sess := ctrl.NewSession(outbox)
			sess.Activate(auth.Identity{UserID: userID, Username: userID})

			sess.HandleEvent([]byte(fmt.Sprintf(
				`{"event":"join-room","data":{"roomId":"%s"}}`, roomID)))
			sess.HandleEvent([]byte(fmt.Sprintf(
				`{"event":"send-message","data":{"roomId":"%s","content":"hello","senderId":"%s"}}`,
				roomID, userID)))
			sess.HandleEvent([]byte(fmt.Sprintf(
				`{"event":"typing","data":{"roomId":"%s","isTyping":true}}`, roomID)))
			sess.HandleEvent([]byte(fmt.Sprintf(
				`{"event":"leave-room","data":{"roomId":"%s"}}`, roomID)))

			sess.Close()
		}(i)
	}
	wg.Wait()

	if online := ctrl.Presence().OnlineSnapshot(); len(online) != 0 {
		t.Errorf("Expected empty presence table after all sessions closed, got %v", online)
	}
	for i := 0; i < numRooms; i++ {
		roomID := fmt.Sprintf("room-%d", i)
		if members := ctrl.rooms.MembersOf(roomID); members != nil {
			t.Errorf("Expected no members left in %s, got %v", roomID, members)
		}
	}

	ctrl.RLock()
	remaining := len(ctrl.sessions)
	ctrl.RUnlock()
	if remaining != 0 {
		t.Errorf("Expected empty session registry after all sessions closed, got %d entries", remaining)
	}
}

// Two devices of one identity churn while an observer stays connected.
// The observer must never see the user flap offline while a device
// remains, regardless of interleaving.
func TestConcurrentMultiDeviceChurn(t *testing.T) {
	const rounds = 20

	ctrl := NewController(nil)

	observerOut := make(chan *Frame, 256)
	observer := ctrl.NewSession(observerOut)
	observer.Activate(auth.Identity{UserID: "observer", Username: "observer"})

	// Keep one device of user-1 connected for the whole test
	anchorOut := make(chan *Frame, 256)
	anchor := ctrl.NewSession(anchorOut)
	anchor.Activate(auth.Identity{UserID: "user-1", Username: "alice"})
	drainFrames(observerOut)

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			outbox := make(chan *Frame, 256)
			sess := ctrl.NewSession(outbox)
			sess.Activate(auth.Identity{UserID: "user-1", Username: "alice"})
			sess.Close()
		}()
	}
	wg.Wait()

	if !ctrl.Presence().IsOnline("user-1") {
		t.Fatal("Expected user-1 to stay online while the anchor device is connected")
	}

	drainFrames(observerOut)
	anchor.Close()

	data := expectFrame(t, observerOut, proto.EventTypeUserOffline)
	var ev proto.UserOfflineEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Failed to decode user-offline payload: %v", err)
	}
	if ev.UserID != "user-1" {
		t.Errorf("Expected user-offline for user-1, got %s", ev.UserID)
	}
	expectNoFrame(t, observerOut, "after the single offline announcement")
}
