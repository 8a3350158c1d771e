package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nsyszr/chatline/pkg/gateway/proto"
	log "github.com/sirupsen/logrus"
)

// SubjectUserStatus carries ONLINE/OFFLINE status events for other
// services (e.g. the REST tier updating last-seen timestamps).
const SubjectUserStatus = "chatline.gateway.v1.status"

// SubjectFanOutRequest is the queue subject on which the REST tier asks
// the gateway to fan a persisted message out to a room.
const SubjectFanOutRequest = "chatline.gateway.v1.fanout"

// Controller owns the shared gateway state: the registry of live
// sessions, the presence table and the room membership index. It is
// constructed once at gateway startup and handed to the connection
// lifecycle, it carries no process-global state.
type Controller struct {
	sync.RWMutex
	nc       *nats.Conn
	presence *PresenceTable
	rooms    *RoomTable
	sessions map[string]*Session
}

func NewController(nc *nats.Conn) *Controller {
	return &Controller{
		nc:       nc,
		presence: NewPresenceTable(),
		rooms:    NewRoomTable(),
		sessions: make(map[string]*Session),
	}
}

// Presence exposes the presence table, e.g. for the admin API.
func (ctrl *Controller) Presence() *PresenceTable {
	return ctrl.presence
}

// NewSession wires a session for a fresh connection. The session is not
// registered until it is activated with a verified identity.
func (ctrl *Controller) NewSession(outbox chan<- *Frame) *Session {
	return newSession(ctrl, outbox)
}

// RegisterSession adds an authenticated session to the registry and the
// presence table. If this is the identity's first live session all other
// active sessions are told that the user came online.
func (ctrl *Controller) RegisterSession(sess *Session) {
	ctrl.Lock()
	ctrl.sessions[sess.id] = sess
	ctrl.Unlock()

	identity := sess.Identity()
	first := ctrl.presence.Register(identity.UserID, sess.id)

	log.Infof("gateway registered session %s for user '%s'", sess.id, identity.UserID)

	if !first {
		return
	}

	out, err := proto.MarshalNewUserOnlineEvent(identity.UserID)
	if err != nil {
		log.Errorf("gateway could not marshal message: %s", err.Error())
		return
	}
	ctrl.broadcastToAll(sess.id, out)

	if err := ctrl.publishUserStatus(identity.UserID, sess.id, "ONLINE"); err != nil {
		log.Errorf("gateway could not publish user status: %v", err)
	}
}

// UnregisterSession removes a session from the registry, clears its room
// memberships and its presence entry. Calling it for an unknown session
// is a no-op, so teardown stays idempotent. The user-offline broadcast is
// sent only when the identity's last session went away: a multi-device
// user does not appear offline while another device remains connected.
func (ctrl *Controller) UnregisterSession(sess *Session) {
	ctrl.Lock()
	_, ok := ctrl.sessions[sess.id]
	if ok {
		delete(ctrl.sessions, sess.id)
	}
	ctrl.Unlock()

	if !ok {
		return
	}

	ctrl.rooms.DropSession(sess.id)

	identity := sess.Identity()
	last := ctrl.presence.Unregister(identity.UserID, sess.id)

	log.Infof("gateway unregistered session %s for user '%s'", sess.id, identity.UserID)

	if !last {
		return
	}

	out, err := proto.MarshalNewUserOfflineEvent(identity.UserID)
	if err != nil {
		log.Errorf("gateway could not marshal message: %s", err.Error())
		return
	}
	ctrl.broadcastToAll(sess.id, out)

	if err := ctrl.publishUserStatus(identity.UserID, sess.id, "OFFLINE"); err != nil {
		log.Errorf("gateway could not publish user status: %v", err)
	}
}

// JoinRoom adds the session to the room membership index.
func (ctrl *Controller) JoinRoom(sess *Session, roomID string) {
	ctrl.rooms.Join(sess.id, roomID)
	log.Infof("gateway session %s joined room '%s'", sess.id, roomID)
}

// LeaveRoom removes the session from the room membership index.
func (ctrl *Controller) LeaveRoom(sess *Session, roomID string) {
	ctrl.rooms.Leave(sess.id, roomID)
	log.Infof("gateway session %s left room '%s'", sess.id, roomID)
}

// FanOutMessage delivers receive-message to every other member session
// of the room and acknowledges the originating session with message-sent.
// The timestamp is assigned here so all recipients share one ordering
// reference per event.
func (ctrl *Controller) FanOutMessage(sender *Session, ev *proto.SendMessageEvent) error {
	timestamp := time.Now().Round(time.Millisecond).UTC()

	out, err := proto.MarshalNewReceiveMessageEvent(ev.RoomID, ev.Content, ev.SenderID, timestamp)
	if err != nil {
		return err
	}
	delivered := ctrl.broadcastToRoom(ev.RoomID, sender.id, out)

	ack, err := proto.MarshalNewMessageSentEvent(ev.RoomID, ev.Content, ev.SenderID, timestamp)
	if err != nil {
		return err
	}
	sender.pushFrame(FlagContinue, ack)

	log.Infof("gateway delivered message from session %s to %d members of room '%s'",
		sender.id, delivered, ev.RoomID)

	return nil
}

// FanOutTyping delivers user-typing to every other member of the room.
func (ctrl *Controller) FanOutTyping(sender *Session, ev *proto.TypingEvent) error {
	identity := sender.Identity()

	out, err := proto.MarshalNewUserTypingEvent(identity.UserID, identity.Username, ev.IsTyping)
	if err != nil {
		return err
	}
	ctrl.broadcastToRoom(ev.RoomID, sender.id, out)

	return nil
}

// broadcastToRoom pushes the payload to every member session of the room
// except the excluded one. Delivery order across recipients is
// unspecified; a session with a full outbox misses the event.
func (ctrl *Controller) broadcastToRoom(roomID, excludeSessionID string, data []byte) int {
	delivered := 0
	for _, sessionID := range ctrl.rooms.MembersOf(roomID) {
		if sessionID == excludeSessionID {
			continue
		}

		ctrl.RLock()
		sess, ok := ctrl.sessions[sessionID]
		ctrl.RUnlock()
		if !ok {
			continue
		}

		if sess.pushFrame(FlagContinue, data) {
			delivered++
		}
	}

	return delivered
}

// broadcastToAll pushes the payload to every registered session except
// the excluded one. Used for the user-online/user-offline status events.
func (ctrl *Controller) broadcastToAll(excludeSessionID string, data []byte) {
	ctrl.RLock()
	sessions := make([]*Session, 0, len(ctrl.sessions))
	for _, sess := range ctrl.sessions {
		if sess.id == excludeSessionID {
			continue
		}
		sessions = append(sessions, sess)
	}
	ctrl.RUnlock()

	for _, sess := range sessions {
		sess.pushFrame(FlagContinue, data)
	}
}

// UserStatusEvent is the payload published on SubjectUserStatus.
type UserStatusEvent struct {
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (ctrl *Controller) publishUserStatus(userID, sessionID, status string) error {
	if ctrl.nc == nil {
		return nil
	}

	ev := UserStatusEvent{
		UserID:    userID,
		SessionID: sessionID,
		Status:    status,
		Timestamp: time.Now().Round(time.Second).UTC(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ctrl.nc.Publish(SubjectUserStatus, data)
}
