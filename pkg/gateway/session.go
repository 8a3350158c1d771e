package gateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nsyszr/chatline/pkg/auth"
	"github.com/nsyszr/chatline/pkg/gateway/proto"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateClosed
)

func (state State) String() string {
	names := []string{
		"CONNECTING",
		"AUTHENTICATED",
		"ACTIVE",
		"CLOSED"}

	if state < StateConnecting || state > StateClosed {
		return "UNKNOWN"
	}

	return names[state]
}

// Session is one authenticated physical connection. It is distinct from
// the identity behind it: one identity may hold several sessions from
// different devices. The session owns its outbox and walks the state
// machine CONNECTING -> AUTHENTICATED -> ACTIVE -> CLOSED; the rejection
// path jumps from CONNECTING straight to CLOSED without the session ever
// being registered anywhere.
type Session struct {
	sync.RWMutex
	ctrl      *Controller
	id        string
	identity  auth.Identity
	state     State
	outbox    chan<- *Frame
	closeOnce sync.Once
}

func newSession(ctrl *Controller, outbox chan<- *Frame) *Session {
	return &Session{
		ctrl:   ctrl,
		id:     uuid.NewString(),
		state:  StateConnecting,
		outbox: outbox,
	}
}

// ID returns the unique id of this physical connection.
func (sess *Session) ID() string {
	return sess.id
}

// Identity returns the resolved principal. Valid once the session left
// the CONNECTING state.
func (sess *Session) Identity() auth.Identity {
	sess.RLock()
	defer sess.RUnlock()
	return sess.identity
}

func (sess *Session) State() State {
	sess.RLock()
	defer sess.RUnlock()
	return sess.state
}

// Activate stores the verified identity and registers the session with
// the controller. Event handling is enabled from here on.
func (sess *Session) Activate(identity auth.Identity) {
	sess.Lock()
	sess.identity = identity
	sess.state = StateAuthenticated
	sess.Unlock()

	sess.ctrl.RegisterSession(sess)

	sess.Lock()
	sess.state = StateActive
	sess.Unlock()

	log.Infof("gateway session %s activated for user '%s'", sess.id, identity.UserID)
}

// Reject sends the auth-rejected event and initiates a graceful close.
// The session was never registered, so there is nothing to clean up.
func (sess *Session) Reject(reason string) {
	sess.Lock()
	sess.state = StateClosed
	sess.Unlock()

	out, err := proto.MarshalNewAuthRejectedEvent(reason)
	// This error should happen never! If it happens log an urgent error
	// and terminate the websocket session for safety.
	if err != nil {
		log.Errorf("gateway could not marshal message: %s", err.Error())
		sess.pushFrame(FlagTerminate, nil)
		return
	}

	sess.pushFrame(FlagCloseGracefully, out)
}

// Close tears the session down. It is idempotent and safe to trigger
// from both an explicit disconnect and an abrupt transport loss; both
// paths converge here.
func (sess *Session) Close() {
	sess.closeOnce.Do(func() {
		sess.Lock()
		registered := sess.state == StateAuthenticated || sess.state == StateActive
		sess.state = StateClosed
		sess.Unlock()

		if registered {
			sess.ctrl.UnregisterSession(sess)
		}
	})
}

// HandleEvent is called for every inbound frame. Malformed events are
// dropped silently, the connection stays open (fire and forget, matching
// the best-effort delivery model).
func (sess *Session) HandleEvent(data []byte) {
	evType, ev, err := proto.UnmarshalEvent(data)
	if err != nil {
		log.Debugf("gateway session %s dropped inbound event: %s", sess.id, err.Error())
		return
	}

	switch evType {
	case proto.EventTypeJoinRoom:
		sess.handleEvent(ev, sess.ensureActive(sess.joinRoomHandler()))
	case proto.EventTypeLeaveRoom:
		sess.handleEvent(ev, sess.ensureActive(sess.leaveRoomHandler()))
	case proto.EventTypeSendMessage:
		sess.handleEvent(ev, sess.ensureActive(sess.sendMessageHandler()))
	case proto.EventTypeTyping:
		sess.handleEvent(ev, sess.ensureActive(sess.typingHandler()))
	}
}

// eventHandler is a tooling for handling incoming events. It is similar
// to the go http handler implementation and allows middleware handlers,
// e.g. the ensureActive handler.
type eventHandler interface {
	Handle(ev interface{}) error
}

type eventHandlerFunc func(ev interface{}) error

func (f eventHandlerFunc) Handle(ev interface{}) error {
	return f(ev)
}

func (sess *Session) handleEvent(ev interface{}, h eventHandler) {
	if err := h.Handle(ev); err != nil {
		log.Warnf("gateway session %s failed to handle event: %s", sess.id, err.Error())
	}
}

func (sess *Session) ensureActive(next eventHandler) eventHandler {
	return eventHandlerFunc(func(ev interface{}) error {
		if sess.State() != StateActive {
			log.Warnf("gateway session %s dropped event because session is not active", sess.id)
			return nil
		}
		return next.Handle(ev)
	})
}

func (sess *Session) joinRoomHandler() eventHandlerFunc {
	return eventHandlerFunc(func(ev interface{}) error {
		joinEv, err := proto.MustJoinRoomEvent(ev)
		if err != nil {
			return err
		}

		sess.ctrl.JoinRoom(sess, joinEv.RoomID)
		return nil
	})
}

func (sess *Session) leaveRoomHandler() eventHandlerFunc {
	return eventHandlerFunc(func(ev interface{}) error {
		leaveEv, err := proto.MustLeaveRoomEvent(ev)
		if err != nil {
			return err
		}

		sess.ctrl.LeaveRoom(sess, leaveEv.RoomID)
		return nil
	})
}

func (sess *Session) sendMessageHandler() eventHandlerFunc {
	return eventHandlerFunc(func(ev interface{}) error {
		msgEv, err := proto.MustSendMessageEvent(ev)
		if err != nil {
			return err
		}

		return sess.ctrl.FanOutMessage(sess, msgEv)
	})
}

func (sess *Session) typingHandler() eventHandlerFunc {
	return eventHandlerFunc(func(ev interface{}) error {
		typingEv, err := proto.MustTypingEvent(ev)
		if err != nil {
			return err
		}

		return sess.ctrl.FanOutTyping(sess, typingEv)
	})
}

// pushFrame queues an outbound frame without blocking. A full outbox
// means the recipient is too slow and simply misses the event: delivery
// is best-effort with no retry or queueing on transport failure.
func (sess *Session) pushFrame(flag Flag, data []byte) bool {
	select {
	case sess.outbox <- NewFrame(flag, data):
		return true
	default:
		return false // Buffer is full
	}
}
