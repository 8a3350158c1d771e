package proto

import "time"

// EventType names an event on the wire. Inbound and outbound frames share
// the same JSON envelope: {"event": <name>, "data": <payload>}.
type EventType string

const (
	EventTypeInvalid EventType = ""

	// Inbound (client -> gateway)
	EventTypeJoinRoom    EventType = "join-room"
	EventTypeLeaveRoom   EventType = "leave-room"
	EventTypeSendMessage EventType = "send-message"
	EventTypeTyping      EventType = "typing"

	// Outbound (gateway -> client)
	EventTypeUserOnline     EventType = "user-online"
	EventTypeUserOffline    EventType = "user-offline"
	EventTypeReceiveMessage EventType = "receive-message"
	EventTypeMessageSent    EventType = "message-sent"
	EventTypeUserTyping     EventType = "user-typing"
	EventTypeAuthRejected   EventType = "auth-rejected"
)

func (t EventType) String() string {
	return string(t)
}

type JoinRoomEvent struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomEvent struct {
	RoomID string `json:"roomId"`
}

type SendMessageEvent struct {
	RoomID   string `json:"roomId"`
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

type TypingEvent struct {
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

type UserOnlineEvent struct {
	UserID string `json:"userId"`
}

type UserOfflineEvent struct {
	UserID string `json:"userId"`
}

// MessageEvent is the payload of both receive-message and message-sent.
// The timestamp is assigned by the gateway at fan-out time, it is never
// taken from the client.
type MessageEvent struct {
	RoomID    string    `json:"roomId"`
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
}

type UserTypingEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type AuthRejectedEvent struct {
	Reason string `json:"reason"`
}
