package proto

import (
	"encoding/json"
	"time"
)

func marshalEvent(event EventType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Event: event,
		Data:  data,
	})
}

func MarshalNewUserOnlineEvent(userID string) ([]byte, error) {
	return marshalEvent(EventTypeUserOnline, UserOnlineEvent{UserID: userID})
}

func MarshalNewUserOfflineEvent(userID string) ([]byte, error) {
	return marshalEvent(EventTypeUserOffline, UserOfflineEvent{UserID: userID})
}

func MarshalNewReceiveMessageEvent(roomID, content, senderID string, timestamp time.Time) ([]byte, error) {
	return marshalEvent(EventTypeReceiveMessage, MessageEvent{
		RoomID:    roomID,
		Content:   content,
		SenderID:  senderID,
		Timestamp: timestamp,
	})
}

func MarshalNewMessageSentEvent(roomID, content, senderID string, timestamp time.Time) ([]byte, error) {
	return marshalEvent(EventTypeMessageSent, MessageEvent{
		RoomID:    roomID,
		Content:   content,
		SenderID:  senderID,
		Timestamp: timestamp,
	})
}

func MarshalNewUserTypingEvent(userID, username string, isTyping bool) ([]byte, error) {
	return marshalEvent(EventTypeUserTyping, UserTypingEvent{
		UserID:   userID,
		Username: username,
		IsTyping: isTyping,
	})
}

func MarshalNewAuthRejectedEvent(reason string) ([]byte, error) {
	return marshalEvent(EventTypeAuthRejected, AuthRejectedEvent{Reason: reason})
}
