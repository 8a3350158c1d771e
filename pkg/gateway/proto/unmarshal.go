package proto

import "encoding/json"

type envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// UnmarshalEvent parses an inbound frame and returns the event type with
// its decoded payload. Only client-to-gateway events are accepted here,
// a client echoing back an outbound event name is a malformed event.
func UnmarshalEvent(data []byte) (EventType, interface{}, error) {
	var env envelope

	if err := json.Unmarshal(data, &env); err != nil {
		return EventTypeInvalid, nil, NewMalformedEventError("invalid event data: %s", err.Error())
	}

	switch env.Event {
	case EventTypeJoinRoom:
		return unmarshalJoinRoomEvent(env.Data)
	case EventTypeLeaveRoom:
		return unmarshalLeaveRoomEvent(env.Data)
	case EventTypeSendMessage:
		return unmarshalSendMessageEvent(env.Data)
	case EventTypeTyping:
		return unmarshalTypingEvent(env.Data)
	}

	return EventTypeInvalid, nil, NewMalformedEventError("unknown event '%s'", env.Event)
}

func unmarshalJoinRoomEvent(data []byte) (EventType, interface{}, error) {
	ev := JoinRoomEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		return EventTypeInvalid, nil, NewMalformedEventError("invalid join-room payload: %s", err.Error())
	}

	if ev.RoomID == "" {
		return EventTypeInvalid, nil, NewMalformedEventError("join-room event without room id")
	}

	return EventTypeJoinRoom, ev, nil
}

func unmarshalLeaveRoomEvent(data []byte) (EventType, interface{}, error) {
	ev := LeaveRoomEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		return EventTypeInvalid, nil, NewMalformedEventError("invalid leave-room payload: %s", err.Error())
	}

	if ev.RoomID == "" {
		return EventTypeInvalid, nil, NewMalformedEventError("leave-room event without room id")
	}

	return EventTypeLeaveRoom, ev, nil
}

func unmarshalSendMessageEvent(data []byte) (EventType, interface{}, error) {
	ev := SendMessageEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		return EventTypeInvalid, nil, NewMalformedEventError("invalid send-message payload: %s", err.Error())
	}

	if ev.RoomID == "" {
		return EventTypeInvalid, nil, NewMalformedEventError("send-message event without room id")
	}

	if ev.Content == "" {
		return EventTypeInvalid, nil, NewMalformedEventError("send-message event without content")
	}

	return EventTypeSendMessage, ev, nil
}

func unmarshalTypingEvent(data []byte) (EventType, interface{}, error) {
	ev := TypingEvent{}
	if err := json.Unmarshal(data, &ev); err != nil {
		return EventTypeInvalid, nil, NewMalformedEventError("invalid typing payload: %s", err.Error())
	}

	if ev.RoomID == "" {
		return EventTypeInvalid, nil, NewMalformedEventError("typing event without room id")
	}

	return EventTypeTyping, ev, nil
}
