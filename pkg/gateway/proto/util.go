package proto

import "fmt"

func MustJoinRoomEvent(v interface{}) (*JoinRoomEvent, error) {
	ev, ok := v.(JoinRoomEvent)
	if !ok {
		return nil, fmt.Errorf("not a join-room event")
	}

	return &ev, nil
}

func MustLeaveRoomEvent(v interface{}) (*LeaveRoomEvent, error) {
	ev, ok := v.(LeaveRoomEvent)
	if !ok {
		return nil, fmt.Errorf("not a leave-room event")
	}

	return &ev, nil
}

func MustSendMessageEvent(v interface{}) (*SendMessageEvent, error) {
	ev, ok := v.(SendMessageEvent)
	if !ok {
		return nil, fmt.Errorf("not a send-message event")
	}

	return &ev, nil
}

func MustTypingEvent(v interface{}) (*TypingEvent, error) {
	ev, ok := v.(TypingEvent)
	if !ok {
		return nil, fmt.Errorf("not a typing event")
	}

	return &ev, nil
}
