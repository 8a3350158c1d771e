package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nsyszr/chatline/pkg/gateway/proto"
	log "github.com/sirupsen/logrus"
)

type FanOutRequestStatus string

const (
	FanOutStatusSuccess FanOutRequestStatus = "SUCCESS"
	FanOutStatusError   FanOutRequestStatus = "ERROR"
)

// FanOutRequest is sent by the REST tier after it persisted a message,
// asking the gateway to deliver it to the room's connected sessions.
type FanOutRequest struct {
	RoomID   string `json:"roomId"`
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

// FanOutReply reports how many sessions the event was handed to.
type FanOutReply struct {
	Status      FanOutRequestStatus `json:"status"`
	Delivered   int                 `json:"delivered"`
	ErrorReason string              `json:"errorReason,omitempty"`
}

// Subscribe attaches the controller to the fan-out request subject. All
// gateway instances of the queue group share the subject, the replying
// instance delivers to its own sessions only.
func (ctrl *Controller) Subscribe() error {
	if ctrl.nc == nil {
		return fmt.Errorf("gateway: connection to nats is missing")
	}

	if _, err := ctrl.nc.QueueSubscribe(SubjectFanOutRequest, "chatline.gateway.queue.fanout", func(msg *nats.Msg) {
		if err := ctrl.handleFanOutRequest(msg); err != nil {
			log.Error("gateway failed to handle fan-out request: ", err.Error())
		}
	}); err != nil {
		return err
	}

	return nil
}

func (ctrl *Controller) handleFanOutRequest(msg *nats.Msg) error {
	req := FanOutRequest{}
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		if err := ctrl.replyFanOutFailed(msg.Reply, "invalid request payload"); err != nil {
			return err
		}
		return err
	}

	if req.RoomID == "" || req.Content == "" {
		return ctrl.replyFanOutFailed(msg.Reply, "request without room id or content")
	}

	timestamp := time.Now().Round(time.Millisecond).UTC()
	out, err := proto.MarshalNewReceiveMessageEvent(req.RoomID, req.Content, req.SenderID, timestamp)
	if err != nil {
		if err := ctrl.replyFanOutFailed(msg.Reply, "failed to marshal message event"); err != nil {
			return err
		}
		return err
	}

	// No session is excluded here: the sender went through the REST tier
	// and holds no connection of its own on this instance.
	delivered := ctrl.broadcastToRoom(req.RoomID, "", out)

	return ctrl.replyMessage(msg.Reply, FanOutReply{
		Status:    FanOutStatusSuccess,
		Delivered: delivered,
	})
}

func (ctrl *Controller) replyFanOutFailed(replyTo, reason string) error {
	return ctrl.replyMessage(replyTo, FanOutReply{
		Status:      FanOutStatusError,
		ErrorReason: reason,
	})
}

func (ctrl *Controller) replyMessage(replyTo string, rep interface{}) error {
	if replyTo == "" {
		return nil
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	return ctrl.nc.Publish(replyTo, data)
}
