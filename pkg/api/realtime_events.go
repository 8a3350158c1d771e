package api

import (
	"encoding/json"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/labstack/echo"
	"github.com/nats-io/nats.go"
	"github.com/nsyszr/chatline/pkg/api/resource"
	log "github.com/sirupsen/logrus"
)

// realtimeEventsHandler upgrades the request to a websocket and forwards
// every gateway status event to the client. It's meant for dashboards and
// operational tooling, not for chat clients.
func (h *Handler) realtimeEventsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			log.Error("api: failed to upgrade to websocket: ", err)
			return nil
		}
		defer conn.Close()

		sub, err := h.nc.Subscribe("chatline.gateway.v1.*", func(msg *nats.Msg) {
			topic := strings.TrimPrefix(msg.Subject, "chatline.gateway.v1.")

			var data interface{}
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return
			}

			event := resource.NewRealtimeEvent(topic, data)
			out, _ := json.Marshal(event)
			if err := wsutil.WriteServerMessage(conn, ws.OpText, out); err != nil {
				log.Error("api: failed to send realtime event: ", err)
			}
		})
		if err != nil {
			log.Error("api: failed to subscribe to gateway events: ", err)
			return nil
		}
		defer sub.Unsubscribe()

		// Block until the client goes away. We don't expect any payload
		// on this endpoint, so every read result except an error is
		// discarded.
		for {
			if _, _, err := wsutil.ReadClientData(conn); err != nil {
				return nil
			}
		}
	}
}
