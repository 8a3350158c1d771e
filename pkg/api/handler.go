package api

import (
	"github.com/labstack/echo"
	"github.com/nats-io/nats.go"
	"github.com/nsyszr/chatline/pkg/gateway"
	"github.com/nsyszr/chatline/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Handler contains all properties to serve the API
type Handler struct {
	nc       *nats.Conn
	store    storage.Interface
	presence *gateway.PresenceTable
}

// NewHandler create a new API handler
func NewHandler(nc *nats.Conn, store storage.Interface, presence *gateway.PresenceTable) *Handler {
	return &Handler{
		nc:       nc,
		store:    store,
		presence: presence,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register API routes")
	api := e.Group("/api/v1")
	api.GET("/health", h.handleHealth)
	api.GET("/presence", h.handleFetchPresence)

	api.Any("/realtime-events", h.realtimeEventsHandler())
}
