package gateway

import (
	"net/http"
	"strings"

	"github.com/gobwas/ws"
	"github.com/labstack/echo"
	"github.com/nsyszr/chatline/pkg/auth"
	log "github.com/sirupsen/logrus"
)

// Handler serves the realtime websocket endpoint
type Handler struct {
	ctrl     *Controller
	verifier *auth.Verifier
}

// NewHandler create a new realtime endpoint handler
func NewHandler(ctrl *Controller, verifier *auth.Verifier) *Handler {
	return &Handler{
		ctrl:     ctrl,
		verifier: verifier,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register realtime routes")
	rt := e.Group("/realtime")
	rt.Any("/v1", h.connectionHandler())
}

func (h *Handler) connectionHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())

		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			return err
		}
		defer conn.Close()

		terminateCh := make(chan struct{})
		driver := NewWebSocketDriver(conn, terminateCh)
		driver.Start()
		defer driver.Close()

		sess := h.ctrl.NewSession(driver.Outbox)
		defer sess.Close()

		// Verify-then-activate: no session is registered anywhere before
		// the credential check passed. The rejection path is a terminal
		// state, not an exception thrown mid-setup.
		identity, err := h.verifier.Verify(c.Request().Context(), token)
		if err != nil && auth.IsAuthError(err) {
			e := err.(*auth.AuthError)
			log.Warnf("gateway rejected connection: %s", e.Error())
			sess.Reject(e.Reason.String())
		} else if err != nil {
			log.Errorf("gateway could not verify connection: %s", err.Error())
			sess.Reject(auth.ErrReasonTokenInvalid.String())
		} else {
			sess.Activate(*identity)
		}

		go func() {
			for data := range driver.Inbox {
				sess.HandleEvent(data)
			}
		}()

		<-terminateCh

		log.Debug("handler exit realtime connection handler func")
		return nil
	}
}

// bearerToken extracts the credential from the Authorization header or,
// because browser websocket clients cannot set headers, from the token
// query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
	}

	return r.URL.Query().Get("token")
}
