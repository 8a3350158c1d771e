package gateway

import (
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	log "github.com/sirupsen/logrus"
)

type Flag int

const (
	FlagContinue Flag = iota
	FlagCloseGracefully
	FlagTerminate
)

// Frame is one outbound websocket payload together with the instruction
// what to do with the connection after writing it.
type Frame struct {
	Flag Flag
	Data []byte
}

func NewFrame(flag Flag, data []byte) *Frame {
	f := &Frame{
		Flag: flag,
	}
	if data != nil {
		f.Data = make([]byte, len(data))
		copy(f.Data, data)
	}
	return f
}

// WebSocketDriver pumps frames between the raw connection and the
// session. Inbound payloads appear on Inbox, the session queues outbound
// frames on Outbox. When either pump exits the terminate channel is
// closed exactly once, which tells the connection handler to return.
type WebSocketDriver struct {
	conn   net.Conn
	Inbox  chan []byte
	Outbox chan *Frame

	terminateCh    chan<- struct{}
	terminatedOnce sync.Once

	stopCh   chan struct{}
	stopOnce sync.Once

	wg sync.WaitGroup
}

func NewWebSocketDriver(conn net.Conn, terminateCh chan<- struct{}) *WebSocketDriver {
	return &WebSocketDriver{
		conn:        conn,
		Inbox:       make(chan []byte, 100),
		Outbox:      make(chan *Frame, 100),
		terminateCh: terminateCh,
		stopCh:      make(chan struct{}),
	}
}

func (driver *WebSocketDriver) Start() {
	driver.wg.Add(1)
	go driver.inboxHandler()
	driver.wg.Add(1)
	go driver.outboxHandler()
}

func (driver *WebSocketDriver) Close() {
	driver.wg.Wait()
	log.Debug("websocketdriver closed")
}

func (driver *WebSocketDriver) Stop() {
	log.Debug("websocketdriver stop called")
	driver.safeCloseTerminateChannel()
}

func (driver *WebSocketDriver) closeHandler() {
	defer driver.wg.Done()
	driver.safeCloseTerminateChannel()
	driver.safeCloseStopChannel()
}

func (driver *WebSocketDriver) safeCloseTerminateChannel() {
	driver.terminatedOnce.Do(func() {
		close(driver.terminateCh)
	})
}

func (driver *WebSocketDriver) safeCloseStopChannel() {
	driver.stopOnce.Do(func() {
		close(driver.stopCh)
	})
}

func (driver *WebSocketDriver) inboxHandler() {
	// Closing the inbox ends the session's dispatch loop.
	defer close(driver.Inbox)
	defer driver.closeHandler()

	state := ws.StateServerSide
	ch := wsutil.ControlFrameHandler(driver.conn, state)

	r := &wsutil.Reader{
		Source:         driver.conn,
		State:          state,
		CheckUTF8:      true,
		OnIntermediate: ch,
	}

	for {
		h, err := r.NextFrame()
		if err != nil {
			// An abrupt transport loss lands here as a read error. It is
			// handled exactly like a graceful close: the terminate signal
			// converges both paths onto the same session cleanup.
			if err != io.EOF {
				log.Debugf("websocket read message error: %v", err)
			}
			return
		}

		// We received an operation control frame and handle it before
		// continuation.
		if h.OpCode.IsControl() {
			// Check for OpClose before handling the control frame. On
			// OpClose the socket was closed by the client. We can exit our
			// handler now.
			if h.OpCode == ws.OpClose {
				log.Debug("websocket connection closed gracefully")
				return
			}

			// Handle the control frame
			if err = ch(h, r); err != nil {
				log.Errorf("websocket handles control frame error: %v", err)
				return
			}
			continue
		}

		// Read all data from websocket client
		req, err := io.ReadAll(r)
		if err != nil {
			log.Errorf("websocket read error: %v", err)
			return
		}

		driver.Inbox <- req
	}
}

func (driver *WebSocketDriver) outboxHandler() {
	defer driver.closeHandler()

	state := ws.StateServerSide
	w := wsutil.NewWriter(driver.conn, state, 0)

	for {
		select {
		case frame := <-driver.Outbox:
			{
				if frame.Data != nil {
					if err := webSocketWriteText(driver.conn, w, state, frame.Data); err != nil {
						log.Errorf("websocket terminates because of write error: %s", err.Error())
						return
					}
				}

				switch frame.Flag {
				case FlagCloseGracefully:
					{
						log.Debug("websocket handled outbox frame but closes gracefully")
						webSocketCloseGraceful(driver.conn, w, state)
						return
					}
				case FlagTerminate:
					{
						log.Debug("websocket handled outbox frame but terminates")
						return
					}
				}
			}
		case <-driver.stopCh:
			return
		}
	}
}

func webSocketWriteText(conn net.Conn, w *wsutil.Writer, state ws.State, data []byte) error {
	var err error

	// Setup the writer with proper websocket frame settings.
	w.Reset(conn, state, ws.OpText)
	if _, err = w.Write(data); err == nil {
		err = w.Flush()
	}
	if err != nil {
		return err
	}

	return nil
}

func webSocketCloseGraceful(conn net.Conn, w *wsutil.Writer, state ws.State) error {
	log.Debug("websocket graceful close initiated")

	w.Reset(conn, state, ws.OpClose)

	// Write empty string
	var err error
	if _, err = w.Write([]byte("")); err == nil {
		err = w.Flush()
	}
	if err != nil {
		return err
	}

	return nil
}
