package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpreview/internal/logging"
	"github.com/goliatone/go-formpreview/pkg/livesync"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
	"github.com/goliatone/go-formpreview/pkg/schema"
	"github.com/goliatone/go-formpreview/pkg/surface"
)

var (
	errSessionClosed  = errors.New("session closed")
	errNotStarted     = errors.New("session not started: send hello first")
	errAlreadyStarted = errors.New("session already started")
)

// session is one page view. Its read loop is the event loop: every inbound
// message is handled to completion before the next is read, so the
// controller never sees concurrent events.
type session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	remote string

	writeMu sync.Mutex
	closed  bool

	entry      *pageEntry
	bridge     *bridge
	surface    *surface.Surface
	controller *livesync.Controller
}

func (s *Server) handleLive(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", c.ClientIP()), zap.Error(err))
		return
	}

	sess := &session{
		id:     s.newID(),
		server: s,
		conn:   conn,
		remote: c.ClientIP(),
	}
	sess.run(c.Request.Context())
}

func (sess *session) run(ctx context.Context) {
	cfg := sess.server.cfg.Session
	m := sess.server.metrics

	m.SessionOpened()
	logging.LogSessionEvent(sess.id, sess.remote, "open")
	defer func() {
		sess.teardown()
		m.SessionClosed()
		logging.LogSessionEvent(sess.id, sess.remote, "close")
	}()

	if cfg.MaxMessageBytes > 0 {
		sess.conn.SetReadLimit(cfg.MaxMessageBytes)
	}

	for {
		if cfg.IdleTimeout > 0 {
			_ = sess.conn.SetReadDeadline(time.Now().Add(cfg.IdleTimeout))
		}
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.LogSessionEvent(sess.id, sess.remote, "read_error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = sess.sendError("malformed message")
			continue
		}
		logging.LogFrame(sess.id, "in", msg.Type, data)
		m.Message("in", msg.Type)

		if err := sess.handle(ctx, msg); err != nil {
			if errors.Is(err, errSessionClosed) {
				return
			}
			logging.LogSessionEvent(sess.id, sess.remote, "message_error", zap.String("type", msg.Type), zap.Error(err))
			if sendErr := sess.sendError(err.Error()); errors.Is(sendErr, errSessionClosed) {
				return
			}
		}
	}
}

func (sess *session) handle(ctx context.Context, msg ClientMessage) error {
	if msg.Type == MsgPing {
		return sess.send(MsgPong, pongMessage{Type: MsgPong})
	}
	if msg.Type == MsgHello {
		return sess.start(ctx, msg)
	}
	if sess.controller == nil {
		return errNotStarted
	}

	switch msg.Type {
	case MsgReady:
		if _, err := sess.surface.MarkReady(msg.Context); err != nil {
			return err
		}
		return sess.sendState(nil)

	case MsgInput:
		result, err := sess.controller.OnFieldChange(ctx, msg.Field, msg.Value)
		if result.Ignored {
			sess.server.metrics.FieldChange(sess.entry.page.Variant, "unknown", "ignored")
		}
		if err != nil {
			return err
		}
		committed := result.Committed
		return sess.sendState(&committed)

	case MsgResize:
		sess.bridge.setContainer(sess.containerID(), msg.Width, msg.Height)
		sess.bridge.Dispatch(platform.EventResize)
		return sess.sendState(nil)

	case MsgLayout:
		return sess.bridge.applyLayout(msg.Context, msg.Root, msg.Elements)

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// start renders the host page the browser is showing, mounts the isolated
// surface and the controller, and reports the initial state. The preview is
// projected once the browser signals the frame is ready.
func (sess *session) start(ctx context.Context, msg ClientMessage) error {
	if sess.controller != nil {
		return errAlreadyStarted
	}
	entry, ok := sess.server.lookup(msg.Variant)
	if !ok {
		return fmt.Errorf("unknown page variant %q", msg.Variant)
	}

	page := entry.page
	initial, err := sess.initialValues(entry, msg.Values)
	if err != nil {
		return err
	}
	host, err := sess.server.renderHost(ctx, page, initial, initial, model.Errors{}, nil)
	if err != nil {
		return err
	}

	sess.entry = entry
	sess.bridge = newBridge(sess.send, string(host))
	sess.bridge.setContainer(sess.containerID(), msg.Width, msg.Height)

	sess.surface = surface.New(sess.bridge, surface.WithIDGenerator(sess.server.newID))
	if err := sess.surface.Mount(); err != nil {
		return err
	}

	m := sess.server.metrics
	controller, err := livesync.New(livesync.Config{
		Page:        page,
		Initial:     initial,
		Platform:    sess.bridge,
		Validator:   entry.validator,
		Surface:     sess.surface,
		Renderer:    sess.server.renderer,
		ContainerID: sess.containerID(),
		Observer: livesync.Observer{
			Changed: func(result livesync.Result) {
				outcome := "rejected"
				if result.Committed {
					outcome = "committed"
				}
				m.FieldChange(page.Variant, result.Field, outcome)
			},
			Resized: func(_ livesync.Size, bp livesync.Breakpoint) {
				m.Breakpoints.WithLabelValues(bp.String()).Inc()
			},
			Scrolled: func(string, float64) {
				m.Scrolls.Inc()
			},
		},
	})
	if err != nil {
		sess.surface.Unmount()
		return err
	}
	if err := controller.Mount(ctx); err != nil {
		sess.surface.Unmount()
		return err
	}
	sess.controller = controller

	logging.LogSessionEvent(sess.id, sess.remote, "start",
		zap.String("variant", page.Variant),
		zap.String("surface", string(sess.surface.ID())),
	)
	return sess.sendState(nil)
}

// initialValues seeds the session from the values the page was showing when
// the bridge connected, e.g. after a no-script POST. Unknown fields are
// dropped and a set that fails validation falls back to the defaults.
func (sess *session) initialValues(entry *pageEntry, shown model.Values) (model.Values, error) {
	defaults := entry.page.Defaults()
	if len(shown) == 0 {
		return defaults, nil
	}

	merged := defaults.Clone()
	for field, value := range shown {
		if entry.page.HasField(field) {
			merged[field] = value
		}
	}

	accepted, err := entry.validator.Validate(merged)
	if _, isValidation := schema.AsValidationError(err); isValidation {
		logging.LogSessionEvent(sess.id, sess.remote, "initial_rejected",
			zap.String("variant", entry.page.Variant),
		)
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate initial values: %w", err)
	}
	if accepted == nil {
		accepted = merged
	}
	return accepted, nil
}

func (sess *session) containerID() string {
	return sess.server.renderer.ContainerID()
}

func (sess *session) sendState(committed *bool) error {
	state := stateMessage(sess.controller.Snapshot())
	state.Committed = committed
	return sess.send(MsgState, state)
}

func (sess *session) sendError(message string) error {
	return sess.send(MsgError, ErrorMessage{Type: MsgError, Message: message})
}

// send serializes writes; gorilla connections allow one concurrent writer.
func (sess *session) send(kind string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if sess.closed {
		return errSessionClosed
	}

	if wait := sess.server.cfg.Session.WriteWait; wait > 0 {
		_ = sess.conn.SetWriteDeadline(time.Now().Add(wait))
	}
	if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		sess.closed = true
		return fmt.Errorf("%w: %v", errSessionClosed, err)
	}

	logging.LogFrame(sess.id, "out", kind, data)
	m := sess.server.metrics
	m.Message("out", kind)
	if kind == MsgProject {
		m.Projections.Inc()
	}
	return nil
}

// teardown unmounts the controller and the surface without writing to the
// connection, which is already gone or about to be closed.
func (sess *session) teardown() {
	sess.writeMu.Lock()
	sess.closed = true
	sess.writeMu.Unlock()

	if sess.controller != nil {
		sess.controller.Unmount()
	}
	if sess.surface != nil {
		sess.surface.Unmount()
	}
	_ = sess.conn.Close()
}
