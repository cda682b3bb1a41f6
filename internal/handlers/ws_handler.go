package handlers

import (
	"net/http"
	"sync"
	"time"

	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/middleware"
	"calendar-planner-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendQueueSize  = 64
)

// calendarSubscriber is one open calendar view. Events are queued by Send and
// written by writeLoop, the only goroutine that writes to conn.
type calendarSubscriber struct {
	conn      *websocket.Conn
	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

func newCalendarSubscriber(conn *websocket.Conn, userID string) *calendarSubscriber {
	log := logging.With("ws").With().Str("user_id", userID).Logger()
	return &calendarSubscriber{
		conn:  conn,
		queue: make(chan []byte, sendQueueSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Send queues an event without blocking the publisher. A full queue drops the
// event; the view catches up on the next one since every event means
// "rebuild the calendar".
func (s *calendarSubscriber) Send(message []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.queue <- message:
		return true
	default:
		s.log.Warn().Msg("event queue full, dropping event")
		return false
	}
}

// Close stops the writer and closes the connection. Safe to call repeatedly.
func (s *calendarSubscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *calendarSubscriber) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.queue:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.log.Debug().Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains incoming frames so pongs and close frames are handled.
// It returns once the peer goes away.
func (s *calendarSubscriber) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug().Err(err).Msg("connection closed")
			}
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the gin level
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler handles GET /api/ws
// The connection receives the user's task events; clients rebuild their
// calendar when one arrives.
func WebSocketHandler(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	sub := newCalendarSubscriber(conn, userID)
	hub := realtime.GetHub()
	hub.Register(userID, sub)
	sub.log.Debug().Int("connections", hub.Connections(userID)).Msg("websocket connected")

	go sub.writeLoop()
	sub.readLoop()

	hub.Unregister(userID, sub)
	sub.Close()
}
