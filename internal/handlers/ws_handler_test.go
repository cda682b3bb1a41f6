package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"calendar-planner-api/internal/middleware"
	"calendar-planner-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialCalendarEvents(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}, WebSocketHandler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool {
		return realtime.GetHub().Connections(userID) == 1
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestWebSocketHandler_ConcurrentEventsReachClient(t *testing.T) {
	const userID = "u-ws-burst"
	conn := dialCalendarEvents(t, userID)
	hub := realtime.GetHub()

	var sent atomic.Int64
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := json.Marshal(realtime.Event{
				Type:    realtime.EventTaskMoved,
				TaskID:  fmt.Sprintf("t-%d", i),
				UserID:  userID,
				Version: 1,
			})
			if err != nil {
				return
			}
			sent.Add(int64(hub.Broadcast(userID, msg)))
		}()
	}
	wg.Wait()
	require.Equal(t, int64(50), sent.Load())

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	seen := make(map[string]bool)
	for range 50 {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var evt realtime.Event
		require.NoError(t, json.Unmarshal(data, &evt))
		require.Equal(t, realtime.EventTaskMoved, evt.Type)
		seen[evt.TaskID] = true
	}
	require.Len(t, seen, 50)
}

func TestWebSocketHandler_UnregistersOnDisconnect(t *testing.T) {
	const userID = "u-ws-leave"
	conn := dialCalendarEvents(t, userID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return realtime.GetHub().Connections(userID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCalendarSubscriber_QueueAndClose(t *testing.T) {
	conn := dialCalendarEvents(t, "u-ws-queue")

	// no writer running, so the queue only fills
	sub := newCalendarSubscriber(conn, "u-ws-queue")
	for range sendQueueSize {
		require.True(t, sub.Send([]byte(`{}`)))
	}
	require.False(t, sub.Send([]byte(`{}`)))

	for len(sub.queue) > 0 {
		<-sub.queue
	}
	sub.Close()
	sub.Close()
	require.False(t, sub.Send([]byte(`{}`)))
}
