package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/model"
)

func dialPush(t *testing.T, s *PushService, visitorID, sessionID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.Register(visitorID, conn, sessionID, r.RemoteAddr)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		_, ok := s.sessionToVisitor[sessionID]
		return ok
	}, time.Second, 5*time.Millisecond)
	return conn
}

func TestPushService_PushDelivers(t *testing.T) {
	s := NewPushService(time.Hour, zap.NewNop())
	defer s.Stop()

	conn := dialPush(t, s, "v1", "ws-1")
	require.NoError(t, s.Push("v1", PushChat, map[string]string{"state": "idle"}))

	var msg model.PushMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, PushChat, msg.Type)
	require.Equal(t, map[string]interface{}{"state": "idle"}, msg.Data)
}

func TestPushService_Offline(t *testing.T) {
	s := NewPushService(time.Hour, zap.NewNop())
	defer s.Stop()
	require.ErrorIs(t, s.Push("nobody", PushChat, nil), ErrVisitorOffline)
	require.False(t, s.UpdateHeartbeat("nobody"))
}

func TestPushService_SweepCleansAfterThreeMisses(t *testing.T) {
	s := NewPushService(time.Hour, zap.NewNop())
	defer s.Stop()
	dialPush(t, s, "v1", "ws-1")

	later := time.Now().Add(3 * time.Hour)
	s.sweep(later)
	s.sweep(later)
	require.Equal(t, 1, s.OnlineCount())
	s.sweep(later)
	require.Zero(t, s.OnlineCount())
}

func TestPushService_HeartbeatResetsMisses(t *testing.T) {
	s := NewPushService(time.Hour, zap.NewNop())
	defer s.Stop()
	dialPush(t, s, "v1", "ws-1")

	later := time.Now().Add(3 * time.Hour)
	s.sweep(later)
	s.sweep(later)
	require.True(t, s.UpdateHeartbeat("v1"))
	s.sweep(time.Now())
	require.Equal(t, 1, s.OnlineCount())
}

func TestPushService_RemoveStaleSessionKeepsNewer(t *testing.T) {
	s := NewPushService(time.Hour, zap.NewNop())
	defer s.Stop()
	dialPush(t, s, "v1", "ws-1")
	dialPush(t, s, "v1", "ws-2")

	s.RemoveBySessionID("ws-1")
	require.Equal(t, 1, s.OnlineCount())
	s.RemoveBySessionID("ws-2")
	require.Zero(t, s.OnlineCount())
}
