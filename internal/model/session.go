package model

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// PushSession 访客的 websocket 推送连接
type PushSession struct {
	VisitorID     string
	Conn          *websocket.Conn
	SessionID     string
	ClientIP      string
	LastHeartbeat time.Time
	MissedBeats   int
	mu            sync.RWMutex // 保护会话字段
}

// UpdateHeartbeat 更新心跳时间
func (s *PushSession) UpdateHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastHeartbeat = time.Now()
	s.MissedBeats = 0
}

// SinceHeartbeat 距上次心跳的时间
func (s *PushSession) SinceHeartbeat(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.LastHeartbeat)
}

// IncrementMissedBeats 增加丢失心跳次数
func (s *PushSession) IncrementMissedBeats() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MissedBeats++
	return s.MissedBeats
}

// ShouldBeCleaned 判断是否应该清理
func (s *PushSession) ShouldBeCleaned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MissedBeats >= 3
}

// WriteMessage 向 WebSocket 写入消息（线程安全）
func (s *PushSession) WriteMessage(message interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteJSON(message)
}
