package service

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/model"
)

var (
	ErrVisitorOffline = errors.New("访客不在线")
)

// 推送消息类型
const (
	PushChat      = "chat"
	PushWizard    = "wizard"
	PushLocale    = "locale"
	PushHeartbeat = "HEARTBEAT"
)

// PushService websocket 推送连接管理
type PushService struct {
	sessions         map[string]*model.PushSession // visitorId -> session
	sessionToVisitor map[string]string             // sessionId -> visitorId
	mu               sync.RWMutex
	tick             time.Duration
	stop             chan struct{}
	stopOnce         sync.Once
	logger           *zap.Logger
}

// NewPushService 创建推送服务并启动心跳检测
func NewPushService(tick time.Duration, logger *zap.Logger) *PushService {
	if tick <= 0 {
		tick = 30 * time.Second
	}
	s := &PushService{
		sessions:         make(map[string]*model.PushSession),
		sessionToVisitor: make(map[string]string),
		tick:             tick,
		stop:             make(chan struct{}),
		logger:           logger,
	}

	go s.heartbeatChecker()

	return s
}

// Register 注册访客连接，同一访客的旧连接会被关闭
func (s *PushService) Register(visitorID string, conn *websocket.Conn, sessionID, clientIP string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[visitorID]; ok {
		s.logger.Info("访客重新连接，关闭旧连接",
			zap.String("visitorId", visitorID),
			zap.String("oldSessionId", existing.SessionID))
		existing.Conn.Close()
		delete(s.sessionToVisitor, existing.SessionID)
	}

	s.sessions[visitorID] = &model.PushSession{
		VisitorID:     visitorID,
		Conn:          conn,
		SessionID:     sessionID,
		ClientIP:      clientIP,
		LastHeartbeat: time.Now(),
	}
	s.sessionToVisitor[sessionID] = visitorID

	s.logger.Info("推送连接注册成功",
		zap.String("visitorId", visitorID),
		zap.String("sessionId", sessionID))
}

// Push 向访客推送一条状态消息
func (s *PushService) Push(visitorID, msgType string, data interface{}) error {
	s.mu.RLock()
	session, ok := s.sessions[visitorID]
	s.mu.RUnlock()

	if !ok {
		return ErrVisitorOffline
	}

	msg := model.PushMessage{Type: msgType, Data: data, Timestamp: time.Now()}
	if err := session.WriteMessage(msg); err != nil {
		s.logger.Error("推送失败",
			zap.String("visitorId", visitorID),
			zap.String("type", msgType),
			zap.Error(err))
		go s.RemoveBySessionID(session.SessionID)
		return err
	}

	s.logger.Debug("推送成功", zap.String("visitorId", visitorID), zap.String("type", msgType))
	return nil
}

// UpdateHeartbeat 更新心跳时间
func (s *PushService) UpdateHeartbeat(visitorID string) bool {
	s.mu.RLock()
	session, ok := s.sessions[visitorID]
	s.mu.RUnlock()

	if !ok {
		return false
	}

	session.UpdateHeartbeat()
	return true
}

// RemoveBySessionID 根据 sessionId 移除连接
// 访客已用新连接替换时不会误删
func (s *PushService) RemoveBySessionID(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitorID, ok := s.sessionToVisitor[sessionID]
	if !ok {
		return
	}
	delete(s.sessionToVisitor, sessionID)
	if current, ok := s.sessions[visitorID]; ok && current.SessionID == sessionID {
		delete(s.sessions, visitorID)
	}
	s.logger.Info("推送连接已移除",
		zap.String("visitorId", visitorID),
		zap.String("sessionId", sessionID))
}

// OnlineCount 在线连接数
func (s *PushService) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop 停止心跳检测并关闭所有连接
func (s *PushService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		defer s.mu.Unlock()
		for visitorID, session := range s.sessions {
			session.Conn.Close()
			delete(s.sessions, visitorID)
			delete(s.sessionToVisitor, session.SessionID)
		}
	})
}

// heartbeatChecker 心跳检测器，超过两个周期没有心跳记一次丢失，丢失 3 次清理
func (s *PushService) heartbeatChecker() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *PushService) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for visitorID, session := range s.sessions {
		if session.SinceHeartbeat(now) <= 2*s.tick {
			continue
		}
		missed := session.IncrementMissedBeats()
		if session.ShouldBeCleaned() {
			s.logger.Info("清理无效连接",
				zap.String("visitorId", visitorID),
				zap.Int("missedBeats", missed))
			session.Conn.Close()
			delete(s.sessions, visitorID)
			delete(s.sessionToVisitor, session.SessionID)
		} else {
			s.logger.Warn("访客心跳丢失",
				zap.String("visitorId", visitorID),
				zap.Int("missedBeats", missed))
		}
	}
}
