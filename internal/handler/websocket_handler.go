package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/middleware"
	"github.com/thaiturk/portal-go/internal/service"
)

// clientMessage 浏览器发来的消息
type clientMessage struct {
	Type string `json:"type"`
}

// WebSocketHandler 状态推送连接
type WebSocketHandler struct {
	visitors *service.VisitorService
	push     *service.PushService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(visitors *service.VisitorService, push *service.PushService, allowOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		visitors: visitors,
		push:     push,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowOrigins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleWebSocket WebSocket 连接入口
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	v := visitorFrom(c, h.visitors)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	h.push.Register(v.ID, conn, sessionID, c.ClientIP())
	defer h.push.RemoveBySessionID(sessionID)

	h.logger.Info("WebSocket 连接建立",
		zap.String("visitorId", v.ID),
		zap.String("sessionId", sessionID))

	// 连接建立后先推送一次完整状态
	_ = h.push.Push(v.ID, service.PushLocale, v.Lang.Resolver())
	_ = h.push.Push(v.ID, service.PushChat, v.Chat.Snapshot())
	_ = h.push.Push(v.ID, service.PushWizard, v.Wizard.Snapshot())

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket 读取错误", zap.Error(err))
			}
			break
		}
		h.handleMessage(v, &msg)
	}

	h.logger.Info("WebSocket 连接断开", zap.String("visitorId", v.ID))
}

// handleMessage 处理浏览器消息
func (h *WebSocketHandler) handleMessage(v *service.Visitor, msg *clientMessage) {
	switch msg.Type {
	case service.PushHeartbeat:
		h.push.UpdateHeartbeat(v.ID)
		v.Touch(time.Now())
		h.logger.Debug("收到心跳", zap.String("visitorId", v.ID))

	default:
		h.logger.Warn("未知消息类型",
			zap.String("visitorId", v.ID),
			zap.String("type", msg.Type))
	}
}
