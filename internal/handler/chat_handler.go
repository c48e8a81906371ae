package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/middleware"
	"github.com/thaiturk/portal-go/internal/service"
)

// ChatHandler 聊天面板接口
type ChatHandler struct {
	visitors *service.VisitorService
	logger   *zap.Logger
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(visitors *service.VisitorService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		visitors: visitors,
		logger:   logger,
	}
}

// State 当前聊天快照
func (h *ChatHandler) State(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	respondState(c, nil, v.Chat.Snapshot())
}

// Open 打开面板，必要时创建会话
func (h *ChatHandler) Open(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	err := v.Chat.Open(c.Request.Context())
	if err != nil {
		h.logger.Warn("打开聊天失败", zap.String("visitorId", v.ID), zap.Error(err))
	}
	respondState(c, err, v.Chat.Snapshot())
}

// Close 关闭面板
func (h *ChatHandler) Close(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	v.Chat.Close()
	respondState(c, nil, v.Chat.Snapshot())
}

// Send 发送消息
func (h *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	err := v.Chat.Send(c.Request.Context(), req.Text)
	respondState(c, err, v.Chat.Snapshot())
}

// Retry 重试失败的消息
func (h *ChatHandler) Retry(c *gin.Context) {
	var req struct {
		Text      string `json:"text" binding:"required"`
		MessageID string `json:"message_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	err := v.Chat.Retry(c.Request.Context(), req.Text, req.MessageID)
	respondState(c, err, v.Chat.Snapshot())
}

// Quick 快捷提问
func (h *ChatHandler) Quick(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	err := v.Chat.QuickAction(c.Request.Context(), req.Value)
	respondState(c, err, v.Chat.Snapshot())
}

// Clear 清空对话并重新建立会话
func (h *ChatHandler) Clear(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	ctx := c.Request.Context()
	if err := v.Chat.Clear(ctx); err != nil {
		h.logger.Error("清空聊天失败", zap.String("visitorId", middleware.VisitorID(c)), zap.Error(err))
		respondState(c, err, v.Chat.Snapshot())
		return
	}
	err := v.Chat.Open(ctx)
	respondState(c, err, v.Chat.Snapshot())
}
