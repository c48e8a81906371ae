package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/middleware"
	"github.com/thaiturk/portal-go/internal/service"
)

// LocaleHandler 语言偏好接口
type LocaleHandler struct {
	visitors *service.VisitorService
	logger   *zap.Logger
}

// NewLocaleHandler 创建语言处理器
func NewLocaleHandler(visitors *service.VisitorService, logger *zap.Logger) *LocaleHandler {
	return &LocaleHandler{
		visitors: visitors,
		logger:   logger,
	}
}

// Get 当前语言
func (h *LocaleHandler) Get(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	r := v.Lang.Resolver()
	c.JSON(200, gin.H{
		"language":  r.Lang,
		"dir":       r.Dir,
		"languages": locale.Languages,
	})
}

// Set 修改语言
func (h *LocaleHandler) Set(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	if err := v.Lang.Set(c.Request.Context(), locale.Language(req.Language)); err != nil {
		h.logger.Warn("修改语言失败", zap.String("visitorId", v.ID), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.Set(middleware.LanguageKey, v.Lang.Current())

	r := v.Lang.Resolver()
	c.JSON(200, gin.H{"success": true, "language": r.Lang, "dir": r.Dir})
}
