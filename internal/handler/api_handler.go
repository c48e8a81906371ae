package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/chat"
	"github.com/thaiturk/portal-go/internal/client"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/service"
)

// CatalogGateway 表单与目录接口需要的后端调用
type CatalogGateway interface {
	SubmitMedicalIntake(ctx context.Context, body client.MedicalIntakeRequest) (*client.IntakeResponse, error)
	SubmitTravelRequest(ctx context.Context, body client.TravelRequest) (*client.TravelResponse, error)
	GetHospitals(ctx context.Context) (*client.HospitalsResponse, error)
	GetProcedures(ctx context.Context) (*client.ProceduresResponse, error)
	GetDestinations(ctx context.Context) (*client.DestinationsResponse, error)
	GetBlogPosts(ctx context.Context, language, category string, page, perPage int) (*client.BlogPostsResponse, error)
	GetBlogPost(ctx context.Context, slug, language string) (*client.BlogPostResponse, error)
	GetChatHistory(ctx context.Context, sessionID string) (*client.ChatHistoryResponse, error)
	Health(ctx context.Context) (*client.HealthResponse, error)
}

// APIHandler 表单、目录与健康检查
type APIHandler struct {
	gw       CatalogGateway
	visitors *service.VisitorService
	push     *service.PushService
	name     string
	logger   *zap.Logger
}

// NewAPIHandler 创建 API 处理器
func NewAPIHandler(gw CatalogGateway, visitors *service.VisitorService, push *service.PushService, name string, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		gw:       gw,
		visitors: visitors,
		push:     push,
		name:     name,
		logger:   logger,
	}
}

// MedicalIntake 医疗咨询表单
func (h *APIHandler) MedicalIntake(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	var req client.MedicalIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.gw.SubmitMedicalIntake(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("提交医疗咨询失败",
			zap.String("visitorId", v.ID),
			zap.String("procedure", req.ProcedureInterest),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": v.Lang.Resolver().T(locale.KeyIntakeError)})
		return
	}

	h.logger.Info("医疗咨询已提交",
		zap.String("visitorId", v.ID),
		zap.String("patientId", resp.PatientID),
		zap.String("category", resp.ProcedureCategory))
	c.JSON(200, resp)
}

// TravelIntake 旅行需求表单
func (h *APIHandler) TravelIntake(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	var req client.TravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = string(v.Lang.Current())
	}

	resp, err := h.gw.SubmitTravelRequest(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("提交旅行需求失败", zap.String("visitorId", v.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": v.Lang.Resolver().T(locale.KeyIntakeError)})
		return
	}

	h.logger.Info("旅行需求已提交", zap.String("visitorId", v.ID), zap.String("requestId", resp.RequestID))
	c.JSON(200, resp)
}

// Hospitals 合作医院
func (h *APIHandler) Hospitals(c *gin.Context) {
	resp, err := h.gw.GetHospitals(c.Request.Context())
	h.relay(c, "hospitals", resp, err)
}

// Procedures 项目与价格
func (h *APIHandler) Procedures(c *gin.Context) {
	resp, err := h.gw.GetProcedures(c.Request.Context())
	h.relay(c, "procedures", resp, err)
}

// Destinations 旅行目的地
func (h *APIHandler) Destinations(c *gin.Context) {
	resp, err := h.gw.GetDestinations(c.Request.Context())
	h.relay(c, "destinations", resp, err)
}

// ChatHistory 当前会话在后端保存的历史
func (h *APIHandler) ChatHistory(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	sessionID := v.Chat.Snapshot().SessionID
	if sessionID == "" {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": chat.ErrNoSession.Error()})
		return
	}

	resp, err := h.gw.GetChatHistory(c.Request.Context(), sessionID)
	h.relay(c, "chat history", resp, err)
}

// contentLanguage 查询参数中的语言，缺失或不支持时使用访客语言
func contentLanguage(c *gin.Context, v *service.Visitor) string {
	if lang, ok := locale.Parse(c.Query("language")); ok {
		return string(lang)
	}
	return string(v.Lang.Current())
}

// BlogPosts 博客列表，默认使用访客语言
func (h *APIHandler) BlogPosts(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	lang := contentLanguage(c, v)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	resp, err := h.gw.GetBlogPosts(c.Request.Context(), lang, c.Query("category"), page, perPage)
	h.relay(c, "blog", resp, err)
}

// BlogPost 单篇博客
func (h *APIHandler) BlogPost(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	lang := contentLanguage(c, v)

	resp, err := h.gw.GetBlogPost(c.Request.Context(), c.Param("slug"), lang)
	h.relay(c, "blog", resp, err)
}

// relay 透传后端响应，404 原样返回，其他错误统一为 502
func (h *APIHandler) relay(c *gin.Context, what string, resp interface{}, err error) {
	if err == nil {
		c.JSON(200, resp)
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
		return
	}
	h.logger.Error("获取目录数据失败", zap.String("what", what), zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "backend unavailable"})
}

// Health 健康检查
func (h *APIHandler) Health(c *gin.Context) {
	backend := "UP"
	if _, err := h.gw.Health(c.Request.Context()); err != nil {
		h.logger.Warn("后端健康检查失败", zap.Error(err))
		backend = "DOWN"
	}
	c.JSON(200, gin.H{
		"status":          "UP",
		"service":         h.name,
		"backend":         backend,
		"online_visitors": h.push.OnlineCount(),
		"active_visitors": h.visitors.Count(),
	})
}
