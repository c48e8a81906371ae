package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/service"
	"github.com/thaiturk/portal-go/internal/wizard"
)

// WizardHandler 可视化向导接口
type WizardHandler struct {
	visitors  *service.VisitorService
	maxUpload int64
	logger    *zap.Logger
}

// NewWizardHandler 创建向导处理器
func NewWizardHandler(visitors *service.VisitorService, maxUpload int64, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		visitors:  visitors,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// State 当前向导快照
func (h *WizardHandler) State(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	respondState(c, nil, v.Wizard.Snapshot())
}

// Procedures 可选项目列表
func (h *WizardHandler) Procedures(c *gin.Context) {
	c.JSON(200, gin.H{"procedures": wizard.Procedures})
}

// SelectProcedure 选择项目
func (h *WizardHandler) SelectProcedure(c *gin.Context) {
	var req struct {
		Procedure string `json:"procedure" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	err := v.Wizard.SelectProcedure(c.Request.Context(), req.Procedure)
	respondState(c, err, v.Wizard.Snapshot())
}

// Answer 回答问卷
func (h *WizardHandler) Answer(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		Option     string `json:"option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	err := v.Wizard.Answer(req.QuestionID, req.Option)
	respondState(c, err, v.Wizard.Snapshot())
}

// Next 进入上传步骤
func (h *WizardHandler) Next(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	respondState(c, v.Wizard.Next(), v.Wizard.Snapshot())
}

// Back 返回上一步
func (h *WizardHandler) Back(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	respondState(c, v.Wizard.Back(), v.Wizard.Snapshot())
}

// Photo 上传源照片（multipart 字段 photo）
func (h *WizardHandler) Photo(c *gin.Context) {
	data, mediaType, ok := h.readPhoto(c)
	if !ok {
		return
	}
	v := visitorFrom(c, h.visitors)
	err := v.Wizard.UploadPhoto(data, mediaType)
	respondState(c, err, v.Wizard.Snapshot())
}

// Generate 提交可视化任务
func (h *WizardHandler) Generate(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	err := v.Wizard.Generate(c.Request.Context())
	if err != nil {
		h.logger.Warn("提交可视化失败", zap.String("visitorId", v.ID), zap.Error(err))
	}
	respondState(c, err, v.Wizard.Snapshot())
}

// Reveal 更新对比滑块
func (h *WizardHandler) Reveal(c *gin.Context) {
	var req struct {
		X     float64 `json:"x"`
		Left  float64 `json:"left"`
		Width float64 `json:"width"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "invalid request"})
		return
	}

	v := visitorFrom(c, h.visitors)
	_, err := v.Wizard.Reveal(req.X, req.Left, req.Width)
	respondState(c, err, v.Wizard.Snapshot())
}

// PostOp 上传术后照片
func (h *WizardHandler) PostOp(c *gin.Context) {
	data, mediaType, ok := h.readPhoto(c)
	if !ok {
		return
	}
	v := visitorFrom(c, h.visitors)
	err := v.Wizard.SubmitPostOp(c.Request.Context(), data, mediaType)
	respondState(c, err, v.Wizard.Snapshot())
}

// Reset 重置向导
func (h *WizardHandler) Reset(c *gin.Context) {
	v := visitorFrom(c, h.visitors)
	v.Wizard.Reset()
	respondState(c, nil, v.Wizard.Snapshot())
}

// readPhoto 读取上传文件，最多读取上限加一个字节，超限交给向导判断
func (h *WizardHandler) readPhoto(c *gin.Context) ([]byte, string, bool) {
	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(400, gin.H{"success": false, "error": "missing photo"})
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(400, gin.H{"success": false, "error": "unreadable photo"})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.logger.Error("读取上传文件失败", zap.Error(err))
		c.JSON(400, gin.H{"success": false, "error": "unreadable photo"})
		return nil, "", false
	}
	return data, fh.Header.Get("Content-Type"), true
}
