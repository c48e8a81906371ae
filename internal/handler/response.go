package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thaiturk/portal-go/internal/chat"
	"github.com/thaiturk/portal-go/internal/imageproc"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/middleware"
	"github.com/thaiturk/portal-go/internal/service"
	"github.com/thaiturk/portal-go/internal/wizard"
)

// visitorFrom 取出当前访客，并记录语言供兜底错误使用
func visitorFrom(c *gin.Context, visitors *service.VisitorService) *service.Visitor {
	v := visitors.Get(c.Request.Context(), middleware.VisitorID(c))
	c.Set(middleware.LanguageKey, v.Lang.Current())
	return v
}

// statusFor 将组件错误映射为 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, wizard.ErrUnknownProcedure),
		errors.Is(err, wizard.ErrUnknownQuestion),
		errors.Is(err, wizard.ErrInvalidOption),
		errors.Is(err, wizard.ErrInvalidBounds),
		errors.Is(err, locale.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrNoSession),
		errors.Is(err, chat.ErrBusy),
		errors.Is(err, chat.ErrQuickActionGone),
		errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrNoAnswers),
		errors.Is(err, wizard.ErrNoImage),
		errors.Is(err, wizard.ErrPostOpDone):
		return http.StatusConflict
	case errors.Is(err, imageproc.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imageproc.ErrInvalidFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadGateway
	}
}

// respondState 返回组件快照，出错时附带错误和状态码
func respondState(c *gin.Context, err error, state interface{}) {
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error(), "state": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": state})
}
