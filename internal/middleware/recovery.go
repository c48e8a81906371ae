package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/locale"
)

// LanguageKey 处理器写入当前访客语言的上下文键
const LanguageKey = "visitor_lang"

// Recovery 捕获 panic，返回本地化的兜底错误
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("请求处理 panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("visitorId", VisitorID(c)),
					zap.Stack("stack"))

				lang := locale.Default
				if v, ok := c.Get(LanguageKey); ok {
					if l, ok := v.(locale.Language); ok {
						lang = l
					}
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   locale.Resolve(lang).T(locale.KeySomethingWentWrong),
					"retry":   true,
				})
			}
		}()
		c.Next()
	}
}
