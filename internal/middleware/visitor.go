package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// VisitorCookie 访客标识 cookie
	VisitorCookie = "visitor_id"
	visitorKey    = "visitor_id"
	visitorMaxAge = 365 * 24 * 3600
)

// Visitor 为每个请求分配访客 ID，缺失或非法时签发新的 cookie
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || !validVisitorID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secure, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

// VisitorID 当前请求的访客 ID
func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
