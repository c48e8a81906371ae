package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers 门户全部处理器
type Handlers struct {
	API       *APIHandler
	Chat      *ChatHandler
	Wizard    *WizardHandler
	Locale    *LocaleHandler
	WebSocket *WebSocketHandler
}

// Register 注册 /api/v1 下的路由
func (h *Handlers) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	v1.GET("/health", h.API.Health)

	v1.GET("/locale", h.Locale.Get)
	v1.PUT("/locale", h.Locale.Set)

	chat := v1.Group("/chat")
	chat.GET("", h.Chat.State)
	chat.GET("/history", h.API.ChatHistory)
	chat.POST("/open", h.Chat.Open)
	chat.POST("/close", h.Chat.Close)
	chat.POST("/send", h.Chat.Send)
	chat.POST("/retry", h.Chat.Retry)
	chat.POST("/quick", h.Chat.Quick)
	chat.POST("/clear", h.Chat.Clear)

	wiz := v1.Group("/wizard")
	wiz.GET("", h.Wizard.State)
	wiz.GET("/procedures", h.Wizard.Procedures)
	wiz.POST("/procedure", h.Wizard.SelectProcedure)
	wiz.POST("/answer", h.Wizard.Answer)
	wiz.POST("/next", h.Wizard.Next)
	wiz.POST("/back", h.Wizard.Back)
	wiz.POST("/photo", h.Wizard.Photo)
	wiz.POST("/generate", h.Wizard.Generate)
	wiz.POST("/reveal", h.Wizard.Reveal)
	wiz.POST("/post-op", h.Wizard.PostOp)
	wiz.POST("/reset", h.Wizard.Reset)

	v1.POST("/intake/medical", h.API.MedicalIntake)
	v1.POST("/intake/travel", h.API.TravelIntake)

	v1.GET("/hospitals", h.API.Hospitals)
	v1.GET("/procedures", h.API.Procedures)
	v1.GET("/destinations", h.API.Destinations)
	v1.GET("/blog/posts", h.API.BlogPosts)
	v1.GET("/blog/posts/:slug", h.API.BlogPost)

	v1.GET("/ws", h.WebSocket.HandleWebSocket)
}
