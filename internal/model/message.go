package model

import "time"

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage 聊天消息，创建后不可变
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Error     bool      `json:"error,omitempty"`
	RetryText string    `json:"retry_text,omitempty"` // 失败消息携带原始请求文本，用于重试
}

// ChatSession 聊天会话（后端签发的会话 ID）
type ChatSession struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

// QuickAction 快捷提问
type QuickAction struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PushMessage websocket 推送消息
type PushMessage struct {
	Type      string      `json:"type"` // chat, wizard, locale, HEARTBEAT
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
