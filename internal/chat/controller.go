package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/client"
	"github.com/thaiturk/portal-go/internal/faq"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/model"
	"github.com/thaiturk/portal-go/internal/store"
)

var (
	ErrEmptyMessage    = errors.New("chat: empty message")
	ErrNoSession       = errors.New("chat: no session")
	ErrBusy            = errors.New("chat: send already in flight")
	ErrMessageNotFound = errors.New("chat: message not found")
	ErrQuickActionGone = errors.New("chat: quick actions only before the first exchange")
)

// State 聊天面板状态
type State string

const (
	StateClosed  State = "closed"
	StateOpening State = "opening"
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateError   State = "error"
)

// Gateway 聊天所需的后端接口
type Gateway interface {
	StartChatSession(ctx context.Context, language string) (*client.ChatSessionResponse, error)
	SendChatMessage(ctx context.Context, sessionID, message, language string) (*client.ChatMessageResponse, error)
}

// LanguageSource 当前语言
type LanguageSource interface {
	Current() locale.Language
}

// Config 控制器参数
type Config struct {
	FAQEnabled          bool
	EscalationThreshold int
}

// Snapshot 对外暴露的只读状态
type Snapshot struct {
	State          State               `json:"state"`
	SessionID      string              `json:"session_id,omitempty"`
	Messages       []model.ChatMessage `json:"messages"`
	Loading        bool                `json:"loading"`
	Escalated      bool                `json:"escalated"`
	EscalationText string              `json:"escalation_text,omitempty"`
	QuickActions   []model.QuickAction `json:"quick_actions,omitempty"`
}

// Observer 状态变化回调
type Observer func(Snapshot)

// Controller 单个访客的聊天会话控制器
type Controller struct {
	gw     Gateway
	kv     store.KV
	lang   LanguageSource
	cfg    Config
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	sessionID string
	messages  []model.ChatMessage
	sending   bool
	exchanges int
	escalated bool
	epoch     int // Clear 时递增，丢弃过期的回复
	observer  Observer
}

// NewController 创建聊天控制器
func NewController(gw Gateway, kv store.KV, lang LanguageSource, cfg Config, logger *zap.Logger) *Controller {
	if cfg.EscalationThreshold <= 0 {
		cfg.EscalationThreshold = 2
	}
	return &Controller{
		gw:     gw,
		kv:     kv,
		lang:   lang,
		cfg:    cfg,
		logger: logger,
		state:  StateClosed,
	}
}

// SetObserver 设置状态变化回调
func (c *Controller) SetObserver(o Observer) {
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

// Open 打开聊天面板
// 有缓存的会话 ID 时直接复用，否则向后端申请新会话
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateOpening || c.sending {
		c.mu.Unlock()
		return nil
	}
	if c.sessionID != "" {
		c.state = StateIdle
		c.mu.Unlock()
		c.notify()
		return nil
	}
	c.state = StateOpening
	epoch := c.epoch
	c.mu.Unlock()
	c.notify()

	lang := c.lang.Current()
	tr := locale.Resolve(lang)

	cached, err := c.kv.Get(ctx, store.KeyChatSession)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.logger.Warn("读取缓存会话失败", zap.Error(err))
	}
	if cached != "" {
		c.mu.Lock()
		if c.epoch == epoch {
			c.sessionID = cached
			c.state = StateIdle
			if len(c.messages) == 0 {
				c.messages = append(c.messages, c.newMessage(model.RoleAssistant, tr.T(locale.KeyChatGreeting)))
			}
		}
		c.mu.Unlock()
		c.logger.Info("复用聊天会话", zap.String("sessionId", cached))
		c.notify()
		return nil
	}

	resp, err := c.gw.StartChatSession(ctx, string(lang))
	if err != nil {
		c.logger.Error("创建聊天会话失败", zap.Error(err))
		c.mu.Lock()
		if c.epoch == epoch {
			c.sessionID = ""
			c.state = StateError
			msg := c.newMessage(model.RoleAssistant, tr.T(locale.KeyChatError))
			msg.Error = true
			c.messages = []model.ChatMessage{msg}
		}
		c.mu.Unlock()
		c.notify()
		return fmt.Errorf("创建聊天会话失败: %w", err)
	}

	greeting := resp.Greeting
	if greeting == "" {
		greeting = tr.T(locale.KeyChatGreeting)
	}
	c.mu.Lock()
	applied := c.epoch == epoch
	if applied {
		c.sessionID = resp.SessionID
		c.state = StateIdle
		c.messages = append(c.messages, c.newMessage(model.RoleAssistant, greeting))
	}
	c.mu.Unlock()

	if applied {
		if err := c.kv.Set(ctx, store.KeyChatSession, resp.SessionID); err != nil {
			c.logger.Warn("保存会话 ID 失败", zap.Error(err))
		}
		c.logger.Info("聊天会话已创建", zap.String("sessionId", resp.SessionID), zap.String("language", string(lang)))
	}
	c.notify()
	return nil
}

// Send 发送消息
// 空消息、无会话、已有请求在途时直接返回对应错误，不修改状态
func (c *Controller) Send(ctx context.Context, text string) error {
	return c.send(ctx, text, "", false)
}

// Retry 删除失败的回复并重新发送原文
func (c *Controller) Retry(ctx context.Context, originalText, failedMessageID string) error {
	return c.send(ctx, originalText, failedMessageID, false)
}

// QuickAction 等同于 Send(value)，只在第一次对话之前可用
func (c *Controller) QuickAction(ctx context.Context, value string) error {
	return c.send(ctx, value, "", true)
}

func (c *Controller) send(ctx context.Context, text, removeID string, quick bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	if quick && len(c.quickActionsLocked()) == 0 {
		c.mu.Unlock()
		return ErrQuickActionGone
	}
	if removeID != "" {
		idx := c.indexOf(removeID)
		if idx < 0 {
			c.mu.Unlock()
			return ErrMessageNotFound
		}
		c.messages = append(c.messages[:idx:idx], c.messages[idx+1:]...)
	}
	c.sending = true
	if c.state != StateClosed {
		c.state = StateSending
	}
	c.messages = append(c.messages, c.newMessage(model.RoleUser, text))
	sessionID := c.sessionID
	epoch := c.epoch
	c.mu.Unlock()
	c.notify()

	lang := c.lang.Current()
	tr := locale.Resolve(lang)

	var reply model.ChatMessage
	if answer, ok := c.matchFAQ(text, lang); ok {
		reply = c.newMessage(model.RoleAssistant, answer)
	} else {
		resp, err := c.gw.SendChatMessage(ctx, sessionID, text, string(lang))
		if err != nil {
			c.logger.Error("发送聊天消息失败", zap.String("sessionId", sessionID), zap.Error(err))
			reply = c.newMessage(model.RoleAssistant, tr.T(locale.KeyChatError))
			reply.Error = true
			reply.RetryText = text
		} else {
			content := resp.Response
			if strings.TrimSpace(content) == "" {
				content = tr.T(locale.KeyChatFallback)
			}
			reply = c.newMessage(model.RoleAssistant, content)
			if resp.MessageID != "" {
				reply.ID = resp.MessageID
			}
		}
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// 已被 Clear，丢弃
		c.mu.Unlock()
		return nil
	}
	c.sending = false
	c.messages = append(c.messages, reply)
	// 失败气泡同样算一次回复
	c.exchanges++
	if c.exchanges >= c.cfg.EscalationThreshold && !c.escalated {
		c.escalated = true
		c.logger.Info("聊天升级到人工", zap.String("sessionId", sessionID), zap.Int("exchanges", c.exchanges))
	}
	if c.state != StateClosed {
		if reply.Error {
			c.state = StateError
		} else {
			c.state = StateIdle
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) matchFAQ(text string, lang locale.Language) (string, bool) {
	if !c.cfg.FAQEnabled {
		return "", false
	}
	return faq.Match(text, faq.TableFor(lang))
}

// Clear 清空对话并删除缓存的会话 ID
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	c.messages = nil
	c.sessionID = ""
	c.sending = false
	c.exchanges = 0
	c.escalated = false
	if c.state != StateClosed {
		c.state = StateIdle
	}
	c.mu.Unlock()

	err := c.kv.Delete(ctx, store.KeyChatSession)
	c.notify()
	if err != nil {
		return fmt.Errorf("删除缓存会话失败: %w", err)
	}
	return nil
}

// Close 关闭面板，保留会话和对话记录
func (c *Controller) Close() {
	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
	c.notify()
}

// Escalated 是否已出现人工入口
func (c *Controller) Escalated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.escalated
}

// QuickActions 只在尚未发生真实对话时返回
func (c *Controller) QuickActions() []model.QuickAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quickActionsLocked()
}

func (c *Controller) quickActionsLocked() []model.QuickAction {
	if len(c.messages) > 1 || c.sending {
		return nil
	}
	tr := locale.Resolve(c.lang.Current())
	return []model.QuickAction{
		{Label: tr.T(locale.KeyChatQuickPricing), Value: tr.T(locale.KeyChatQuickPricingValue)},
		{Label: tr.T(locale.KeyChatQuickHospitals), Value: tr.T(locale.KeyChatQuickHospitalsValue)},
		{Label: tr.T(locale.KeyChatQuickBooking), Value: tr.T(locale.KeyChatQuickBookingValue)},
	}
}

// Snapshot 当前状态的副本
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	msgs := make([]model.ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	s := Snapshot{
		State:        c.state,
		SessionID:    c.sessionID,
		Messages:     msgs,
		Loading:      c.sending,
		Escalated:    c.escalated,
		QuickActions: c.quickActionsLocked(),
	}
	if c.escalated {
		s.EscalationText = locale.Resolve(c.lang.Current()).T(locale.KeyChatEscalation)
	}
	return s
}

func (c *Controller) notify() {
	c.mu.Lock()
	o := c.observer
	var snap Snapshot
	if o != nil {
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()
	if o != nil {
		o(snap)
	}
}

func (c *Controller) indexOf(id string) int {
	for i, m := range c.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) newMessage(role model.Role, content string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
