package locale

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thaiturk/portal-go/internal/store"
	"go.uber.org/zap"
)

// ErrUnsupportedLanguage 不支持的语言
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Context 访客级语言上下文
// 启动时从存储中恢复一次，之后只能通过 Set 修改
type Context struct {
	kv     store.KV
	logger *zap.Logger

	mu     sync.RWMutex
	lang   Language
	subs   map[int]chan Language
	nextID int

	initOnce sync.Once
}

// NewContext 创建语言上下文，初始为默认语言
func NewContext(kv store.KV, logger *zap.Logger) *Context {
	return &Context{
		kv:     kv,
		logger: logger,
		lang:   Default,
		subs:   make(map[int]chan Language),
	}
}

// Init 从存储恢复语言偏好（只执行一次）
func (c *Context) Init(ctx context.Context) Language {
	c.initOnce.Do(func() {
		stored, err := c.kv.Get(ctx, store.KeyLanguage)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				c.logger.Warn("读取语言偏好失败，使用默认语言", zap.Error(err))
			}
			return
		}
		lang, ok := Parse(stored)
		if !ok {
			c.logger.Warn("存储中的语言无效，使用默认语言", zap.String("stored", stored))
			return
		}
		c.mu.Lock()
		c.lang = lang
		c.mu.Unlock()
	})
	return c.Current()
}

// Current 当前语言
func (c *Context) Current() Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// Resolver 当前语言的翻译查找
func (c *Context) Resolver() Resolver {
	return Resolve(c.Current())
}

// Set 修改语言：持久化并通知订阅者
func (c *Context) Set(ctx context.Context, lang Language) error {
	parsed, ok := Parse(string(lang))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	lang = parsed
	if err := c.kv.Set(ctx, store.KeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("保存语言偏好失败: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lang == lang {
		return nil
	}
	c.lang = lang
	for _, ch := range c.subs {
		// 只保留最新值，慢订阅者不会阻塞写入
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- lang:
		default:
		}
	}
	return nil
}

// Subscribe 订阅语言变化，取消后通道被关闭
func (c *Context) Subscribe() (<-chan Language, func()) {
	ch := make(chan Language, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
	return ch, cancel
}
