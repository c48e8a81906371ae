package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/chat"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/model"
	"github.com/thaiturk/portal-go/internal/store"
	"github.com/thaiturk/portal-go/internal/wizard"
)

// Gateway 访客组件需要的全部后端接口
type Gateway interface {
	chat.Gateway
	wizard.Gateway
}

// Pusher 状态推送
type Pusher interface {
	Push(visitorID, msgType string, data interface{}) error
}

// VisitorConfig 访客组件参数
type VisitorConfig struct {
	Chat   chat.Config
	Wizard wizard.Config
	Idle   time.Duration // 空闲多久后回收内存中的状态
}

// Visitor 单个访客的全部状态
type Visitor struct {
	ID     string
	Lang   *locale.Context
	Chat   *chat.Controller
	Wizard *wizard.Wizard

	lastSeen    time.Time
	unsubscribe func()
	mu          sync.Mutex
}

// Touch 记录访问时间
func (v *Visitor) Touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

func (v *Visitor) close() {
	v.unsubscribe()
	v.Wizard.Close()
}

// VisitorService 访客状态注册表
type VisitorService struct {
	gw     Gateway
	store  store.Store
	pusher Pusher
	cfg    VisitorConfig

	visitors map[string]*Visitor
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// NewVisitorService 创建访客注册表并启动空闲回收
func NewVisitorService(gw Gateway, s store.Store, pusher Pusher, cfg VisitorConfig, logger *zap.Logger) *VisitorService {
	if cfg.Idle <= 0 {
		cfg.Idle = 30 * time.Minute
	}
	vs := &VisitorService{
		gw:       gw,
		store:    s,
		pusher:   pusher,
		cfg:      cfg,
		visitors: make(map[string]*Visitor),
		stop:     make(chan struct{}),
		logger:   logger,
	}

	go vs.idleCollector()

	return vs
}

// Get 获取访客状态，不存在时创建并从存储恢复语言偏好
func (s *VisitorService) Get(ctx context.Context, visitorID string) *Visitor {
	now := time.Now()

	s.mu.Lock()
	if v, ok := s.visitors[visitorID]; ok {
		s.mu.Unlock()
		v.Touch(now)
		v.Lang.Init(ctx)
		return v
	}

	v := s.newVisitor(visitorID)
	v.lastSeen = now
	s.visitors[visitorID] = v
	s.mu.Unlock()

	lang := v.Lang.Init(ctx)
	s.logger.Info("访客状态已创建", zap.String("visitorId", visitorID), zap.String("language", string(lang)))
	return v
}

func (s *VisitorService) newVisitor(visitorID string) *Visitor {
	logger := s.logger.With(zap.String("visitorId", visitorID))
	kv := store.NewBucket(s.store, visitorID)

	lang := locale.NewContext(kv, logger)
	ctrl := chat.NewController(s.gw, kv, lang, s.cfg.Chat, logger)
	wiz := wizard.New(s.gw, lang, s.cfg.Wizard, logger)

	ctrl.SetObserver(func(snap chat.Snapshot) { s.push(visitorID, PushChat, snap) })
	wiz.SetObserver(func(state model.WizardState) { s.push(visitorID, PushWizard, state) })

	changes, unsubscribe := lang.Subscribe()
	go func() {
		for l := range changes {
			s.push(visitorID, PushLocale, locale.Resolve(l))
			// 文案随语言变化，重新推送快照
			s.push(visitorID, PushChat, ctrl.Snapshot())
			s.push(visitorID, PushWizard, wiz.Snapshot())
		}
	}()

	return &Visitor{
		ID:          visitorID,
		Lang:        lang,
		Chat:        ctrl,
		Wizard:      wiz,
		unsubscribe: unsubscribe,
	}
}

func (s *VisitorService) push(visitorID, msgType string, data interface{}) {
	if s.pusher == nil {
		return
	}
	if err := s.pusher.Push(visitorID, msgType, data); err != nil && !errors.Is(err, ErrVisitorOffline) {
		s.logger.Warn("状态推送失败", zap.String("visitorId", visitorID), zap.String("type", msgType), zap.Error(err))
	}
}

// Remove 回收访客状态
func (s *VisitorService) Remove(visitorID string) {
	s.mu.Lock()
	v, ok := s.visitors[visitorID]
	delete(s.visitors, visitorID)
	s.mu.Unlock()

	if ok {
		v.close()
		s.logger.Info("访客状态已回收", zap.String("visitorId", visitorID))
	}
}

// Count 当前内存中的访客数
func (s *VisitorService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// Stop 停止回收并释放所有访客
func (s *VisitorService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		visitors := s.visitors
		s.visitors = make(map[string]*Visitor)
		s.mu.Unlock()

		for _, v := range visitors {
			v.close()
		}
	})
}

func (s *VisitorService) idleCollector() {
	interval := s.cfg.Idle / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.collect(now)
		}
	}
}

// collect 回收空闲访客，正在轮询的向导不回收
func (s *VisitorService) collect(now time.Time) {
	s.mu.Lock()
	var idle []*Visitor
	for id, v := range s.visitors {
		if v.idleSince(now) > s.cfg.Idle && !v.Wizard.Polling() {
			idle = append(idle, v)
			delete(s.visitors, id)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.close()
		s.logger.Info("回收空闲访客", zap.String("visitorId", v.ID))
	}
}
