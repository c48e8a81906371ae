package poller

import (
	"context"
	"sync/atomic"
	"time"
)

// Config 轮询参数
type Config struct {
	Interval    time.Duration
	MaxAttempts int
}

// CheckFunc 单次检查，attempt 从 1 开始
// 返回 true 表示结束，不再调度下一次
type CheckFunc func(ctx context.Context, attempt int) (done bool)

// ExhaustedFunc 所有尝试用完仍未结束时调用
type ExhaustedFunc func(ctx context.Context)

// Task 可取消的轮询任务
// 同一时刻最多只有一个检查在执行，两次检查之间使用定时器
type Task struct {
	cancel context.CancelFunc
	alive  atomic.Bool
	done   chan struct{}
}

// Start 启动轮询，第一次检查在一个间隔之后
func Start(parent context.Context, cfg Config, check CheckFunc, exhausted ExhaustedFunc) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.alive.Store(true)
	go t.run(ctx, cfg, check, exhausted)
	return t
}

func (t *Task) run(ctx context.Context, cfg Config, check CheckFunc, exhausted ExhaustedFunc) {
	defer close(t.done)
	defer t.alive.Store(false)

	timer := time.NewTimer(cfg.Interval)
	defer timer.Stop()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !t.live(ctx) {
			return
		}
		if check(ctx, attempt) {
			return
		}
		if !t.live(ctx) {
			return
		}
		timer.Reset(cfg.Interval)
	}

	if exhausted != nil && t.live(ctx) {
		exhausted(ctx)
	}
}

func (t *Task) live(ctx context.Context) bool {
	return t.alive.Load() && ctx.Err() == nil
}

// Stop 取消任务，返回后不会再开始新的检查
// 正在执行的检查通过 ctx 感知取消，可以在检查内部调用
func (t *Task) Stop() {
	t.alive.Store(false)
	t.cancel()
}

// Alive 任务是否仍在运行
func (t *Task) Alive() bool {
	return t.alive.Load()
}

// Done 任务结束时关闭
func (t *Task) Done() <-chan struct{} {
	return t.done
}
