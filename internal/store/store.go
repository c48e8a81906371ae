// Package store 访客客户端存储（会话 ID、语言偏好）
package store

import (
	"context"
	"errors"
	"sync"
)

// 持久化键，与前端 localStorage 键保持一致
const (
	KeyChatSession = "thaiturk_chat_session"
	KeyLanguage    = "thaiturk_lang"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("store: key not found")

// Store 按访客隔离的键值存储
type Store interface {
	Get(ctx context.Context, visitorID, key string) (string, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Delete(ctx context.Context, visitorID, key string) error
}

// KV 单个访客视角的键值存储
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Bucket 将 Store 绑定到某个访客
type Bucket struct {
	store     Store
	visitorID string
}

// NewBucket 创建访客存储桶
func NewBucket(s Store, visitorID string) *Bucket {
	return &Bucket{store: s, visitorID: visitorID}
}

func (b *Bucket) Get(ctx context.Context, key string) (string, error) {
	return b.store.Get(ctx, b.visitorID, key)
}

func (b *Bucket) Set(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, b.visitorID, key, value)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, b.visitorID, key)
}

// MemoryStore 内存存储（开发与测试使用）
type MemoryStore struct {
	data map[string]map[string]string
	mu   sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, visitorID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[visitorID][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, visitorID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.data[visitorID]
	if !ok {
		m = make(map[string]string)
		s.data[visitorID] = m
	}
	m[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, visitorID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[visitorID], key)
	return nil
}
