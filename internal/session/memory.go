package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/jobscout/internal/model"
)

// MemoryStore はインメモリのセッションストア。
// テストで実ストレージに触れずに隔離されたセッションを注入するために使用する。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	maxAge   time.Duration
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		maxAge:   maxAge,
	}
}

// Create はトークンペアから新しいセッションを作成する。
func (s *MemoryStore) Create(ctx context.Context, accessToken, refreshToken string) (*model.Session, error) {
	sess := &model.Session{
		ID:           uuid.NewString(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    now().UTC(),
	}
	sess.ExpiresAt = sess.CreatedAt.Add(s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.ID] = &copied
	return sess, nil
}

// FindByID は指定IDのセッションを取得する。存在しない・期限切れの場合はnilを返す。
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || !sess.ExpiresAt.After(now().UTC()) {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

// Delete は指定IDのセッションを破棄する。存在しないIDはノーオペレーション。
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteExpired は期限切れセッションを一括削除する。
func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	cutoff := now().UTC()
	for id, sess := range s.sessions {
		if !sess.ExpiresAt.After(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len は現在保持しているセッション数を返す。テスト用。
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
