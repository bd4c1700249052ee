package recruitment

import (
	"sync"
	"time"

	"github.com/hitoshi/jobscout/internal/model"
)

// 現在時刻の取得関数。テストで差し替える。
var now = time.Now

// stashEntry は保持中の分析結果と失効時刻。
type stashEntry struct {
	result    *model.JobPostingRiskResponse
	expiresAt time.Time
}

// ResultStash は分析結果のセッションスコープ一時ストア。
// プロセス内メモリにのみ保持し、再起動をまたいで永続化しない。
// 結果はTTL経過後に参照できなくなる。
type ResultStash struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]stashEntry
}

// NewResultStash はTTL付きの一時ストアを生成する。
func NewResultStash(ttl time.Duration) *ResultStash {
	return &ResultStash{
		ttl:     ttl,
		entries: make(map[string]stashEntry),
	}
}

// Put はキーに対する分析結果を保存する。既存の結果は上書きされる。
func (s *ResultStash) Put(key string, result *model.JobPostingRiskResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = stashEntry{
		result:    result,
		expiresAt: now().Add(s.ttl),
	}
}

// Get はキーに対する分析結果を返す。未保存または失効済みの場合はfalseを返す。
// 結果は取り出しても消えない。再読み込みで同じレポートを再描画できる。
func (s *ResultStash) Get(key string) (*model.JobPostingRiskResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok || now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

// Delete はキーに対する結果を破棄する。ログアウト・退会時に呼ばれる。
func (s *ResultStash) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// RemoveExpired は失効済みエントリを削除し、削除件数を返す。
// バックグラウンドの掃除ループから定期的に呼ばれる。
func (s *ResultStash) RemoveExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if now().After(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len は保持中のエントリ数を返す。失効済みを含む。
func (s *ResultStash) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
