// Package headline は海外就業ニュース見出しのバックグラウンド取得を提供する。
// 設定されたRSSフィードを定期的にフェッチし、直近の見出しスナップショットを
// プロセス内に保持する。ページ描画はスナップショットを読むだけで
// 外部呼び出しを伴わない。
package headline

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/jobscout/internal/model"
)

// SSRFValidator はフィード取得のSSRF防御インターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// Sanitizer は見出しテキストのサニタイズインターフェース。
type Sanitizer interface {
	SanitizeText(s string) string
}

// MetricsRecorder はフィード取得の成否を記録するインターフェース。
type MetricsRecorder interface {
	RecordHeadlineFetchSuccess()
	RecordHeadlineFetchFailure()
}

// noopMetrics はメトリクス未設定時のレコーダー。
type noopMetrics struct{}

func (noopMetrics) RecordHeadlineFetchSuccess() {}
func (noopMetrics) RecordHeadlineFetchFailure() {}

// Config は見出しワーカーの設定。
type Config struct {
	FeedURLs       []string
	Timeout        time.Duration
	MaxBodySize    int64
	MaxCount       int // スナップショットに保持する見出しの最大件数
	MaxConcurrency int
}

// Refresher は複数のRSSフィードを並列フェッチし、見出しスナップショットを更新する。
type Refresher struct {
	cfg       Config
	ssrfGuard SSRFValidator
	sanitizer Sanitizer
	metrics   MetricsRecorder
	logger    *slog.Logger

	mu       sync.RWMutex
	snapshot []model.Headline
}

// NewRefresher はRefresherの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値4を使用する。
func NewRefresher(cfg Config, ssrfGuard SSRFValidator, sanitizer Sanitizer, metrics MetricsRecorder, logger *slog.Logger) *Refresher {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Refresher{
		cfg:       cfg,
		ssrfGuard: ssrfGuard,
		sanitizer: sanitizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Headlines は直近の見出しスナップショットのコピーを返す。
func (r *Refresher) Headlines() []model.Headline {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Headline, len(r.snapshot))
	copy(out, r.snapshot)
	return out
}

// Start は指定間隔のティッカーでワーカーを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (r *Refresher) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("見出しワーカーを開始しました",
		slog.Duration("interval", interval),
		slog.Int("feed_count", len(r.cfg.FeedURLs)),
	)

	// 起動直後に1回実行
	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("見出しワーカーを停止しました")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce は全フィードを並列でフェッチし、スナップショットを更新する。
// semaphoreパターンで最大並列数を制御する。
// 一部のフィードが失敗しても成功分だけでスナップショットを組み立てる。
// 全フィードが失敗した場合は前回のスナップショットを保持する。
func (r *Refresher) RunOnce(ctx context.Context) {
	start := time.Now()

	sem := make(chan struct{}, r.cfg.MaxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var collected []model.Headline
	succeeded := 0

	for _, feedURL := range r.cfg.FeedURLs {
		wg.Add(1)
		sem <- struct{}{}

		go func(feedURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			headlines, err := r.fetchFeed(ctx, feedURL)
			if err != nil {
				r.metrics.RecordHeadlineFetchFailure()
				r.logger.Warn("見出しフィードの取得に失敗しました",
					slog.String("feed_url", feedURL),
					slog.String("error", err.Error()),
				)
				return
			}
			r.metrics.RecordHeadlineFetchSuccess()

			mu.Lock()
			collected = append(collected, headlines...)
			succeeded++
			mu.Unlock()
		}(feedURL)
	}

	wg.Wait()

	if succeeded == 0 && len(r.cfg.FeedURLs) > 0 {
		r.logger.Warn("全ての見出しフィードが失敗したため、前回のスナップショットを保持します")
		return
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].PublishedAt.After(collected[j].PublishedAt)
	})
	if len(collected) > r.cfg.MaxCount {
		collected = collected[:r.cfg.MaxCount]
	}

	r.mu.Lock()
	r.snapshot = collected
	r.mu.Unlock()

	r.logger.Info("見出しスナップショットを更新しました",
		slog.Int("headline_count", len(collected)),
		slog.Int("feeds_succeeded", succeeded),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
}

// fetchFeed は1つのフィードをフェッチしてパースし、見出しに変換する。
func (r *Refresher) fetchFeed(ctx context.Context, feedURL string) ([]model.Headline, error) {
	if err := r.ssrfGuard.ValidateURL(feedURL); err != nil {
		return nil, err
	}

	client := r.ssrfGuard.NewSafeClient(r.cfg.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Jobscout/1.0 Headline Fetcher")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxBodySize))
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, err
	}

	source := r.sanitizer.SanitizeText(parsed.Title)
	headlines := make([]model.Headline, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		h := model.Headline{
			Title:  r.sanitizer.SanitizeText(item.Title),
			Link:   item.Link,
			Source: source,
		}
		if item.PublishedParsed != nil {
			h.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			h.PublishedAt = *item.UpdatedParsed
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}
