package news

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/jobscout/internal/model"
)

// Fetcher はこのサービスが利用するバックエンド呼び出しのインターフェース。
type Fetcher interface {
	MarketTrend(ctx context.Context) (*model.MarketTrendResponse, error)
	RecentComments(ctx context.Context, limit int) ([]model.NewsComment, error)
	CreateComment(ctx context.Context, content string) (*model.NewsComment, error)
}

// HeadlineSource は海外就業ニュース見出しのスナップショット提供元。
// バックグラウンドワーカーが保持する直近の取得結果を返す。
type HeadlineSource interface {
	Headlines() []model.Headline
}

// Config はニュースページの表示件数・チャート設定。
type Config struct {
	CommentLimit     int
	KeywordRankCount int
	ChartMaxHeight   int
}

// Service はニュースページのユースケースを提供する。
type Service struct {
	fetcher   Fetcher
	headlines HeadlineSource
	logger    *slog.Logger
	cfg       Config
}

// NewService はニュースサービスを生成する。
func NewService(fetcher Fetcher, headlines HeadlineSource, logger *slog.Logger, cfg Config) *Service {
	return &Service{
		fetcher:   fetcher,
		headlines: headlines,
		logger:    logger,
		cfg:       cfg,
	}
}

// View はニュースページの描画に必要なデータ一式。
type View struct {
	TrendSummary  string
	Keywords      []model.TrendKeyword
	NewsSummaries []model.NewsSummary
	Bars          []Bar
	Comments      []model.NewsComment
	Headlines     []model.Headline
}

// Load は市場トレンドと直近コメントを並行取得し、ニュースビューを組み立てる。
// コメントの取得失敗はページ全体を失敗させず、空のまま描画する。
// 見出しはワーカーのスナップショットから読むだけで外部呼び出しを伴わない。
func (s *Service) Load(ctx context.Context) (*View, error) {
	var (
		wg          sync.WaitGroup
		trend       *model.MarketTrendResponse
		trendErr    error
		comments    []model.NewsComment
		commentsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		trend, trendErr = s.fetcher.MarketTrend(ctx)
	}()
	go func() {
		defer wg.Done()
		comments, commentsErr = s.fetcher.RecentComments(ctx, s.cfg.CommentLimit)
	}()
	wg.Wait()

	if trendErr != nil {
		return nil, trendErr
	}
	if commentsErr != nil {
		s.logger.Warn("failed to fetch recent comments",
			slog.String("error", commentsErr.Error()),
		)
		comments = nil
	}

	return &View{
		TrendSummary:  trend.TrendSummary,
		Keywords:      TopKeywords(trend.Keywords, s.cfg.KeywordRankCount),
		NewsSummaries: trend.NewsSummaries,
		Bars:          NormalizeBars(trend.Industries, s.cfg.ChartMaxHeight),
		Comments:      comments,
		Headlines:     s.headlines.Headlines(),
	}, nil
}

// PostComment はコメント本文を検証して作成する。
// 空白のみの本文はバリデーションエラーとして返す。
func (s *Service) PostComment(ctx context.Context, content string) (*model.NewsComment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, model.NewCommentRequiredError()
	}
	return s.fetcher.CreateComment(ctx, trimmed)
}
