package community

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/hitoshi/jobscout/internal/backend"
	"github.com/hitoshi/jobscout/internal/model"
)

// Fetcher はこのサービスが利用するバックエンド呼び出しのインターフェース。
type Fetcher interface {
	ListPosts(ctx context.Context, opts backend.ListPostsOptions) ([]model.CommunityPostSummary, error)
	GetPost(ctx context.Context, postID int64) (*model.CommunityPostDetail, error)
	ListCards(ctx context.Context, limit int) ([]model.CommunityPostCard, error)
	ListCases(ctx context.Context) ([]model.CaseArchiveItem, error)
	CreatePost(ctx context.Context, payload model.CommunityPostPayload) (*model.CommunityPostDetail, error)
}

// Sanitizer は表示用テキストからマークアップを取り除くインターフェース。
type Sanitizer interface {
	SanitizeText(s string) string
}

// Config はサービスの表示件数・上限の設定値。
type Config struct {
	PopularTagCount  int
	RelatedPostCount int
	CardFetchLimit   int
	Limits           DraftLimits
}

// Service はコミュニティページのユースケースを提供する。
type Service struct {
	fetcher   Fetcher
	sanitizer Sanitizer
	logger    *slog.Logger
	cfg       Config
}

// NewService はコミュニティサービスを生成する。
func NewService(fetcher Fetcher, sanitizer Sanitizer, logger *slog.Logger, cfg Config) *Service {
	return &Service{
		fetcher:   fetcher,
		sanitizer: sanitizer,
		logger:    logger,
		cfg:       cfg,
	}
}

// ListQuery は一覧ページの絞り込み・並び順の指定。
type ListQuery struct {
	Tag     string
	Country string
	Sort    string
}

// ListView は一覧ページの描画に必要なデータ一式。
type ListView struct {
	Posts       []model.CommunityPostSummary
	PopularTags []string
	Cases       []model.CaseArchiveItem
	Query       ListQuery
}

// List は投稿一覧とケースアーカイブを並行取得し、一覧ビューを組み立てる。
// 人気タグは絞り込み前の全投稿から集計する。
// ケースアーカイブの取得失敗はページ全体を失敗させず、空のまま描画する。
func (s *Service) List(ctx context.Context, query ListQuery) (*ListView, error) {
	if query.Sort != SortPopular && query.Sort != SortRecent {
		query.Sort = SortRecent
	}

	var (
		wg       sync.WaitGroup
		posts    []model.CommunityPostSummary
		postsErr error
		cases    []model.CaseArchiveItem
		casesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postsErr = s.fetcher.ListPosts(ctx, backend.ListPostsOptions{
			Tag:     query.Tag,
			Country: query.Country,
			Sort:    query.Sort,
		})
	}()
	go func() {
		defer wg.Done()
		cases, casesErr = s.fetcher.ListCases(ctx)
	}()
	wg.Wait()

	if postsErr != nil {
		return nil, postsErr
	}
	if casesErr != nil {
		s.logger.Warn("failed to fetch case archive",
			slog.String("error", casesErr.Error()),
		)
		cases = nil
	}

	// バックエンドのバリアントによっては絞り込み・並び順パラメータを
	// 無視するものがあるため、取得後にもう一度適用して表示順を保証する
	popularTags := PopularTags(posts, s.cfg.PopularTagCount)
	filtered := FilterByCountry(FilterByTag(posts, query.Tag), query.Country)
	sorted := SortPosts(filtered, query.Sort)

	return &ListView{
		Posts:       sorted,
		PopularTags: popularTags,
		Cases:       cases,
		Query:       query,
	}, nil
}

// DetailView は詳細ページの描画に必要なデータ一式。
type DetailView struct {
	Post       *model.CommunityPostDetail
	Paragraphs []string
	Related    []model.CommunityPostCard
}

// Detail は投稿詳細と関連投稿カードを並行取得し、詳細ビューを組み立てる。
// 本文はマークアップ除去後に段落へ分割する。
// 関連投稿の取得失敗は詳細表示を妨げない。
func (s *Service) Detail(ctx context.Context, postID int64) (*DetailView, error) {
	var (
		wg       sync.WaitGroup
		post     *model.CommunityPostDetail
		postErr  error
		cards    []model.CommunityPostCard
		cardsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		post, postErr = s.fetcher.GetPost(ctx, postID)
	}()
	go func() {
		defer wg.Done()
		cards, cardsErr = s.fetcher.ListCards(ctx, s.cfg.CardFetchLimit)
	}()
	wg.Wait()

	if postErr != nil {
		if backend.IsStatus(postErr, http.StatusNotFound) {
			return nil, model.NewPostNotFoundError(postID)
		}
		return nil, postErr
	}
	if cardsErr != nil {
		s.logger.Warn("failed to fetch related cards",
			slog.Int64("post_id", postID),
			slog.String("error", cardsErr.Error()),
		)
		cards = nil
	}

	related := make([]model.CommunityPostCard, 0, s.cfg.RelatedPostCount)
	for _, card := range cards {
		if card.ID == postID {
			continue
		}
		related = append(related, card)
		if len(related) >= s.cfg.RelatedPostCount {
			break
		}
	}

	return &DetailView{
		Post:       post,
		Paragraphs: SplitParagraphs(s.sanitizer.SanitizeText(post.Content)),
		Related:    related,
	}, nil
}

// Submit はドラフトを検証して投稿を作成する。
// バリデーション違反は*model.APIErrorとして返す。
func (s *Service) Submit(ctx context.Context, draft PostDraft) (*model.CommunityPostDetail, error) {
	if apiErr := draft.Validate(s.cfg.Limits); apiErr != nil {
		return nil, apiErr
	}

	created, err := s.fetcher.CreatePost(ctx, draft.Payload())
	if err != nil {
		return nil, err
	}

	s.logger.Info("community post created",
		slog.Int64("post_id", created.ID),
		slog.String("case_type", string(created.CaseType)),
	)
	return created, nil
}
