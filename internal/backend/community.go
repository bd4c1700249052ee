package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hitoshi/jobscout/internal/model"
)

// ListPostsOptions は投稿一覧取得の絞り込みパラメータ。すべて任意。
// タグフィルタはエンドポイントのバリアント差異を吸収するためオプションとして扱う。
type ListPostsOptions struct {
	Tag     string
	Country string
	Sort    string
}

// ListPosts はコミュニティ投稿の一覧を取得する。
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) ([]model.CommunityPostSummary, error) {
	query := url.Values{}
	if opts.Tag != "" {
		query.Set("tag", opts.Tag)
	}
	if opts.Country != "" {
		query.Set("country", opts.Country)
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	var out []model.CommunityPostSummary
	if err := c.do(ctx, http.MethodGet, "/community/posts", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost は投稿詳細を取得する。
func (c *Client) GetPost(ctx context.Context, postID int64) (*model.CommunityPostDetail, error) {
	var out model.CommunityPostDetail
	path := fmt.Sprintf("/community/posts/%d", postID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCards は関連投稿パネル用のカード一覧を取得する。
func (c *Client) ListCards(ctx context.Context, limit int) ([]model.CommunityPostCard, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var out []model.CommunityPostCard
	if err := c.do(ctx, http.MethodGet, "/community/posts/cards", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCases はケースアーカイブ（サーバー側集計）を取得する。
func (c *Client) ListCases(ctx context.Context) ([]model.CaseArchiveItem, error) {
	var out []model.CaseArchiveItem
	if err := c.do(ctx, http.MethodGet, "/community/cases", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost は投稿を作成し、作成された詳細を返す。
func (c *Client) CreatePost(ctx context.Context, payload model.CommunityPostPayload) (*model.CommunityPostDetail, error) {
	var out model.CommunityPostDetail
	if err := c.do(ctx, http.MethodPost, "/community/posts", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
