package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hitoshi/jobscout/internal/model"
)

// RecentComments はニュースページの直近コメントを取得する。
func (c *Client) RecentComments(ctx context.Context, limit int) ([]model.NewsComment, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var out []model.NewsComment
	if err := c.do(ctx, http.MethodGet, "/news/comments/recent", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment はニュースコメントを作成する。
// バックエンドのバージョンによりエンドポイントが異なるため、
// /news/comments が405を返した場合に限り /news/comment を1回だけ試す。
// 2回目も失敗した場合は元のエラーを返す。
func (c *Client) CreateComment(ctx context.Context, content string) (*model.NewsComment, error) {
	req := model.CreateNewsCommentRequest{Content: content}

	var out model.NewsComment
	err := c.do(ctx, http.MethodPost, "/news/comments", nil, req, &out)
	if err == nil {
		return &out, nil
	}

	if !IsStatus(err, http.StatusMethodNotAllowed) {
		return nil, err
	}

	var fallback model.NewsComment
	if retryErr := c.do(ctx, http.MethodPost, "/news/comment", nil, req, &fallback); retryErr != nil {
		return nil, err
	}
	return &fallback, nil
}
