package backend

import (
	"context"
	"net/http"

	"github.com/hitoshi/jobscout/internal/model"
)

// Login はログインAPIを呼び出し、トークンペアを取得する。
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup は会員登録APIを呼び出す。レスポンス形はログインと同じ。
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout はログアウトAPIを呼び出す。204が期待される。
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, model.LogoutRequest{RefreshToken: refreshToken}, nil)
}

// Quit は退会APIを呼び出す。204が期待される。
func (c *Client) Quit(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/quit", nil, nil, nil)
}
