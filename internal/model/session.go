// Package model はドメインモデルを定義する。
package model

import "time"

// Session はログイン済みユーザーを識別するトークンペアを保持する。
// バックエンドAPIが発行したアクセストークン・リフレッシュトークンを
// サーバー側セッションとして保管し、ブラウザにはセッションIDのみを渡す。
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// HasTokens はセッションがトークンペアを保持しているかを返す。
// トークンの妥当性は検証しない。有効性はバックエンドのレスポンスコードのみで判定する。
func (s *Session) HasTokens() bool {
	return s != nil && s.AccessToken != ""
}

// TokenResponse はバックエンドの認証APIが返すトークンペア。
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse はログイン・会員登録APIのレスポンスボディ。
type LoginResponse struct {
	TokenResponse TokenResponse `json:"tokenResponse"`
	Detail        bool          `json:"detail"`
}

// LoginRequest はログインAPIのリクエストボディ。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest は会員登録APIのリクエストボディ。ログインと同形。
type SignupRequest = LoginRequest

// LogoutRequest はログアウトAPIのリクエストボディ。
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
