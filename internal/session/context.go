package session

import (
	"context"

	"github.com/hitoshi/jobscout/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionContextKey はリクエストコンテキストにセッションを格納するためのキー。
var sessionContextKey = contextKey("session")

// ContextWith はコンテキストにセッションを注入する。
// セッションミドルウェア、およびテストで使用する。
func ContextWith(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext はリクエストコンテキストからセッションを取得する。
// 未ログインリクエストではnilを返す。呼び出し側はnilを許容すること。
func FromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionContextKey).(*model.Session)
	return sess
}
