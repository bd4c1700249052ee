// Package session はバックエンドのトークンペアを保管するサーバー側セッションストアを提供する。
// ブラウザにはHTTP OnlyのセッションIDクッキーのみを渡し、
// アクセストークン・リフレッシュトークンはこのストアに保持する。
package session

import (
	"context"
	"time"

	"github.com/hitoshi/jobscout/internal/model"
)

// CookieName はセッションIDを保持するCookieの名前。
const CookieName = "sid"

// Store はセッションの永続化インターフェース。
// 本番はPostgres実装、テストはインメモリ実装を注入する。
// トークンの形式検証や期限検証は行わない。有効性はバックエンドの応答コードのみで決まる。
type Store interface {
	// Create はトークンペアから新しいセッションを作成して返す。
	// ログインまたは会員登録の成功時にのみ呼ばれる。
	Create(ctx context.Context, accessToken, refreshToken string) (*model.Session, error)

	// FindByID は指定IDのセッションを取得する。存在しない・期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// Delete は指定IDのセッションを破棄する。
	// ログアウト・退会、およびバックエンド401検出時にのみ呼ばれる。
	// 存在しないIDの削除はエラーにしない。
	Delete(ctx context.Context, id string) error

	// DeleteExpired は期限切れセッションを一括削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// Clearer はセッション破棄のみを必要とするコンシューマー向けの部分インターフェース。
// ゲートウェイクライアントの401処理が使用する。
type Clearer interface {
	Delete(ctx context.Context, id string) error
}

// now はテストから差し替え可能な現在時刻関数。
var now = time.Now
