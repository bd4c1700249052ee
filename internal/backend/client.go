// Package backend は外部分析・コミュニティバックエンドAPIへのゲートウェイクライアントを提供する。
// すべての外部API呼び出しはこのパッケージを経由する。
// リトライ・キャッシュ・インフライト重複排除は行わない。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/session"
)

// Doer はHTTPリクエスト実行のインターフェース。http.Clientの部分集合。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc は関数をDoerとして扱うアダプタ。
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do はDoerインターフェースを実装する。
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Interceptor はDoerをラップするミドルウェア。
// 認証ヘッダー付与やセッション失効検出を明示的なチェーンとして構成する。
type Interceptor func(next Doer) Doer

// Chain はインターセプターを外側から順に適用したDoerを返す。
func Chain(base Doer, interceptors ...Interceptor) Doer {
	d := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		d = interceptors[i](d)
	}
	return d
}

// recoveryKey はセッション失効処理を試行済みであることを示すコンテキストマーカーのキー。
type recoveryKey struct{}

// markRecoveryAttempted はセッション失効処理の試行済みマーカーをコンテキストに記録する。
// リクエストオブジェクトのフィールドを書き換える代わりに、型付きマーカーを併走させる。
func markRecoveryAttempted(ctx context.Context) context.Context {
	return context.WithValue(ctx, recoveryKey{}, true)
}

// recoveryAttempted はセッション失効処理が既に試行されたかを返す。
func recoveryAttempted(ctx context.Context) bool {
	attempted, _ := ctx.Value(recoveryKey{}).(bool)
	return attempted
}

// MetricsRecorder はバックエンド呼び出しのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordBackendRequest(endpoint string, statusCode int, duration time.Duration)
}

// noopMetrics はメトリクス未設定時のレコーダー。
type noopMetrics struct{}

func (noopMetrics) RecordBackendRequest(string, int, time.Duration) {}

// Client は外部バックエンドAPIのゲートウェイクライアント。
// セッションがあればBearerトークンを付与し、トークン付きリクエストで
// 401を検出したら保存済みセッションを破棄してErrSessionExpiredを返す。
type Client struct {
	baseURL string
	doer    Doer
	logger  *slog.Logger
	metrics MetricsRecorder
}

// Option はClientの生成オプション。
type Option func(*Client)

// WithMetrics はメトリクスレコーダーを設定する。
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithDoer は基底のDoerを差し替える。テスト用。
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// New はゲートウェイクライアントを生成する。
// インターセプターチェーンは 認証ヘッダー付与 → セッション失効検出 の順で構成される。
func New(baseURL string, timeout time.Duration, sessions session.Clearer, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.doer = Chain(c.doer,
		NewAuthInterceptor(),
		NewSessionExpiryInterceptor(sessions, logger),
	)

	return c
}

// NewAuthInterceptor はコンテキストのセッションからBearerトークンを付与するインターセプターを返す。
// セッションが無い、またはトークンを持たない場合はヘッダーを付与しない。
func NewAuthInterceptor() Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			sess := session.FromContext(req.Context())
			if sess.HasTokens() {
				req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
			}
			return next.Do(req)
		})
	}
}

// NewSessionExpiryInterceptor はトークン付きリクエストへの401レスポンスを検出し、
// 保存済みセッションを破棄してErrSessionExpiredに変換するインターセプターを返す。
// トークンを伴わない401（ログイン失敗など）は通常のステータスエラーとして
// 呼び出し元へ渡す。破棄は1リクエストにつき1回のみ実行する。試行済みマーカーが
// あるコンテキストでは401をそのまま通し、破棄の繰り返しによるループを防ぐ。
// 401はトークンリフレッシュの対象にはしない。リフレッシュフローは存在しない。
func NewSessionExpiryInterceptor(sessions session.Clearer, logger *slog.Logger) Interceptor {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil {
				// ネットワーク障害はそのまま呼び出し元へ伝播する
				return nil, err
			}

			if resp.StatusCode != http.StatusUnauthorized {
				return resp, nil
			}

			// 試行済みマーカー付きのリクエストは二重処理せずそのまま通す
			if recoveryAttempted(req.Context()) {
				return resp, nil
			}

			// トークンを送っていないリクエストの401は失効ではない
			sess := session.FromContext(req.Context())
			if !sess.HasTokens() {
				return resp, nil
			}

			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if clearErr := sessions.Delete(req.Context(), sess.ID); clearErr != nil {
				logger.Error("failed to clear expired session",
					slog.String("session_id", sess.ID),
					slog.String("error", clearErr.Error()),
				)
			}

			logger.Warn("backend returned 401, session cleared",
				slog.String("path", req.URL.Path),
			)

			return nil, model.ErrSessionExpired
		})
	}
}

// Error はバックエンドが返した非2xxレスポンスを表す。
// トークン付きリクエストの401はErrSessionExpiredに変換されるため含まれない。
type Error struct {
	StatusCode int
	Endpoint   string
	Body       string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsStatus はerrが指定ステータスコードのバックエンドエラーかを返す。
func IsStatus(err error, statusCode int) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.StatusCode == statusCode
	}
	return false
}

// do はJSONリクエストを送信し、2xxであればoutにデコードする。
// outがnilの場合はボディを捨てる。クエリはnil可。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.metrics.RecordBackendRequest(path, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()

	c.metrics.RecordBackendRequest(path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Body:       string(raw),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
