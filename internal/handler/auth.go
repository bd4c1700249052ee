package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/jobscout/internal/backend"
	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/session"
)

// Authenticator は認証ページが利用するバックエンド呼び出しのインターフェース。
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Signup(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Quit(ctx context.Context) error
}

// SessionCreator はセッションの作成・破棄を必要とするコンシューマー向けの部分インターフェース。
type SessionCreator interface {
	Create(ctx context.Context, accessToken, refreshToken string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// ResultDiscarder はセッション終了時に分析結果を破棄するインターフェース。
type ResultDiscarder interface {
	Discard(key string)
}

// AuthConfig は認証ハンドラーの設定値。
type AuthConfig struct {
	PasswordMinLen int
	SessionMaxAge  time.Duration
	CookieSecure   bool
	CookieDomain   string
}

// AuthHandler はログイン・会員登録・ログアウト・退会のハンドラー。
type AuthHandler struct {
	auth     Authenticator
	sessions SessionCreator
	results  ResultDiscarder
	renderer *Renderer
	logger   *slog.Logger
	cfg      AuthConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(auth Authenticator, sessions SessionCreator, results ResultDiscarder, renderer *Renderer, logger *slog.Logger, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		results:  results,
		renderer: renderer,
		logger:   logger,
		cfg:      cfg,
	}
}

// authPageData はログイン・会員登録フォームの描画データ。
type authPageData struct {
	PageData
	Username    string
	PasswordMin int
}

// LoginForm はGET /loginを処理する。ログイン済みならトップへ戻す。
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, http.StatusOK, "login", authPageData{PageData: newPageData(r, "로그인")})
}

// SignupForm はGET /signupを処理する。ログイン済みならトップへ戻す。
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := authPageData{
		PageData:    newPageData(r, "회원가입"),
		PasswordMin: h.cfg.PasswordMinLen,
	}
	h.renderer.Render(w, http.StatusOK, "signup", data)
}

// renderAuthError はフォームの入力値を保持したまま認証エラーを再描画する。
func (h *AuthHandler) renderAuthError(w http.ResponseWriter, r *http.Request, page, username string, apiErr *model.APIError, status int) {
	data := authPageData{
		PageData:    newPageData(r, "로그인"),
		Username:    username,
		PasswordMin: h.cfg.PasswordMinLen,
	}
	if page == "signup" {
		data.Title = "회원가입"
	}
	data.Error = apiErr
	h.renderer.Render(w, status, page, data)
}

// establishSession はトークンペアからセッションを作成してCookieを発行する。
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, tokens model.TokenResponse) error {
	sess, err := h.sessions.Create(r.Context(), tokens.AccessToken, tokens.RefreshToken)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   int(h.cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSessionCookie はセッションCookieを失効させる。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login はPOST /loginを処理する。
// 認証失敗はログインフォームを再描画し、バックエンドの失敗理由は画面に出さない。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		h.renderAuthError(w, r, "login", username, model.NewRequiredFieldsError(), http.StatusBadRequest)
		return
	}

	resp, err := h.auth.Login(r.Context(), model.LoginRequest{Username: username, Password: password})
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) || backend.IsStatus(err, http.StatusBadRequest) {
			h.renderAuthError(w, r, "login", username, model.NewLoginFailedError(), http.StatusUnauthorized)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	if err := h.establishSession(w, r, resp.TokenResponse); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.logger.Info("user logged in", slog.String("username", username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Signup はPOST /signupを処理する。
// パスワードの長さと確認一致はバックエンド呼び出し前に検証する。
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("passwordConfirm")

	if username == "" || password == "" {
		h.renderAuthError(w, r, "signup", username, model.NewRequiredFieldsError(), http.StatusBadRequest)
		return
	}
	if len([]rune(password)) < h.cfg.PasswordMinLen {
		h.renderAuthError(w, r, "signup", username, model.NewPasswordTooShortError(h.cfg.PasswordMinLen), http.StatusBadRequest)
		return
	}
	if password != confirm {
		h.renderAuthError(w, r, "signup", username, model.NewPasswordMismatchError(), http.StatusBadRequest)
		return
	}

	resp, err := h.auth.Signup(r.Context(), model.SignupRequest{Username: username, Password: password})
	if err != nil {
		if backend.IsStatus(err, http.StatusConflict) || backend.IsStatus(err, http.StatusBadRequest) {
			h.renderAuthError(w, r, "signup", username, model.NewLoginFailedError(), http.StatusBadRequest)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	if err := h.establishSession(w, r, resp.TokenResponse); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.logger.Info("user signed up", slog.String("username", username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout はPOST /logoutを処理する。
// バックエンドのログアウト失敗はローカルセッションの破棄を妨げない。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.auth.Logout(r.Context(), sess.RefreshToken); err != nil {
		h.logger.Warn("backend logout failed",
			slog.String("error", err.Error()),
		)
	}

	h.teardownSession(w, r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Quit はPOST /quitを処理する。退会成功時のみセッションを破棄する。
func (h *AuthHandler) Quit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.auth.Quit(r.Context()); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.teardownSession(w, r, sess)
	h.logger.Info("user account deleted")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// teardownSession はセッションと保存済み分析結果を破棄し、Cookieを失効させる。
func (h *AuthHandler) teardownSession(w http.ResponseWriter, r *http.Request, sess *model.Session) {
	if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
		h.logger.Error("failed to delete session",
			slog.String("error", err.Error()),
		)
	}
	h.results.Discard(sess.ID)
	h.clearSessionCookie(w)
}
