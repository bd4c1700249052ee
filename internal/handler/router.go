package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobscout/internal/middleware"
)

// RouterDeps はルーター構築に必要な依存の一式。
type RouterDeps struct {
	Home      *HomeHandler
	Community *CommunityHandler
	News      *NewsHandler
	Auth      *AuthHandler
	Health    *HealthHandler

	Sessions    middleware.SessionFinder
	RateLimiter *middleware.RateLimiter
	CSRFConfig  middleware.CSRFConfig
	Metrics     http.Handler
	Logger      *slog.Logger
}

// NewRouter はアプリケーションのルーターを構築する。
// ヘルスチェックとメトリクスはセッション・CSRF・レート制限の外側に置く。
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	r.Get("/health", deps.Health.Health)
	r.Method(http.MethodGet, "/metrics", deps.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.Sessions, deps.Logger))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig, deps.Logger))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", deps.Home.Home)
		// 旧クライアントの /home パスは恒久リダイレクトで受ける
		r.Get("/home", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/", http.StatusMovedPermanently)
		})
		r.With(deps.RateLimiter.AnalyzeMiddleware()).Post("/analyze", deps.Home.Analyze)
		r.Get("/report", deps.Home.Report)

		r.Get("/community", deps.Community.List)
		r.Get("/community/{postID}", deps.Community.Detail)

		r.Get("/news", deps.News.News)

		r.Get("/login", deps.Auth.LoginForm)
		r.Post("/login", deps.Auth.Login)
		r.Get("/signup", deps.Auth.SignupForm)
		r.Post("/signup", deps.Auth.Signup)

		// ログイン必須の操作
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRequireSessionMiddleware())

			r.Get("/community/new", deps.Community.NewForm)
			r.Post("/community/posts", deps.Community.Create)
			r.Post("/news/comments", deps.News.PostComment)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/quit", deps.Auth.Quit)
		})
	})

	return r
}
