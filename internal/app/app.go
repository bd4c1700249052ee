// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/jobscout/internal/backend"
	"github.com/hitoshi/jobscout/internal/community"
	"github.com/hitoshi/jobscout/internal/config"
	"github.com/hitoshi/jobscout/internal/database"
	"github.com/hitoshi/jobscout/internal/handler"
	"github.com/hitoshi/jobscout/internal/logger"
	"github.com/hitoshi/jobscout/internal/metrics"
	"github.com/hitoshi/jobscout/internal/middleware"
	"github.com/hitoshi/jobscout/internal/news"
	"github.com/hitoshi/jobscout/internal/recruitment"
	"github.com/hitoshi/jobscout/internal/security"
	"github.com/hitoshi/jobscout/internal/session"
	"github.com/hitoshi/jobscout/internal/worker/headline"
	"github.com/hitoshi/jobscout/internal/worker/janitor"
)

// janitorInterval は期限切れセッション・分析結果の掃除間隔。
const janitorInterval = time.Hour

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーと
// バックグラウンドワーカー（見出しフェッチ・期限切れ掃除）を起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	log := slog.Default()

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. セッションストアとメトリクスの初期化
	sessionMaxAge := time.Duration(cfg.SessionMaxAge) * time.Second
	sessions := session.NewPostgresStore(db, sessionMaxAge)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. バックエンドAPIクライアントの初期化
	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, sessions, log,
		backend.WithMetrics(collector),
	)

	// 4. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 5. ドメインサービスの初期化
	stash := recruitment.NewResultStash(cfg.AnalysisResultTTL)
	analysisService := recruitment.NewService(client, stash, log,
		recruitment.WithMetrics(collector),
	)

	communityService := community.NewService(client, sanitizer, log, community.Config{
		PopularTagCount:  cfg.PopularTagCount,
		RelatedPostCount: cfg.RelatedPostCount,
		CardFetchLimit:   cfg.CardFetchLimit,
		Limits: community.DraftLimits{
			TitleMax:   cfg.TitleMaxLen,
			ContentMax: cfg.ContentMaxLen,
			TagMax:     cfg.TagMaxCount,
		},
	})

	refresher := headline.NewRefresher(headline.Config{
		FeedURLs:    cfg.HeadlineFeedURLs,
		Timeout:     cfg.HeadlineTimeout,
		MaxBodySize: cfg.HeadlineMaxSize,
		MaxCount:    cfg.HeadlineMaxCount,
	}, ssrfGuard, sanitizer, collector, log)

	newsService := news.NewService(client, refresher, log, news.Config{
		CommentLimit:     cfg.RecentCommentLimit,
		KeywordRankCount: cfg.KeywordRankCount,
		ChartMaxHeight:   cfg.ChartMaxBarHeight,
	})

	// 6. ハンドラーとルーターの構築
	renderer, err := handler.NewRenderer(log)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitAnalyze), log,
	)
	defer rateLimiter.Stop()

	draftLimits := community.DraftLimits{
		TitleMax:   cfg.TitleMaxLen,
		ContentMax: cfg.ContentMaxLen,
		TagMax:     cfg.TagMaxCount,
	}

	router := handler.NewRouter(handler.RouterDeps{
		Home:      handler.NewHomeHandler(analysisService, refresher, renderer, log, cfg.CookieSecure),
		Community: handler.NewCommunityHandler(communityService, renderer, log, draftLimits),
		News:      handler.NewNewsHandler(newsService, renderer, log),
		Auth: handler.NewAuthHandler(client, sessions, analysisService, renderer, log, handler.AuthConfig{
			PasswordMinLen: cfg.PasswordMinLen,
			SessionMaxAge:  sessionMaxAge,
			CookieSecure:   cfg.CookieSecure,
			CookieDomain:   cfg.CookieDomain,
		}),
		Health:      handler.NewHealthHandler(db, log),
		Sessions:    sessions,
		RateLimiter: rateLimiter,
		CSRFConfig:  middleware.CSRFConfig{CookieSecure: cfg.CookieSecure},
		Metrics:     metrics.Handler(registry),
		Logger:      log,
	})

	// 7. バックグラウンドワーカーの起動
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.HeadlineFeedURLs) > 0 {
		go refresher.Start(ctx, cfg.HeadlineInterval)
	}
	go janitor.New(sessions, stash, log).Start(ctx, janitorInterval)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
