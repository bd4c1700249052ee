package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend API
	BackendBaseURL string
	BackendTimeout time.Duration

	// Database
	DatabaseURL string

	// Session
	SessionMaxAge int

	// Validation ceilings
	// 投稿フォームの上限はバリアントにより異なるため設定値とする（120/5000系と20/1000系）。
	TitleMaxLen    int
	ContentMaxLen  int
	TagMaxCount    int
	PasswordMinLen int

	// Derived views
	PopularTagCount    int
	RelatedPostCount   int
	CardFetchLimit     int
	RecentCommentLimit int
	KeywordRankCount   int
	ChartMaxBarHeight  int

	// Analysis
	AnalysisResultTTL time.Duration

	// Rate Limit（req/min単位）
	RateLimitGeneral int
	RateLimitAnalyze int

	// Headline feeds
	HeadlineFeedURLs []string
	HeadlineInterval time.Duration
	HeadlineTimeout  time.Duration
	HeadlineMaxSize  int64
	HeadlineMaxCount int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.BackendBaseURL = os.Getenv("BACKEND_BASE_URL")
	if cfg.BackendBaseURL == "" {
		missing = append(missing, "BACKEND_BASE_URL")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", 10*time.Second)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.TitleMaxLen = getEnvInt("TITLE_MAX_LEN", 120)
	cfg.ContentMaxLen = getEnvInt("CONTENT_MAX_LEN", 5000)
	cfg.TagMaxCount = getEnvInt("TAG_MAX_COUNT", 10)
	cfg.PasswordMinLen = getEnvInt("PASSWORD_MIN_LEN", 4)
	cfg.PopularTagCount = getEnvInt("POPULAR_TAG_COUNT", 6)
	cfg.RelatedPostCount = getEnvInt("RELATED_POST_COUNT", 2)
	cfg.CardFetchLimit = getEnvInt("CARD_FETCH_LIMIT", 6)
	cfg.RecentCommentLimit = getEnvInt("RECENT_COMMENT_LIMIT", 3)
	cfg.KeywordRankCount = getEnvInt("KEYWORD_RANK_COUNT", 4)
	cfg.ChartMaxBarHeight = getEnvInt("CHART_MAX_BAR_HEIGHT", 130)
	cfg.AnalysisResultTTL = getEnvDuration("ANALYSIS_RESULT_TTL", 30*time.Minute)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAnalyze = getEnvInt("RATE_LIMIT_ANALYZE", 5)
	cfg.HeadlineFeedURLs = getEnvStringList("HEADLINE_FEED_URLS")
	cfg.HeadlineInterval = getEnvDuration("HEADLINE_INTERVAL", 10*time.Minute)
	cfg.HeadlineTimeout = getEnvDuration("HEADLINE_TIMEOUT", 10*time.Second)
	cfg.HeadlineMaxSize = getEnvInt64("HEADLINE_MAX_SIZE", 5242880)
	cfg.HeadlineMaxCount = getEnvInt("HEADLINE_MAX_COUNT", 8)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvStringList はカンマ区切りの環境変数をスライスとして読み込む。
// 空要素は捨てる。未設定の場合は空スライスを返す。
func getEnvStringList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var list []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
