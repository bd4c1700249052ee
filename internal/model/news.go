package model

import "time"

// NewsComment はニュースページのユーザーコメント。クライアント視点では追記専用。
type NewsComment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateNewsCommentRequest はコメント作成APIのリクエストボディ。
type CreateNewsCommentRequest struct {
	Content string `json:"content"`
}

// TrendKeyword は市場トレンド集計に含まれるキーワードと出現頻度。
type TrendKeyword struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// NewsSummary は市場トレンド集計に含まれるニュース要約。
type NewsSummary struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

// TrendIndustry は業界ごとのイシュー件数。
type TrendIndustry struct {
	Industry    string `json:"industry"`
	IssueCount  int    `json:"issueCount"`
	Description string `json:"description"`
}

// MarketTrendResponse は市場トレンドAPIが返す集計オブジェクト。読み取り専用。
// ページネーションはなく、全件を一度に描画できる規模であることを前提とする。
type MarketTrendResponse struct {
	TrendSummary  string          `json:"trendSummary"`
	Keywords      []TrendKeyword  `json:"keywords"`
	NewsSummaries []NewsSummary   `json:"newsSummaries"`
	Industries    []TrendIndustry `json:"industries"`
}

// Headline はRSSフィードから取得した海外就業関連ニュースの見出し。
type Headline struct {
	Title       string
	Link        string
	Source      string
	PublishedAt time.Time
}
