package model

import "time"

// CaseType はコミュニティ投稿の分類。成功事例または危険・被害事例。
type CaseType string

const (
	// CaseTypeSuccess は成功事例を示す。
	CaseTypeSuccess CaseType = "SUCCESS"
	// CaseTypeRisk は危険・被害事例を示す。
	CaseTypeRisk CaseType = "RISK"
)

// Valid はケース種別が定義済みの値かを返す。
func (c CaseType) Valid() bool {
	return c == CaseTypeSuccess || c == CaseTypeRisk
}

// CommunityPostSummary は一覧表示用の投稿サマリー。
// バックエンドが返す読み取り専用データであり、クライアント側では変更しない。
type CommunityPostSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	CaseType  CaseType  `json:"caseType"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
	ViewCount int       `json:"viewCount"`
	Country   string    `json:"country,omitempty"`
}

// CommunityPostCard は関連投稿パネル用の小型カード。
type CommunityPostCard struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Author    string    `json:"author"`
	CaseType  CaseType  `json:"caseType"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
}

// CommunityPostDetail は投稿詳細。本文contentを含む。
type CommunityPostDetail struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author"`
	Rating      int       `json:"rating"`
	CaseType    CaseType  `json:"caseType"`
	CreatedAt   time.Time `json:"createdAt"`
	Tags        []string  `json:"tags"`
	ViewCount   int       `json:"viewCount"`
	Country     string    `json:"country,omitempty"`
	IsAnonymous bool      `json:"isAnonymous,omitempty"`
}

// CaseArchiveItem はケース種別ごとのサーバー側集計ビュー。読み取り専用。
type CaseArchiveItem struct {
	CaseType       CaseType `json:"caseType"`
	Summary        string   `json:"summary"`
	HighlightTags  []string `json:"highlightTags"`
	RelatedPostIDs []int64  `json:"relatedPostIds"`
}

// CommunityPostPayload は投稿作成APIのリクエストボディ。
type CommunityPostPayload struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Rating      int      `json:"rating"`
	Tags        []string `json:"tags"`
	CaseType    CaseType `json:"caseType"`
	IsAnonymous bool     `json:"isAnonymous"`
	Country     string   `json:"country,omitempty"`
}
