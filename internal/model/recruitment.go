package model

// AnalysisInputType は求人公告分析の入力種別。URLまたは自由テキスト。
type AnalysisInputType string

const (
	// AnalysisInputURL はURL入力を示す。
	AnalysisInputURL AnalysisInputType = "url"
	// AnalysisInputText は自由テキスト入力を示す。
	AnalysisInputText AnalysisInputType = "text"
)

// JobPostingAnalysisRequest は分析APIのリクエストボディ。
// typeに応じてurlまたはtextのどちらか一方のみを設定し、他方はnullで送信する。
type JobPostingAnalysisRequest struct {
	Type AnalysisInputType `json:"type"`
	URL  *string           `json:"url"`
	Text *string           `json:"text"`
}

// JobPostingRiskResponse は外部分析サービスが返すリスク分析結果。
// セッションスコープの一時ストアにのみ保持され、プロセス再起動をまたいで永続化しない。
type JobPostingRiskResponse struct {
	Title                  string   `json:"title"`
	RiskLevel              string   `json:"riskLevel"`
	RiskKeywords           []string `json:"riskKeywords"`
	AnalysisResult         string   `json:"analysisResult"`
	ComprehensiveDiagnosis string   `json:"comprehensiveDiagnosis"`
	ActionGuidelines       string   `json:"actionGuidelines"`
	Summary                string   `json:"summary"`
}

// riskLevels は5段階のリスクラベル。安全側から危険側への順序を持つ。
// この5ラベル以外の値は未知として扱い、インジケーターは全て非アクティブで描画する。
var riskLevels = []string{"매우 안전", "안전", "주의", "위험", "매우 위험"}

// RiskLevelPosition はリスクラベルの序列位置（0〜4）を返す。
// 未知のラベルの場合は ok=false を返す。
func RiskLevelPosition(level string) (int, bool) {
	for i, l := range riskLevels {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

// RiskLevelDots は5個中何個のインジケーターをアクティブ表示するかを返す。
// 序列位置nのラベルはn+1個をアクティブにする。未知のラベルは0個。
func RiskLevelDots(level string) int {
	pos, ok := RiskLevelPosition(level)
	if !ok {
		return 0
	}
	return pos + 1
}

// RiskLevelCount はリスクラベルの段階数を返す。
func RiskLevelCount() int {
	return len(riskLevels)
}
