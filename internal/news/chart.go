// Package news は市場トレンド・ニュースページの派生ビュー計算とサービスを提供する。
package news

import (
	"math"

	"github.com/hitoshi/jobscout/internal/model"
)

// Bar は業界別イシュー件数チャートの1本の棒。
// Heightは最大件数の業界が基準高さになるよう比例配分したピクセル値。
type Bar struct {
	Industry    string
	IssueCount  int
	Description string
	Height      int
}

// NormalizeBars は業界別イシュー件数を棒グラフの高さに変換する。
// 最大件数の業界がmaxHeightになる。全業界が0件の場合は全て高さ0で返す。
func NormalizeBars(industries []model.TrendIndustry, maxHeight int) []Bar {
	maxCount := 0
	for _, ind := range industries {
		if ind.IssueCount > maxCount {
			maxCount = ind.IssueCount
		}
	}

	bars := make([]Bar, len(industries))
	for i, ind := range industries {
		bar := Bar{
			Industry:    ind.Industry,
			IssueCount:  ind.IssueCount,
			Description: ind.Description,
		}
		if maxCount > 0 {
			bar.Height = int(math.Round(float64(ind.IssueCount) / float64(maxCount) * float64(maxHeight)))
		}
		bars[i] = bar
	}
	return bars
}

// TopKeywords はキーワードを上位n件まで切り詰める。
// 順位付けはサーバー側の並び順をそのまま信頼し、並べ替えは行わない。
func TopKeywords(keywords []model.TrendKeyword, n int) []model.TrendKeyword {
	if len(keywords) <= n {
		return keywords
	}
	return keywords[:n]
}
