// Package recruitment は求人公告リスク分析の入力分類・実行・結果保持を提供する。
// 分析の計算そのものは外部サービスの責務であり、このパッケージは
// 入力の整形と結果の一時保持のみを扱う。
package recruitment

import (
	"strings"

	"github.com/hitoshi/jobscout/internal/model"
)

// ClassifyInput は入力文字列をURLまたは自由テキストに分類し、
// 分析APIのリクエストボディを組み立てる。
// 前後の空白を除いた先頭が「http」で始まる入力はURLとして扱う。
// 空入力はバリデーションエラーを返す。
func ClassifyInput(raw string) (*model.JobPostingAnalysisRequest, *model.APIError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, model.NewEmptyInputError()
	}

	if strings.HasPrefix(trimmed, "http") {
		return &model.JobPostingAnalysisRequest{
			Type: model.AnalysisInputURL,
			URL:  &trimmed,
			Text: nil,
		}, nil
	}
	return &model.JobPostingAnalysisRequest{
		Type: model.AnalysisInputText,
		URL:  nil,
		Text: &trimmed,
	}, nil
}
