package community

import (
	"strings"

	"github.com/hitoshi/jobscout/internal/model"
)

// DraftLimits は投稿フォームの文字数・件数の上限。設定値から与えられる。
type DraftLimits struct {
	TitleMax   int
	ContentMax int
	TagMax     int
}

// PostDraft は投稿フォームの入力値。バリデーションを通過した後に
// バックエンドへのペイロードに変換される。
type PostDraft struct {
	Title       string
	Content     string
	Rating      int
	Tags        []string
	CaseType    string
	IsAnonymous bool
	Country     string
}

// Validate はドラフトを検証し、最初に見つかった違反を返す。
// 問題がなければnilを返す。文字数は文字（ルーン）単位で数える。
func (d *PostDraft) Validate(limits DraftLimits) *model.APIError {
	title := strings.TrimSpace(d.Title)
	content := strings.TrimSpace(d.Content)

	if title == "" || content == "" || len(d.Tags) == 0 || d.Country == "" {
		return model.NewRequiredFieldsError()
	}
	if len([]rune(title)) > limits.TitleMax {
		return model.NewFieldTooLongError("제목", limits.TitleMax)
	}
	if len([]rune(content)) > limits.ContentMax {
		return model.NewFieldTooLongError("글", limits.ContentMax)
	}
	if d.Rating < 1 || d.Rating > 5 {
		return model.NewInvalidRatingError(d.Rating)
	}
	if !model.CaseType(d.CaseType).Valid() {
		return model.NewInvalidCaseTypeError(d.CaseType)
	}
	return nil
}

// Payload は検証済みドラフトを投稿作成APIのリクエストボディに変換する。
func (d *PostDraft) Payload() model.CommunityPostPayload {
	return model.CommunityPostPayload{
		Title:       strings.TrimSpace(d.Title),
		Content:     strings.TrimSpace(d.Content),
		Rating:      d.Rating,
		Tags:        d.Tags,
		CaseType:    model.CaseType(d.CaseType),
		IsAnonymous: d.IsAnonymous,
		Country:     d.Country,
	}
}
