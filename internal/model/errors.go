package model

import (
	"errors"
	"fmt"
)

// ErrSessionExpired はバックエンドが401を返した際のセンチネルエラー。
// ゲートウェイクライアントがセッション破棄後に返し、
// ハンドラーはこれを検出してログインページへのリダイレクトに変換する。
// このエラーを汎用エラーメッセージとして画面に表示してはならない。
var ErrSessionExpired = errors.New("session expired")

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, backend, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidPostID      = "INVALID_POST_ID"
	ErrCodePostNotFound       = "POST_NOT_FOUND"
	ErrCodeRequiredFields     = "REQUIRED_FIELDS"
	ErrCodeFieldTooLong       = "FIELD_TOO_LONG"
	ErrCodeInvalidRating      = "INVALID_RATING"
	ErrCodeInvalidCaseType    = "INVALID_CASE_TYPE"
	ErrCodeEmptyInput         = "EMPTY_INPUT"
	ErrCodeAnalysisInFlight   = "ANALYSIS_IN_FLIGHT"
	ErrCodeAnalysisFailed     = "ANALYSIS_FAILED"
	ErrCodeCommentRequired    = "COMMENT_REQUIRED"
	ErrCodeLoginFailed        = "LOGIN_FAILED"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
)

// NewInvalidPostIDError は不正な投稿IDエラーを生成する。
// ネットワーク呼び出し前に検出されるバリデーションエラー。
func NewInvalidPostIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPostID,
		Message:  fmt.Sprintf("잘못된 게시글 ID입니다: %s", raw),
		Category: "validation",
		Action:   "커뮤니티 목록에서 게시글을 다시 선택해주세요.",
	}
}

// NewPostNotFoundError は投稿未検出エラーを生成する。
func NewPostNotFoundError(postID int64) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("게시글을 찾을 수 없습니다: %d", postID),
		Category: "backend",
		Action:   "커뮤니티로 돌아가 다시 시도해주세요.",
	}
}

// NewRequiredFieldsError は必須項目未入力エラーを生成する。
func NewRequiredFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeRequiredFields,
		Message:  "필수 항목(제목, 글, 키워드, 국가)을 모두 입력해주세요.",
		Category: "validation",
		Action:   "비어 있는 항목을 채운 뒤 다시 제출해주세요.",
	}
}

// NewFieldTooLongError は文字数上限超過エラーを生成する。
func NewFieldTooLongError(field string, limit int) *APIError {
	return &APIError{
		Code:     ErrCodeFieldTooLong,
		Message:  fmt.Sprintf("%s은(는) %d자 이내로 작성해주세요.", field, limit),
		Category: "validation",
		Action:   "내용을 줄인 뒤 다시 제출해주세요.",
	}
}

// NewInvalidRatingError は総評の範囲外エラーを生成する。
func NewInvalidRatingError(rating int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  fmt.Sprintf("총평은 1~5점 사이여야 합니다: %d", rating),
		Category: "validation",
		Action:   "1점에서 5점 사이의 값을 선택해주세요.",
	}
}

// NewInvalidCaseTypeError はケース種別不正エラーを生成する。
func NewInvalidCaseTypeError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCaseType,
		Message:  fmt.Sprintf("알 수 없는 케이스 유형입니다: %s", raw),
		Category: "validation",
		Action:   "성공 사례 또는 위험/피해 사례 중 하나를 선택해주세요.",
	}
}

// NewEmptyInputError は分析入力の未入力エラーを生成する。
func NewEmptyInputError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyInput,
		Message:  "URL 또는 텍스트를 입력해주세요!",
		Category: "validation",
		Action:   "공고의 URL 또는 본문 텍스트를 입력한 뒤 다시 시도해주세요.",
	}
}

// NewAnalysisInFlightError は分析の多重送信エラーを生成する。
// 1セッションにつき同時に実行できる分析は1件のみ。
func NewAnalysisInFlightError() *APIError {
	return &APIError{
		Code:     ErrCodeAnalysisInFlight,
		Message:  "이미 분석이 진행 중입니다.",
		Category: "validation",
		Action:   "진행 중인 분석이 끝난 뒤 다시 시도해주세요.",
	}
}

// NewAnalysisFailedError は分析失敗エラーを生成する。
func NewAnalysisFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAnalysisFailed,
		Message:  "분석 중 오류가 발생했습니다.",
		Category: "backend",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}

// NewCommentRequiredError はコメント未入力エラーを生成する。
func NewCommentRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeCommentRequired,
		Message:  "댓글 내용을 입력해주세요.",
		Category: "validation",
		Action:   "내용을 입력한 뒤 다시 등록해주세요.",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "로그인에 실패했습니다.",
		Category: "auth",
		Action:   "아이디와 비밀번호를 확인해주세요.",
	}
}

// NewPasswordMismatchError はパスワード確認不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "비밀번호가 일치하지 않습니다.",
		Category: "validation",
		Action:   "비밀번호와 비밀번호 확인을 동일하게 입력해주세요.",
	}
}

// NewPasswordTooShortError はパスワード長不足エラーを生成する。
func NewPasswordTooShortError(min int) *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  fmt.Sprintf("비밀번호는 %d자 이상이어야 합니다.", min),
		Category: "validation",
		Action:   "더 긴 비밀번호를 입력해주세요.",
	}
}

// NewBackendUnavailableError はバックエンド呼び出し失敗の汎用エラーを生成する。
// 詳細はログにのみ記録し、画面にはローカライズ済みの汎用メッセージを表示する。
func NewBackendUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnavailable,
		Message:  "정보를 불러오지 못했습니다.",
		Category: "backend",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}
