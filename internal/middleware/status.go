package middleware

import (
	"errors"
	"net/http"

	"github.com/hitoshi/jobscout/internal/model"
)

// StatusForError はエラーをHTTPステータスコードに対応付ける。
// バリデーションエラーは400、認証エラーは401、未検出は404、
// バックエンド障害は502、その他は500として扱う。
func StatusForError(err error) int {
	if errors.Is(err, model.ErrSessionExpired) {
		return http.StatusUnauthorized
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}

	if apiErr.Code == model.ErrCodePostNotFound {
		return http.StatusNotFound
	}

	switch apiErr.Category {
	case "validation":
		return http.StatusBadRequest
	case "auth":
		return http.StatusUnauthorized
	case "backend":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
