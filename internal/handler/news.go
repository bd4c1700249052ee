package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/jobscout/internal/middleware"
	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/news"
)

// NewsService はニュースページが利用するユースケースのインターフェース。
type NewsService interface {
	Load(ctx context.Context) (*news.View, error)
	PostComment(ctx context.Context, content string) (*model.NewsComment, error)
}

// NewsHandler はニュースページとコメント投稿のハンドラー。
type NewsHandler struct {
	service  NewsService
	renderer *Renderer
	logger   *slog.Logger
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsService, renderer *Renderer, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// newsPageData はニュースページの描画データ。
type newsPageData struct {
	PageData
	View *news.View
}

// News はGET /newsを処理する。
func (h *NewsHandler) News(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Load(r.Context())
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	data := newsPageData{
		PageData: newPageData(r, "뉴스"),
		View:     view,
	}
	h.renderer.Render(w, http.StatusOK, "news", data)
}

// PostComment はPOST /news/commentsを処理する。
// 成功時はニュースページへリダイレクトし、バリデーション違反は
// ページを再読み込みしてエラーを表示する。
func (h *NewsHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	content := r.PostFormValue("content")

	if _, err := h.service.PostComment(r.Context(), content); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Category == "validation" {
			view, loadErr := h.service.Load(r.Context())
			if loadErr != nil {
				h.renderer.RenderError(w, r, loadErr)
				return
			}
			data := newsPageData{
				PageData: newPageData(r, "뉴스"),
				View:     view,
			}
			data.Error = apiErr
			h.renderer.Render(w, middleware.StatusForError(err), "news", data)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/news", http.StatusSeeOther)
}
