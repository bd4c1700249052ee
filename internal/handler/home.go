package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hitoshi/jobscout/internal/middleware"
	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/recruitment"
	"github.com/hitoshi/jobscout/internal/session"
)

// anonymousIDCookie は未ログイン訪問者の分析結果を紐付けるCookieの名前。
// セッションCookieとは独立しており、認証情報は含まない。
const anonymousIDCookie = "aid"

// AnalysisService は分析ページが利用するユースケースのインターフェース。
type AnalysisService interface {
	Analyze(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error)
	Report(key string) (*model.JobPostingRiskResponse, bool)
}

// HeadlineSource はトップページに表示する見出しスナップショットの提供元。
type HeadlineSource interface {
	Headlines() []model.Headline
}

// HomeHandler はトップページ・分析・レポートのハンドラー。
type HomeHandler struct {
	analysis  AnalysisService
	headlines HeadlineSource
	renderer  *Renderer
	logger    *slog.Logger
	secure    bool
}

// NewHomeHandler はHomeHandlerを生成する。
func NewHomeHandler(analysis AnalysisService, headlines HeadlineSource, renderer *Renderer, logger *slog.Logger, secure bool) *HomeHandler {
	return &HomeHandler{
		analysis:  analysis,
		headlines: headlines,
		renderer:  renderer,
		logger:    logger,
		secure:    secure,
	}
}

// analysisKey は分析結果を保存するキーを返す。
// ログイン済みならセッションID、未ログインなら匿名IDクッキーを使う。
// 匿名IDが未発行の場合はここで発行し、同一リクエスト内でも参照できるようにする。
func (h *HomeHandler) analysisKey(w http.ResponseWriter, r *http.Request) string {
	if sess := session.FromContext(r.Context()); sess != nil {
		return sess.ID
	}

	if c, err := r.Cookie(anonymousIDCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     anonymousIDCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	r.AddCookie(cookie)
	return id
}

// homePageData はトップページの描画データ。
type homePageData struct {
	PageData
	Input     string
	Headlines []model.Headline
}

// Home はGET /を処理する。
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := homePageData{
		PageData:  newPageData(r, "공고 분석"),
		Headlines: h.headlines.Headlines(),
	}
	h.renderer.Render(w, http.StatusOK, "home", data)
}

// Analyze はPOST /analyzeを処理する。
// 成功時はレポートページへリダイレクトし、バリデーション違反は
// 入力値を保持したままトップページを再描画する。
func (h *HomeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	input := r.PostFormValue("input")
	key := h.analysisKey(w, r)

	if _, err := h.analysis.Analyze(r.Context(), key, input); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			data := homePageData{
				PageData:  newPageData(r, "공고 분석"),
				Input:     input,
				Headlines: h.headlines.Headlines(),
			}
			data.Error = apiErr
			h.renderer.Render(w, middleware.StatusForError(err), "home", data)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/report", http.StatusSeeOther)
}

// reportPageData はレポートページの描画データ。
type reportPageData struct {
	PageData
	Result     *model.JobPostingRiskResponse
	Keywords   []string
	ActiveDots int
	TotalDots  int
}

// Report はGET /reportを処理する。
// 保存済みの分析結果がない場合はトップページへリダイレクトする。
func (h *HomeHandler) Report(w http.ResponseWriter, r *http.Request) {
	key := h.analysisKey(w, r)
	result, ok := h.analysis.Report(key)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := reportPageData{
		PageData:   newPageData(r, "분석 리포트"),
		Result:     result,
		Keywords:   recruitment.ReportKeywords(result),
		ActiveDots: model.RiskLevelDots(result.RiskLevel),
		TotalDots:  model.RiskLevelCount(),
	}
	h.renderer.Render(w, http.StatusOK, "report", data)
}
