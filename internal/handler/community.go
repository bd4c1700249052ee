package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobscout/internal/community"
	"github.com/hitoshi/jobscout/internal/middleware"
	"github.com/hitoshi/jobscout/internal/model"
)

// CommunityService はコミュニティページが利用するユースケースのインターフェース。
type CommunityService interface {
	List(ctx context.Context, query community.ListQuery) (*community.ListView, error)
	Detail(ctx context.Context, postID int64) (*community.DetailView, error)
	Submit(ctx context.Context, draft community.PostDraft) (*model.CommunityPostDetail, error)
}

// CommunityHandler はコミュニティの一覧・詳細・投稿のハンドラー。
type CommunityHandler struct {
	service  CommunityService
	renderer *Renderer
	logger   *slog.Logger
	limits   community.DraftLimits
}

// NewCommunityHandler はCommunityHandlerを生成する。
func NewCommunityHandler(service CommunityService, renderer *Renderer, logger *slog.Logger, limits community.DraftLimits) *CommunityHandler {
	return &CommunityHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
		limits:   limits,
	}
}

// communityPageData は一覧ページの描画データ。
type communityPageData struct {
	PageData
	View      *community.ListView
	Countries []string
}

// List はGET /communityを処理する。
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	query := community.ListQuery{
		Tag:     r.URL.Query().Get("tag"),
		Country: r.URL.Query().Get("country"),
		Sort:    r.URL.Query().Get("sort"),
	}
	if query.Country == community.CountryAll {
		query.Country = ""
	}

	view, err := h.service.List(r.Context(), query)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	data := communityPageData{
		PageData:  newPageData(r, "커뮤니티"),
		View:      view,
		Countries: community.Countries,
	}
	h.renderer.Render(w, http.StatusOK, "community", data)
}

// communityNewPageData は投稿フォームの描画データ。
type communityNewPageData struct {
	PageData
	Draft      community.PostDraft
	TagInput   string
	Countries  []string
	TitleMax   int
	ContentMax int
	TagMax     int
}

// newFormData は投稿フォームの描画データを組み立てる。
func (h *CommunityHandler) newFormData(r *http.Request, draft community.PostDraft, tagInput string) communityNewPageData {
	return communityNewPageData{
		PageData:   newPageData(r, "경험 공유하기"),
		Draft:      draft,
		TagInput:   tagInput,
		Countries:  community.Countries,
		TitleMax:   h.limits.TitleMax,
		ContentMax: h.limits.ContentMax,
		TagMax:     h.limits.TagMax,
	}
}

// NewForm はGET /community/newを処理する。
func (h *CommunityHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	draft := community.PostDraft{Rating: 5, CaseType: string(model.CaseTypeSuccess)}
	h.renderer.Render(w, http.StatusOK, "community_new", h.newFormData(r, draft, ""))
}

// Create はPOST /community/postsを処理する。
// バリデーション違反は入力値を保持したままフォームを再描画する。
func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	rating, _ := strconv.Atoi(r.PostFormValue("rating"))
	tagInput := r.PostFormValue("tags")

	tags := community.NewTagSet(h.limits.TagMax)
	tags.AddAll(community.ParseTagInput(tagInput))

	draft := community.PostDraft{
		Title:       r.PostFormValue("title"),
		Content:     r.PostFormValue("content"),
		Rating:      rating,
		Tags:        tags.Tags(),
		CaseType:    r.PostFormValue("caseType"),
		IsAnonymous: r.PostFormValue("isAnonymous") != "",
		Country:     r.PostFormValue("country"),
	}

	created, err := h.service.Submit(r.Context(), draft)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Category == "validation" {
			data := h.newFormData(r, draft, tagInput)
			data.Error = apiErr
			h.renderer.Render(w, middleware.StatusForError(err), "community_new", data)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/community/%d", created.ID), http.StatusSeeOther)
}

// communityDetailPageData は詳細ページの描画データ。
type communityDetailPageData struct {
	PageData
	View *community.DetailView
}

// Detail はGET /community/{postID}を処理する。
func (h *CommunityHandler) Detail(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "postID")
	postID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || postID <= 0 {
		h.renderer.RenderError(w, r, model.NewInvalidPostIDError(raw))
		return
	}

	view, err := h.service.Detail(r.Context(), postID)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	data := communityDetailPageData{
		PageData: newPageData(r, view.Post.Title),
		View:     view,
	}
	h.renderer.Render(w, http.StatusOK, "community_detail", data)
}
