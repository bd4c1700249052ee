// Package handler はサーバーレンダリングされたページのHTTPハンドラーを提供する。
package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/jobscout/internal/middleware"
	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames はlayout.htmlと組み合わせて描画するページテンプレートの一覧。
var pageNames = []string{
	"home", "report", "community", "community_new", "community_detail",
	"news", "login", "signup", "error",
}

// templateFuncs はテンプレートから使用するヘルパー関数。
var templateFuncs = template.FuncMap{
	// date は作成日時を「M/D」形式で描画する。
	"date": func(t time.Time) string {
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	},
	// until は0からn-1までの連番を返す。リスクインジケーターや総評の描画に使う。
	"until": func(n int) []int {
		seq := make([]int, n)
		for i := range seq {
			seq[i] = i
		}
		return seq
	},
	// addOne は0始まりの連番を1始まりの表示値に変換する。
	"addOne": func(n int) int { return n + 1 },
}

// Renderer はレイアウトとページテンプレートを組み合わせてHTMLを描画する。
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer は埋め込みテンプレートをパースしたRendererを生成する。
// テンプレートの不備は起動時に検出する。
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(
			templateFS, "templates/layout.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// PageData は全ページ共通の描画データ。各ページのデータ構造体に埋め込む。
type PageData struct {
	Title     string
	LoggedIn  bool
	CSRFToken string
	Error     *model.APIError
}

// newPageData はリクエストから共通描画データを組み立てる。
func newPageData(r *http.Request, title string) PageData {
	return PageData{
		Title:     title,
		LoggedIn:  session.FromContext(r.Context()) != nil,
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	}
}

// Render は指定ページをレイアウトと組み合わせて描画する。
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := rd.templates[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// errorPageData はエラーページの描画データ。
type errorPageData struct {
	PageData
}

// RenderError はエラーをエラーページとして描画する。
// セッション失効はログインページへのリダイレクトに変換する。
// APIError以外のエラーは詳細をログに記録し、汎用メッセージを表示する。
func (rd *Renderer) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrSessionExpired) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	status := middleware.StatusForError(err)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		rd.logger.Error("unexpected error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apiErr = model.NewBackendUnavailableError()
	}

	data := errorPageData{PageData: newPageData(r, "오류")}
	data.Error = apiErr
	rd.Render(w, status, "error", data)
}
