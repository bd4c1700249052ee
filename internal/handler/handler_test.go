package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobscout/internal/backend"
	"github.com/hitoshi/jobscout/internal/community"
	"github.com/hitoshi/jobscout/internal/model"
	"github.com/hitoshi/jobscout/internal/news"
	"github.com/hitoshi/jobscout/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer(testLogger())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return rd
}

func testSession() *model.Session {
	return &model.Session{
		ID:           "sess-1",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// withSession はリクエストコンテキストにセッションを注入する。
func withSession(r *http.Request, sess *model.Session) *http.Request {
	return r.WithContext(session.ContextWith(r.Context(), sess))
}

// newStatusError はバックエンドの非2xx応答を模したエラーを返す。
func newStatusError(status int) error {
	return &backend.Error{StatusCode: status, Endpoint: "/auth/login"}
}

// formRequest はフォームPOSTリクエストを組み立てる。
func formRequest(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

type mockAnalysis struct {
	analyzeFunc func(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error)
	reportFunc  func(key string) (*model.JobPostingRiskResponse, bool)
}

func (m *mockAnalysis) Analyze(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
	return m.analyzeFunc(ctx, key, input)
}

func (m *mockAnalysis) Report(key string) (*model.JobPostingRiskResponse, bool) {
	return m.reportFunc(key)
}

type mockHeadlines struct {
	headlines []model.Headline
}

func (m *mockHeadlines) Headlines() []model.Headline { return m.headlines }

var _ AnalysisService = (*mockAnalysis)(nil)
var _ HeadlineSource = (*mockHeadlines)(nil)

func newHomeHandler(analysis *mockAnalysis, headlines *mockHeadlines, t *testing.T) *HomeHandler {
	return NewHomeHandler(analysis, headlines, testRenderer(t), testLogger(), false)
}

func TestHomeRendersHeadlines(t *testing.T) {
	h := newHomeHandler(
		&mockAnalysis{},
		&mockHeadlines{headlines: []model.Headline{{Title: "해외 채용 확대", Link: "https://example.com/1", Source: "테스트뉴스"}}},
		t,
	)

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "해외 채용 확대") {
		t.Errorf("body should contain headline title")
	}
	if !strings.Contains(body, "테스트뉴스") {
		t.Errorf("body should contain headline source")
	}
}

func TestAnalyzeRedirectsToReport(t *testing.T) {
	var gotKey, gotInput string
	h := newHomeHandler(
		&mockAnalysis{
			analyzeFunc: func(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
				gotKey, gotInput = key, input
				return &model.JobPostingRiskResponse{RiskLevel: "안전"}, nil
			},
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	r := withSession(formRequest("/analyze", url.Values{"input": {"https://jobs.example.com/123"}}), testSession())
	h.Analyze(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/report" {
		t.Errorf("Location = %q, want /report", loc)
	}
	if gotKey != "sess-1" {
		t.Errorf("analysis key = %q, want session ID", gotKey)
	}
	if gotInput != "https://jobs.example.com/123" {
		t.Errorf("input = %q", gotInput)
	}
}

func TestAnalyzeSessionExpiredRedirectsToLogin(t *testing.T) {
	h := newHomeHandler(
		&mockAnalysis{
			analyzeFunc: func(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
				return nil, model.ErrSessionExpired
			},
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	r := withSession(formRequest("/analyze", url.Values{"input": {"본문 텍스트"}}), testSession())
	h.Analyze(rec, r)

	// 失効時は汎用エラー画面ではなくログインページへ誘導する
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestAnalyzeAnonymousIssuesCookie(t *testing.T) {
	var gotKey string
	h := newHomeHandler(
		&mockAnalysis{
			analyzeFunc: func(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
				gotKey = key
				return &model.JobPostingRiskResponse{}, nil
			},
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	h.Analyze(rec, formRequest("/analyze", url.Values{"input": {"본문 텍스트"}}))

	res := rec.Result()
	var aid string
	for _, c := range res.Cookies() {
		if c.Name == anonymousIDCookie {
			aid = c.Value
			if !c.HttpOnly {
				t.Errorf("anonymous ID cookie should be HTTP only")
			}
		}
	}
	if aid == "" {
		t.Fatalf("anonymous ID cookie not set")
	}
	if gotKey != aid {
		t.Errorf("analysis key = %q, want cookie value %q", gotKey, aid)
	}
}

func TestAnalyzeValidationErrorKeepsInput(t *testing.T) {
	h := newHomeHandler(
		&mockAnalysis{
			analyzeFunc: func(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
				return nil, model.NewEmptyInputError()
			},
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	h.Analyze(rec, formRequest("/analyze", url.Values{"input": {"   "}}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "URL 또는 텍스트를 입력해주세요!") {
		t.Errorf("body should contain validation message")
	}
}

func TestReportWithoutResultRedirectsHome(t *testing.T) {
	h := newHomeHandler(
		&mockAnalysis{
			reportFunc: func(key string) (*model.JobPostingRiskResponse, bool) { return nil, false },
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	h.Report(rec, withSession(httptest.NewRequest(http.MethodGet, "/report", nil), testSession()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestReportRendersRiskIndicator(t *testing.T) {
	h := newHomeHandler(
		&mockAnalysis{
			reportFunc: func(key string) (*model.JobPostingRiskResponse, bool) {
				return &model.JobPostingRiskResponse{
					Title:        "해외 영업직 채용",
					RiskLevel:    "주의",
					RiskKeywords: []string{"선입금", "여권 보관"},
				}, true
			},
		},
		&mockHeadlines{},
		t,
	)

	rec := httptest.NewRecorder()
	h.Report(rec, withSession(httptest.NewRequest(http.MethodGet, "/report", nil), testSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	// 주의は5段階中3番目なので3個がアクティブ
	if got := strings.Count(body, `<span class="dot active"></span>`); got != 3 {
		t.Errorf("active dots = %d, want 3", got)
	}
	if got := strings.Count(body, `<span class="dot"></span>`); got != 2 {
		t.Errorf("inactive dots = %d, want 2", got)
	}
	if !strings.Contains(body, "선입금") {
		t.Errorf("body should contain risk keyword")
	}
}

type mockCommunityService struct {
	listFunc   func(ctx context.Context, query community.ListQuery) (*community.ListView, error)
	detailFunc func(ctx context.Context, postID int64) (*community.DetailView, error)
	submitFunc func(ctx context.Context, draft community.PostDraft) (*model.CommunityPostDetail, error)
}

func (m *mockCommunityService) List(ctx context.Context, query community.ListQuery) (*community.ListView, error) {
	return m.listFunc(ctx, query)
}

func (m *mockCommunityService) Detail(ctx context.Context, postID int64) (*community.DetailView, error) {
	return m.detailFunc(ctx, postID)
}

func (m *mockCommunityService) Submit(ctx context.Context, draft community.PostDraft) (*model.CommunityPostDetail, error) {
	return m.submitFunc(ctx, draft)
}

var _ CommunityService = (*mockCommunityService)(nil)

func testDraftLimits() community.DraftLimits {
	return community.DraftLimits{TitleMax: 120, ContentMax: 5000, TagMax: 10}
}

func newCommunityHandler(svc *mockCommunityService, t *testing.T) *CommunityHandler {
	return NewCommunityHandler(svc, testRenderer(t), testLogger(), testDraftLimits())
}

func TestCommunityListPassesQuery(t *testing.T) {
	var gotQuery community.ListQuery
	h := newCommunityHandler(&mockCommunityService{
		listFunc: func(ctx context.Context, query community.ListQuery) (*community.ListView, error) {
			gotQuery = query
			return &community.ListView{Query: query}, nil
		},
	}, t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/community?tag=면접&country=일본&sort=popular", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotQuery.Tag != "면접" || gotQuery.Country != "일본" || gotQuery.Sort != "popular" {
		t.Errorf("query = %+v", gotQuery)
	}
}

func TestCommunityListAllCountryMeansNoFilter(t *testing.T) {
	var gotQuery community.ListQuery
	h := newCommunityHandler(&mockCommunityService{
		listFunc: func(ctx context.Context, query community.ListQuery) (*community.ListView, error) {
			gotQuery = query
			return &community.ListView{Query: query}, nil
		},
	}, t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/community?country="+url.QueryEscape("전체"), nil))

	if gotQuery.Country != "" {
		t.Errorf("country = %q, want empty for 전체", gotQuery.Country)
	}
}

// detailRequest はchiのURLパラメータを持つ詳細ページリクエストを組み立てる。
func detailRequest(postID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/community/"+postID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", postID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCommunityDetailRendersParagraphs(t *testing.T) {
	h := newCommunityHandler(&mockCommunityService{
		detailFunc: func(ctx context.Context, postID int64) (*community.DetailView, error) {
			if postID != 42 {
				t.Errorf("postID = %d, want 42", postID)
			}
			return &community.DetailView{
				Post: &model.CommunityPostDetail{
					ID: 42, Title: "싱가포르 취업 후기", Author: "글쓴이",
					Rating: 4, CaseType: model.CaseTypeSuccess,
				},
				Paragraphs: []string{"첫 번째 단락", "두 번째 단락"},
			}, nil
		},
	}, t)

	rec := httptest.NewRecorder()
	h.Detail(rec, detailRequest("42"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>첫 번째 단락</p>") || !strings.Contains(body, "<p>두 번째 단락</p>") {
		t.Errorf("body should contain both paragraphs")
	}
}

func TestCommunityDetailSessionExpiredRedirectsToLogin(t *testing.T) {
	h := newCommunityHandler(&mockCommunityService{
		detailFunc: func(ctx context.Context, postID int64) (*community.DetailView, error) {
			return nil, model.ErrSessionExpired
		},
	}, t)

	rec := httptest.NewRecorder()
	h.Detail(rec, withSession(detailRequest("42"), testSession()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestCommunityDetailInvalidID(t *testing.T) {
	h := newCommunityHandler(&mockCommunityService{
		detailFunc: func(ctx context.Context, postID int64) (*community.DetailView, error) {
			t.Fatal("service should not be called for invalid ID")
			return nil, nil
		},
	}, t)

	rec := httptest.NewRecorder()
	h.Detail(rec, detailRequest("abc"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "잘못된 게시글 ID입니다") {
		t.Errorf("body should contain invalid ID message")
	}
}

func TestCommunityCreateRedirectsToDetail(t *testing.T) {
	var gotDraft community.PostDraft
	h := newCommunityHandler(&mockCommunityService{
		submitFunc: func(ctx context.Context, draft community.PostDraft) (*model.CommunityPostDetail, error) {
			gotDraft = draft
			return &model.CommunityPostDetail{ID: 7}, nil
		},
	}, t)

	values := url.Values{
		"title":       {"제목"},
		"content":     {"내용"},
		"rating":      {"4"},
		"tags":        {"면접, 비자, 면접"},
		"caseType":    {"SUCCESS"},
		"isAnonymous": {"1"},
		"country":     {"일본"},
	}
	rec := httptest.NewRecorder()
	h.Create(rec, withSession(formRequest("/community/posts", values), testSession()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/community/7" {
		t.Errorf("Location = %q, want /community/7", loc)
	}
	if len(gotDraft.Tags) != 2 {
		t.Errorf("tags = %v, want deduplicated 2 tags", gotDraft.Tags)
	}
	if !gotDraft.IsAnonymous {
		t.Errorf("IsAnonymous should be true")
	}
}

func TestCommunityCreateValidationErrorKeepsForm(t *testing.T) {
	h := newCommunityHandler(&mockCommunityService{
		submitFunc: func(ctx context.Context, draft community.PostDraft) (*model.CommunityPostDetail, error) {
			return nil, model.NewRequiredFieldsError()
		},
	}, t)

	values := url.Values{
		"title":    {"제목만 있는 글"},
		"rating":   {"3"},
		"caseType": {"RISK"},
	}
	rec := httptest.NewRecorder()
	h.Create(rec, withSession(formRequest("/community/posts", values), testSession()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "필수 항목") {
		t.Errorf("body should contain validation message")
	}
	if !strings.Contains(body, "제목만 있는 글") {
		t.Errorf("body should keep entered title")
	}
}

type mockNewsService struct {
	loadFunc        func(ctx context.Context) (*news.View, error)
	postCommentFunc func(ctx context.Context, content string) (*model.NewsComment, error)
}

func (m *mockNewsService) Load(ctx context.Context) (*news.View, error) {
	return m.loadFunc(ctx)
}

func (m *mockNewsService) PostComment(ctx context.Context, content string) (*model.NewsComment, error) {
	return m.postCommentFunc(ctx, content)
}

var _ NewsService = (*mockNewsService)(nil)

func TestNewsRendersTrend(t *testing.T) {
	h := NewNewsHandler(&mockNewsService{
		loadFunc: func(ctx context.Context) (*news.View, error) {
			return &news.View{
				TrendSummary: "해외 취업 시장이 회복세입니다.",
				Keywords:     []model.TrendKeyword{{Keyword: "리모트", Frequency: 12}},
				Bars:         []news.Bar{{Industry: "IT", IssueCount: 10, Height: 130}},
			}, nil
		},
	}, testRenderer(t), testLogger())

	rec := httptest.NewRecorder()
	h.News(rec, httptest.NewRequest(http.MethodGet, "/news", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "해외 취업 시장이 회복세입니다.") {
		t.Errorf("body should contain trend summary")
	}
	if !strings.Contains(body, "height: 130px") {
		t.Errorf("body should contain normalized bar height")
	}
}

func TestNewsPostCommentRedirects(t *testing.T) {
	var gotContent string
	h := NewNewsHandler(&mockNewsService{
		postCommentFunc: func(ctx context.Context, content string) (*model.NewsComment, error) {
			gotContent = content
			return &model.NewsComment{ID: 1, Content: content}, nil
		},
	}, testRenderer(t), testLogger())

	rec := httptest.NewRecorder()
	r := withSession(formRequest("/news/comments", url.Values{"content": {"좋은 정보 감사합니다"}}), testSession())
	h.PostComment(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/news" {
		t.Errorf("Location = %q, want /news", loc)
	}
	if gotContent != "좋은 정보 감사합니다" {
		t.Errorf("content = %q", gotContent)
	}
}

func TestNewsPostCommentEmptyShowsError(t *testing.T) {
	h := NewNewsHandler(&mockNewsService{
		loadFunc: func(ctx context.Context) (*news.View, error) {
			return &news.View{}, nil
		},
		postCommentFunc: func(ctx context.Context, content string) (*model.NewsComment, error) {
			return nil, model.NewCommentRequiredError()
		},
	}, testRenderer(t), testLogger())

	rec := httptest.NewRecorder()
	r := withSession(formRequest("/news/comments", url.Values{"content": {"   "}}), testSession())
	h.PostComment(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "댓글 내용을 입력해주세요.") {
		t.Errorf("body should contain validation message")
	}
}

type mockAuthenticator struct {
	loginFunc  func(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	signupFunc func(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error)
	logoutFunc func(ctx context.Context, refreshToken string) error
	quitFunc   func(ctx context.Context) error
}

func (m *mockAuthenticator) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthenticator) Signup(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
	return m.signupFunc(ctx, req)
}

func (m *mockAuthenticator) Logout(ctx context.Context, refreshToken string) error {
	return m.logoutFunc(ctx, refreshToken)
}

func (m *mockAuthenticator) Quit(ctx context.Context) error {
	return m.quitFunc(ctx)
}

type mockSessionCreator struct {
	createFunc func(ctx context.Context, accessToken, refreshToken string) (*model.Session, error)
	deleted    []string
}

func (m *mockSessionCreator) Create(ctx context.Context, accessToken, refreshToken string) (*model.Session, error) {
	return m.createFunc(ctx, accessToken, refreshToken)
}

func (m *mockSessionCreator) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockDiscarder struct {
	discarded []string
}

func (m *mockDiscarder) Discard(key string) {
	m.discarded = append(m.discarded, key)
}

var _ Authenticator = (*mockAuthenticator)(nil)
var _ SessionCreator = (*mockSessionCreator)(nil)
var _ ResultDiscarder = (*mockDiscarder)(nil)

func testAuthConfig() AuthConfig {
	return AuthConfig{
		PasswordMinLen: 4,
		SessionMaxAge:  time.Hour,
		CookieSecure:   false,
	}
}

func newAuthHandler(auth *mockAuthenticator, sessions *mockSessionCreator, results *mockDiscarder, t *testing.T) *AuthHandler {
	return NewAuthHandler(auth, sessions, results, testRenderer(t), testLogger(), testAuthConfig())
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	auth := &mockAuthenticator{
		loginFunc: func(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
			if req.Username != "hong" || req.Password != "pass1234" {
				t.Errorf("unexpected credentials: %+v", req)
			}
			return &model.LoginResponse{
				TokenResponse: model.TokenResponse{AccessToken: "a1", RefreshToken: "r1"},
			}, nil
		},
	}
	sessions := &mockSessionCreator{
		createFunc: func(ctx context.Context, accessToken, refreshToken string) (*model.Session, error) {
			if accessToken != "a1" || refreshToken != "r1" {
				t.Errorf("unexpected tokens: %s %s", accessToken, refreshToken)
			}
			return &model.Session{ID: "new-sess"}, nil
		},
	}
	h := newAuthHandler(auth, sessions, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	h.Login(rec, formRequest("/login", url.Values{"username": {"hong"}, "password": {"pass1234"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	var sidCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sidCookie = c
		}
	}
	if sidCookie == nil {
		t.Fatalf("session cookie not set")
	}
	if sidCookie.Value != "new-sess" {
		t.Errorf("cookie value = %q", sidCookie.Value)
	}
	if !sidCookie.HttpOnly {
		t.Errorf("session cookie should be HTTP only")
	}
}

func TestLoginBackendRejectionShowsLoginFailed(t *testing.T) {
	h := newAuthHandler(&mockAuthenticator{
		loginFunc: func(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
			return nil, newStatusError(http.StatusUnauthorized)
		},
	}, &mockSessionCreator{}, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	h.Login(rec, formRequest("/login", url.Values{"username": {"hong"}, "password": {"wrong"}}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "로그인에 실패했습니다.") {
		t.Errorf("body should contain login failed message")
	}
	if !strings.Contains(body, `value="hong"`) {
		t.Errorf("body should keep entered username")
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := newAuthHandler(&mockAuthenticator{
		loginFunc: func(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
			t.Fatal("backend should not be called")
			return nil, nil
		},
	}, &mockSessionCreator{}, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	h.Login(rec, formRequest("/login", url.Values{"username": {"hong"}}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSignupPasswordTooShort(t *testing.T) {
	h := newAuthHandler(&mockAuthenticator{
		signupFunc: func(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
			t.Fatal("backend should not be called")
			return nil, nil
		},
	}, &mockSessionCreator{}, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	values := url.Values{"username": {"hong"}, "password": {"abc"}, "passwordConfirm": {"abc"}}
	h.Signup(rec, formRequest("/signup", values))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "4자 이상이어야 합니다") {
		t.Errorf("body should contain password length message")
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	h := newAuthHandler(&mockAuthenticator{
		signupFunc: func(ctx context.Context, req model.SignupRequest) (*model.LoginResponse, error) {
			t.Fatal("backend should not be called")
			return nil, nil
		},
	}, &mockSessionCreator{}, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	values := url.Values{"username": {"hong"}, "password": {"pass1234"}, "passwordConfirm": {"pass9999"}}
	h.Signup(rec, formRequest("/signup", values))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "비밀번호가 일치하지 않습니다.") {
		t.Errorf("body should contain mismatch message")
	}
}

func TestLogoutTearsDownSession(t *testing.T) {
	var loggedOutToken string
	auth := &mockAuthenticator{
		logoutFunc: func(ctx context.Context, refreshToken string) error {
			loggedOutToken = refreshToken
			return nil
		},
	}
	sessions := &mockSessionCreator{}
	results := &mockDiscarder{}
	h := newAuthHandler(auth, sessions, results, t)

	rec := httptest.NewRecorder()
	h.Logout(rec, withSession(formRequest("/logout", url.Values{}), testSession()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loggedOutToken != "rt" {
		t.Errorf("refresh token = %q, want rt", loggedOutToken)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "sess-1" {
		t.Errorf("deleted sessions = %v", sessions.deleted)
	}
	if len(results.discarded) != 1 || results.discarded[0] != "sess-1" {
		t.Errorf("discarded results = %v", results.discarded)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Errorf("session cookie should be cleared")
	}
}

// ログアウトはバックエンド側が失敗してもローカルセッションを破棄する
func TestLogoutBackendFailureStillClearsSession(t *testing.T) {
	auth := &mockAuthenticator{
		logoutFunc: func(ctx context.Context, refreshToken string) error {
			return errors.New("backend down")
		},
	}
	sessions := &mockSessionCreator{}
	h := newAuthHandler(auth, sessions, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	h.Logout(rec, withSession(formRequest("/logout", url.Values{}), testSession()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if len(sessions.deleted) != 1 {
		t.Errorf("session should be deleted even when backend logout fails")
	}
}

func TestQuitBackendFailureKeepsSession(t *testing.T) {
	auth := &mockAuthenticator{
		quitFunc: func(ctx context.Context) error {
			return newStatusError(http.StatusInternalServerError)
		},
	}
	sessions := &mockSessionCreator{}
	h := newAuthHandler(auth, sessions, &mockDiscarder{}, t)

	rec := httptest.NewRecorder()
	h.Quit(rec, withSession(formRequest("/quit", url.Values{}), testSession()))

	if len(sessions.deleted) != 0 {
		t.Errorf("session should not be deleted when quit fails")
	}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }

func TestHealthOK(t *testing.T) {
	h := NewHealthHandler(&mockPinger{}, testLogger())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	h := NewHealthHandler(&mockPinger{err: errors.New("connection refused")}, testLogger())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
