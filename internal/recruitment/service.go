package recruitment

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hitoshi/jobscout/internal/model"
)

// Analyzer はこのサービスが利用するバックエンド呼び出しのインターフェース。
type Analyzer interface {
	Analyze(ctx context.Context, req model.JobPostingAnalysisRequest) (*model.JobPostingRiskResponse, error)
	MarketTrend(ctx context.Context) (*model.MarketTrendResponse, error)
}

// MetricsRecorder は分析結果の計測インターフェース。
type MetricsRecorder interface {
	RecordAnalysis(outcome string)
}

// noopMetrics は何も記録しないMetricsRecorder。
type noopMetrics struct{}

func (noopMetrics) RecordAnalysis(string) {}

// Option はServiceの生成オプション。
type Option func(*Service)

// WithMetrics は分析結果の計測先を設定する。
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Service は求人公告分析のユースケースを提供する。
// 1キー（セッション）につき同時に実行できる分析は1件のみ。
type Service struct {
	analyzer Analyzer
	stash    *ResultStash
	logger   *slog.Logger
	metrics  MetricsRecorder

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService は分析サービスを生成する。
func NewService(analyzer Analyzer, stash *ResultStash, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		analyzer: analyzer,
		stash:    stash,
		logger:   logger,
		metrics:  noopMetrics{},
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin はキーに対する分析の開始を記録する。既に進行中ならfalseを返す。
func (s *Service) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inFlight[key]; running {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

// finish はキーに対する分析の終了を記録する。
func (s *Service) finish(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Analyze は入力を分類して外部分析サービスに依頼し、結果を一時ストアに保存する。
// 空入力・多重送信はバリデーションエラーとして返す。
// 分析失敗時は詳細をログに記録し、画面向けには汎用の失敗エラーを返す。
// ただしセッション失効は包み替えずそのまま伝播する。
func (s *Service) Analyze(ctx context.Context, key, input string) (*model.JobPostingRiskResponse, error) {
	req, apiErr := ClassifyInput(input)
	if apiErr != nil {
		return nil, apiErr
	}

	if !s.begin(key) {
		s.metrics.RecordAnalysis("rejected")
		return nil, model.NewAnalysisInFlightError()
	}
	defer s.finish(key)

	result, err := s.analyzer.Analyze(ctx, *req)
	if err != nil {
		// セッション失効は汎用エラーに包まず、ログイン画面への誘導に委ねる
		if errors.Is(err, model.ErrSessionExpired) {
			return nil, err
		}
		s.metrics.RecordAnalysis("failure")
		s.logger.Error("job posting analysis failed",
			slog.String("input_type", string(req.Type)),
			slog.String("error", err.Error()),
		)
		return nil, model.NewAnalysisFailedError()
	}

	s.metrics.RecordAnalysis("success")
	s.stash.Put(key, result)
	s.logger.Info("job posting analysis completed",
		slog.String("input_type", string(req.Type)),
		slog.String("risk_level", result.RiskLevel),
	)
	return result, nil
}

// Report は保存済みの分析結果を返す。未保存または失効済みの場合はfalseを返す。
func (s *Service) Report(key string) (*model.JobPostingRiskResponse, bool) {
	return s.stash.Get(key)
}

// Discard はキーに対する保存結果を破棄する。
func (s *Service) Discard(key string) {
	s.stash.Delete(key)
}

// MarketTrend は市場トレンド集計を取得する。
func (s *Service) MarketTrend(ctx context.Context) (*model.MarketTrendResponse, error) {
	return s.analyzer.MarketTrend(ctx)
}

// MaxReportKeywords はレポートに表示するリスクキーワードの上限。
const MaxReportKeywords = 6

// ReportKeywords はレポート表示用にリスクキーワードを上限件数まで切り詰める。
func ReportKeywords(result *model.JobPostingRiskResponse) []string {
	if len(result.RiskKeywords) <= MaxReportKeywords {
		return result.RiskKeywords
	}
	return result.RiskKeywords[:MaxReportKeywords]
}
