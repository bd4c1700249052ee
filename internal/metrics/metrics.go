// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
// バックエンドAPI呼び出しと見出しフィード取得の成否を記録する。
type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  prometheus.Histogram
	headlineSuccess prometheus.Counter
	headlineFail    prometheus.Counter
	analysisTotal   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobscout_backend_requests_total",
			Help: "バックエンドAPI呼び出しのエンドポイント・ステータス別合計数",
		}, []string{"endpoint", "status_code"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobscout_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		headlineSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobscout_headline_fetch_success_total",
			Help: "見出しフィード取得成功の合計数",
		}),
		headlineFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobscout_headline_fetch_fail_total",
			Help: "見出しフィード取得失敗の合計数",
		}),
		analysisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobscout_analysis_total",
			Help: "求人公告分析の結果別合計数",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.headlineSuccess,
		c.headlineFail,
		c.analysisTotal,
	)

	return c
}

// RecordBackendRequest はバックエンドAPI呼び出しを記録する。
// トランスポート層の失敗はステータスコード0として記録される。
func (c *Collector) RecordBackendRequest(endpoint string, statusCode int, duration time.Duration) {
	c.backendRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.Observe(duration.Seconds())
}

// RecordHeadlineFetchSuccess は見出しフィード取得成功を記録する。
func (c *Collector) RecordHeadlineFetchSuccess() {
	c.headlineSuccess.Inc()
}

// RecordHeadlineFetchFailure は見出しフィード取得失敗を記録する。
func (c *Collector) RecordHeadlineFetchFailure() {
	c.headlineFail.Inc()
}

// RecordAnalysis は分析の結果（success / failure / rejected）を記録する。
func (c *Collector) RecordAnalysis(outcome string) {
	c.analysisTotal.WithLabelValues(outcome).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
