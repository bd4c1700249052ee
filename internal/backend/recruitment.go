package backend

import (
	"context"
	"net/http"

	"github.com/hitoshi/jobscout/internal/model"
)

// Analyze は求人公告の分析を外部サービスに依頼する。
// 分析の計算はすべて外部サービス側で行われ、クライアントは結果を表示するだけである。
func (c *Client) Analyze(ctx context.Context, req model.JobPostingAnalysisRequest) (*model.JobPostingRiskResponse, error) {
	var out model.JobPostingRiskResponse
	if err := c.do(ctx, http.MethodPost, "/api/recruitment/analyze", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarketTrend は市場トレンド集計を取得する。
func (c *Client) MarketTrend(ctx context.Context) (*model.MarketTrendResponse, error) {
	var out model.MarketTrendResponse
	if err := c.do(ctx, http.MethodGet, "/api/recruitment/market-trend", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
