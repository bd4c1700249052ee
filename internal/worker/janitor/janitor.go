// Package janitor は失効データの定期削除ジョブを提供する。
// 期限切れのサーバーセッションとTTLを過ぎた分析結果を定期的に片付ける。
// 冪等な削除処理であり、対象がない場合でもエラーにならない。
package janitor

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper は期限切れセッションの削除インターフェース。
// session.Storeの部分集合として定義する。
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StashSweeper は失効した分析結果の削除インターフェース。
type StashSweeper interface {
	RemoveExpired() int
}

// Janitor は失効データの定期削除ジョブ。
type Janitor struct {
	sessions SessionSweeper
	stash    StashSweeper
	logger   *slog.Logger
}

// New は新しいJanitorを生成する。
func New(sessions SessionSweeper, stash StashSweeper, logger *slog.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		stash:    stash,
		logger:   logger,
	}
}

// Start は指定間隔のティッカーでジョブを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Janitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("クリーンアップジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	j.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("クリーンアップジョブを停止しました")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce は失効データを1回削除する。
func (j *Janitor) RunOnce(ctx context.Context) {
	start := time.Now()

	sessionsDeleted, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	resultsDeleted := j.stash.RemoveExpired()

	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("sessions_deleted", sessionsDeleted),
		slog.Int("results_deleted", resultsDeleted),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
}
