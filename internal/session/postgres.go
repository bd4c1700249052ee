package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/jobscout/internal/model"
)

// PostgresStore はPostgreSQLを使用したセッションストア。
type PostgresStore struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewPostgresStore はPostgresStoreを生成する。
// maxAgeはセッションの有効期間を指定する。
func NewPostgresStore(db *sql.DB, maxAge time.Duration) *PostgresStore {
	return &PostgresStore{db: db, maxAge: maxAge}
}

// Create はトークンペアから新しいセッションを作成する。
func (s *PostgresStore) Create(ctx context.Context, accessToken, refreshToken string) (*model.Session, error) {
	sess := &model.Session{
		ID:           uuid.NewString(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    now().UTC(),
	}
	sess.ExpiresAt = sess.CreatedAt.Add(s.maxAge)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, access_token, refresh_token, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.AccessToken, sess.RefreshToken, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	sess := &model.Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, access_token, refresh_token, created_at, expires_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&sess.ID, &sess.AccessToken, &sess.RefreshToken, &sess.CreatedAt, &sess.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return sess, nil
}

// Delete は指定IDのセッションを破棄する。
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れセッションを一括削除する。
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ Store = (*PostgresStore)(nil)
