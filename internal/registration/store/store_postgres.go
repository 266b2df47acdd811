package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"memberportal/internal/registration/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/platform/tx"
)

// PostgresStore keeps each session as one JSONB snapshot row.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

type PostgresOption func(*PostgresStore)

func WithPostgresClock(now func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) Save(ctx context.Context, session *models.RegistrationSession) error {
	snapshot, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal registration session: %w", err)
	}
	query := `
		INSERT INTO registration_sessions (id, snapshot, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err = tx.Conn(ctx, s.db).ExecContext(ctx, query,
		session.ID.String(), snapshot, session.ExpiresAt, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save registration session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	var raw []byte
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT snapshot FROM registration_sessions WHERE id = $1 AND expires_at > $2`,
		regID.String(), s.now(),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration session: %w", err)
	}
	var session models.RegistrationSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal registration session: %w", err)
	}
	if session.Errors == nil {
		session.Errors = models.ErrorMap{}
	}
	return &session, nil
}

func (s *PostgresStore) Delete(ctx context.Context, regID id.RegistrationID) error {
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM registration_sessions WHERE id = $1`, regID.String())
	if err != nil {
		return fmt.Errorf("delete registration session: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM registration_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired registration sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired registration sessions: %w", err)
	}
	return int(n), nil
}
