package inspection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"verifai/pkg/platform/sentinel"
)

// PostgresStore persists sessions in the inspections table. Every operation
// is a single statement, so per-record atomicity comes from the database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, caseID string, lat, long float64, code string) error {
	const query = `
		INSERT INTO inspections (case_id, gps_lat, gps_long, verification_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
		ON CONFLICT (case_id) DO UPDATE SET
			gps_lat = EXCLUDED.gps_lat,
			gps_long = EXCLUDED.gps_long,
			verification_code = EXCLUDED.verification_code,
			status = 'pending',
			updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, caseID, lat, long, code); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, caseID string) (*Session, error) {
	const query = `
		SELECT case_id, gps_lat, gps_long, verification_code, status,
		       COALESCE(video_url, ''), ai_result, COALESCE(report_url, ''),
		       created_at, updated_at
		FROM inspections
		WHERE case_id = $1`

	var (
		session Session
		result  []byte
	)
	err := s.db.QueryRowContext(ctx, query, caseID).Scan(
		&session.CaseID,
		&session.GPSLat,
		&session.GPSLong,
		&session.VerificationCode,
		&session.Status,
		&session.VideoURL,
		&result,
		&session.ReportURL,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(result) > 0 {
		session.AIResult = json.RawMessage(result)
	}
	return &session, nil
}

func (s *PostgresStore) SetVideo(ctx context.Context, caseID, videoURL string) error {
	const query = `
		UPDATE inspections
		SET video_url = $2, status = 'processing', updated_at = NOW()
		WHERE case_id = $1`
	return s.exec(ctx, "set video", query, caseID, videoURL)
}

func (s *PostgresStore) SetResult(ctx context.Context, caseID string, verdict json.RawMessage) error {
	const query = `
		UPDATE inspections
		SET ai_result = $2, status = 'completed', updated_at = NOW()
		WHERE case_id = $1`
	return s.exec(ctx, "set result", query, caseID, []byte(verdict))
}

func (s *PostgresStore) SetReport(ctx context.Context, caseID, reportURL string) error {
	const query = `
		UPDATE inspections
		SET report_url = $2, updated_at = NOW()
		WHERE case_id = $1`
	return s.exec(ctx, "set report", query, caseID, reportURL)
}

func (s *PostgresStore) exec(ctx context.Context, verb, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", verb, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
