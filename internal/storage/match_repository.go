// internal/storage/match_repository.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// MatchRepository persists matches in Postgres. Status transitions are
// serialized per match through the version column: updates carry the version
// the caller loaded, and a concurrent writer makes the update miss.
type MatchRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMatchRepository(db *sql.DB, log logger.Logger) *MatchRepository {
	return &MatchRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "match-repository"}),
	}
}

// Insert stores a new match. The matches table carries a unique constraint
// on (request_id, property_id); a second match for the same pairing is
// rejected as a duplicate. The score breakdown is immutable after insert.
func (r *MatchRepository) Insert(ctx context.Context, m *models.Match) error {
	scoreRaw, err := json.Marshal(m.Score)
	if err != nil {
		return errors.NewQueryExecutionFailedError("encode_match_score", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO matches (
			id, request_id, property_id, score, status,
			reaction, rejection_reason,
			sent_date, viewed_date, visited_date, closed_date,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.RequestID, m.PropertyID, scoreRaw, m.Status,
		nullString(m.Reaction), nullString(m.RejectionReason),
		m.SentDate, m.ViewedDate, m.VisitedDate, m.ClosedDate,
		m.CreatedAt, m.UpdatedAt, m.Version,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return errors.NewDuplicateMatchError(m.RequestID, m.PropertyID)
		}
		return errors.NewQueryExecutionFailedError("insert_match", err)
	}
	return nil
}

// Get loads a match by id.
func (r *MatchRepository) Get(ctx context.Context, id string) (*models.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, request_id, property_id, score, status,
		       reaction, rejection_reason,
		       sent_date, viewed_date, visited_date, closed_date,
		       created_at, updated_at, version
		FROM matches WHERE id = $1`, id)

	m, err := scanMatch(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewMatchNotFoundError(id)
		}
		return nil, errors.NewQueryExecutionFailedError("get_match", err)
	}
	return m, nil
}

// ExistsPair reports whether a match already links the request and property.
func (r *MatchRepository) ExistsPair(ctx context.Context, requestID, propertyID string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM matches WHERE request_id = $1 AND property_id = $2
		)`, requestID, propertyID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, errors.NewQueryExecutionFailedError("exists_match_pair", err)
	}
	return exists, nil
}

// UpdateWithVersion writes the mutated match back, guarded by the version the
// caller loaded. A missed update means either a concurrent writer won the
// race (version conflict, retryable) or the match is gone. The score column
// is deliberately left out: it is fixed at creation time.
func (r *MatchRepository) UpdateWithVersion(ctx context.Context, m *models.Match, expectedVersion int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches SET
			status = $3,
			reaction = $4, rejection_reason = $5,
			sent_date = $6, viewed_date = $7, visited_date = $8, closed_date = $9,
			updated_at = $10, version = $11
		WHERE id = $1 AND version = $2`,
		m.ID, expectedVersion,
		m.Status,
		nullString(m.Reaction), nullString(m.RejectionReason),
		m.SentDate, m.ViewedDate, m.VisitedDate, m.ClosedDate,
		m.UpdatedAt, m.Version,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_match", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_match_rows", err)
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, m.ID); getErr != nil {
			return getErr
		}
		return errors.NewVersionConflictError(m.ID, expectedVersion)
	}
	return nil
}

// ListByRequest returns all matches for a search request, newest first.
func (r *MatchRepository) ListByRequest(ctx context.Context, requestID string) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, property_id, score, status,
		       reaction, rejection_reason,
		       sent_date, viewed_date, visited_date, closed_date,
		       created_at, updated_at, version
		FROM matches WHERE request_id = $1
		ORDER BY created_at DESC`, requestID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_matches", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan_match", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_matches", err)
	}
	return matches, nil
}

func scanMatch(scan func(dest ...interface{}) error) (*models.Match, error) {
	var m models.Match
	var scoreRaw []byte
	var reaction, rejectionReason sql.NullString

	err := scan(
		&m.ID, &m.RequestID, &m.PropertyID, &scoreRaw, &m.Status,
		&reaction, &rejectionReason,
		&m.SentDate, &m.ViewedDate, &m.VisitedDate, &m.ClosedDate,
		&m.CreatedAt, &m.UpdatedAt, &m.Version,
	)
	if err != nil {
		return nil, err
	}

	if len(scoreRaw) > 0 {
		if err := json.Unmarshal(scoreRaw, &m.Score); err != nil {
			return nil, err
		}
	}
	m.Reaction = reaction.String
	m.RejectionReason = rejectionReason.String
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
