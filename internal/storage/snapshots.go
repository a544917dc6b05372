// internal/storage/snapshots.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	requestSnapshotKeyPrefix  = "request:snapshot:"
	propertySnapshotKeyPrefix = "property:snapshot:"
)

// SnapshotStore serves search request and property snapshots with a Redis
// read-through cache in front of Postgres. Workers read snapshots by id so
// a ranking job and a scoring job see the same record state.
type SnapshotStore struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewSnapshotStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     db,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "snapshot-store"}),
	}
}

// GetRequest returns the search request snapshot for id.
func (s *SnapshotStore) GetRequest(ctx context.Context, id string) (*models.SearchRequest, error) {
	cacheKey := requestSnapshotKeyPrefix + id

	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var req models.SearchRequest
		if err := json.Unmarshal([]byte(val), &req); err == nil {
			return &req, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `SELECT data FROM search_requests WHERE id = $1`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewSnapshotNotFoundError("search_request", id)
		}
		return nil, errors.NewQueryExecutionFailedError("get_request_snapshot", err)
	}

	var req models.SearchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, errors.NewQueryExecutionFailedError("decode_request_snapshot", err)
	}

	s.cache(ctx, cacheKey, &req)
	return &req, nil
}

// GetProperty returns the property snapshot for id.
func (s *SnapshotStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	cacheKey := propertySnapshotKeyPrefix + id

	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var prop models.Property
		if err := json.Unmarshal([]byte(val), &prop); err == nil {
			return &prop, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `SELECT data FROM properties WHERE id = $1`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewSnapshotNotFoundError("property", id)
		}
		return nil, errors.NewQueryExecutionFailedError("get_property_snapshot", err)
	}

	var prop models.Property
	if err := json.Unmarshal(raw, &prop); err != nil {
		return nil, errors.NewQueryExecutionFailedError("decode_property_snapshot", err)
	}

	s.cache(ctx, cacheKey, &prop)
	return &prop, nil
}

// Invalidate drops the cached snapshots for the given ids.
func (s *SnapshotStore) Invalidate(ctx context.Context, requestID, propertyID string) {
	keys := make([]string, 0, 2)
	if requestID != "" {
		keys = append(keys, requestSnapshotKeyPrefix+requestID)
	}
	if propertyID != "" {
		keys = append(keys, propertySnapshotKeyPrefix+propertyID)
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("failed to invalidate snapshot cache", map[string]interface{}{
			"keys":  keys,
			"error": err,
		})
	}
}

func (s *SnapshotStore) cache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to cache snapshot", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}
