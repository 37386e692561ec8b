package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"autoposter/internal/domain"
)

// AssetStats aggregates the publish history of one asset.
type AssetStats struct {
	Path         string         `db:"path"`
	Kind         string         `db:"kind"`
	SuccessCount int            `db:"success_count"`
	FailureCount int            `db:"failure_count"`
	LastPostedAt sql.NullTime   `db:"last_posted_at"`
	LastError    sql.NullString `db:"last_error"`
}

type AssetStatsStore struct {
	db *sqlx.DB
}

func NewAssetStatsStore(db *sqlx.DB) *AssetStatsStore {
	return &AssetStatsStore{db: db}
}

// Record folds one outcome into the asset's counters. A success moves
// last_posted_at forward; a failure keeps it and stores the error.
func (s *AssetStatsStore) Record(ctx context.Context, result *domain.PublishResult) error {
	query := `
		INSERT INTO asset_stats (path, kind, success_count, failure_count, last_posted_at, last_error, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (path) DO UPDATE SET
			kind = EXCLUDED.kind,
			success_count = asset_stats.success_count + EXCLUDED.success_count,
			failure_count = asset_stats.failure_count + EXCLUDED.failure_count,
			last_posted_at = COALESCE(EXCLUDED.last_posted_at, asset_stats.last_posted_at),
			last_error = CASE WHEN EXCLUDED.success_count > 0 THEN asset_stats.last_error ELSE EXCLUDED.last_error END,
			updated_at = NOW()`

	var (
		success, failure int
		postedAt         sql.NullTime
		lastErr          sql.NullString
	)
	if result.Success {
		success = 1
		at := result.PublishedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		postedAt = sql.NullTime{Time: at, Valid: true}
	} else {
		failure = 1
		lastErr = nullString(result.Error())
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		result.Path,
		string(result.Kind),
		success,
		failure,
		postedAt,
		lastErr,
	)
	return err
}

// GetByPaths returns the stats of the known paths keyed by path. Unknown
// paths are absent from the map.
func (s *AssetStatsStore) GetByPaths(ctx context.Context, paths []string) (map[string]AssetStats, error) {
	if len(paths) == 0 {
		return make(map[string]AssetStats), nil
	}

	query := `
		SELECT path, kind, success_count, failure_count, last_posted_at, last_error
		FROM asset_stats
		WHERE path = ANY($1)`

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, query, pq.Array(paths))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]AssetStats, len(paths))
	for rows.Next() {
		var stats AssetStats
		if err := rows.StructScan(&stats); err != nil {
			return nil, err
		}
		result[stats.Path] = stats
	}

	return result, rows.Err()
}
