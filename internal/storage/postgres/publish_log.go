package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"autoposter/internal/domain"
)

// PublishLogEntry is one row of publish_log.
type PublishLogEntry struct {
	ID               int64          `db:"id"`
	EventID          string         `db:"event_id"`
	Kind             string         `db:"kind"`
	Path             sql.NullString `db:"path"`
	Success          bool           `db:"success"`
	RemoteID         sql.NullString `db:"remote_id"`
	ErrorKind        sql.NullString `db:"error_kind"`
	Error            sql.NullString `db:"error"`
	RetryCount       int            `db:"retry_count"`
	FileSize         sql.NullInt64  `db:"file_size"`
	ProcessingStatus sql.NullString `db:"processing_status"`
	PublishedAt      time.Time      `db:"published_at"`
}

type PublishLogStore struct {
	db *sqlx.DB
}

func NewPublishLogStore(db *sqlx.DB) *PublishLogStore {
	return &PublishLogStore{db: db}
}

// Insert appends one publish outcome and returns its row id. The row carries
// the result's EventID so it can be matched to the bus message.
func (s *PublishLogStore) Insert(ctx context.Context, result *domain.PublishResult) (int64, error) {
	query := `
		INSERT INTO publish_log (
			event_id, kind, path, success, remote_id, error_kind, error,
			retry_count, file_size, processing_status, published_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id`

	eventID := result.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	publishedAt := result.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		eventID,
		string(result.Kind),
		nullString(result.Path),
		result.Success,
		nullString(result.RemoteID),
		nullString(string(result.ErrorKind)),
		nullString(result.Error()),
		result.RetryCount,
		sql.NullInt64{Int64: result.FileSize, Valid: result.FileSize > 0},
		nullString(string(result.ProcessingStatus)),
		publishedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// ListByPath returns the entries for path, newest first.
func (s *PublishLogStore) ListByPath(ctx context.Context, path string, limit int) ([]PublishLogEntry, error) {
	query := `
		SELECT id, event_id, kind, path, success, remote_id, error_kind, error,
			retry_count, file_size, processing_status, published_at
		FROM publish_log
		WHERE path = $1
		ORDER BY published_at DESC, id DESC
		LIMIT $2`

	var entries []PublishLogEntry
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &entries, query, path, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
