package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"autoposter/internal/domain"
)

// HistoryStore audits publish outcomes and job runs.
type HistoryStore struct {
	log   *PublishLogStore
	stats *AssetStatsStore
	runs  *JobRunStore
	tx    *TransactionManager
}

func NewHistoryStore(db *sqlx.DB) *HistoryStore {
	return &HistoryStore{
		log:   NewPublishLogStore(db),
		stats: NewAssetStatsStore(db),
		runs:  NewJobRunStore(db),
		tx:    NewTransactionManager(db),
	}
}

// Connect opens and pings the history database.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// RecordPublish writes the log entry and, for asset posts, the stats update
// in one transaction.
func (h *HistoryStore) RecordPublish(ctx context.Context, result *domain.PublishResult) error {
	err := h.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.log.Insert(ctx, result); err != nil {
			return fmt.Errorf("insert publish log: %w", err)
		}
		if result.Path == "" {
			return nil
		}
		if err := h.stats.Record(ctx, result); err != nil {
			return fmt.Errorf("update asset stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.NewError(domain.KindPersistence, "record publish", err)
	}
	return nil
}

func (h *HistoryStore) RecordRun(ctx context.Context, run *domain.JobRun) error {
	if err := h.runs.Insert(ctx, run); err != nil {
		return domain.NewError(domain.KindPersistence, "record job run", err)
	}
	return nil
}
