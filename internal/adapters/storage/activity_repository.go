package storage

import (
	"context"
	"database/sql"

	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// activityRepository implements ports.ActivityRepository on the
// "activityData" and "activityHistory" documents.
type activityRepository struct {
	kv *kvStore
}

func newActivityRepository(kv *kvStore) ports.ActivityRepository {
	return &activityRepository{kv: kv}
}

// SaveSnapshot writes snap as the latest snapshot and appends it to the
// bounded history in one transaction.
func (r *activityRepository) SaveSnapshot(ctx context.Context, snap domain.ActivitySnapshot, limit int) error {
	return r.kv.update(ctx, func(tx *sql.Tx) error {
		if err := r.kv.put(ctx, tx, keyActivityData, snap); err != nil {
			return err
		}

		var history []domain.ActivitySnapshot
		if _, err := r.kv.get(ctx, tx, keyActivityHistory, &history); err != nil {
			return err
		}
		history = domain.AppendHistory(history, snap, limit)
		return r.kv.put(ctx, tx, keyActivityHistory, history)
	})
}

// Latest returns the most recent snapshot, or nil.
func (r *activityRepository) Latest(ctx context.Context) (*domain.ActivitySnapshot, error) {
	var snap domain.ActivitySnapshot
	found, err := r.kv.get(ctx, r.kv.db, keyActivityData, &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

// History returns stored snapshots, oldest first.
func (r *activityRepository) History(ctx context.Context) ([]domain.ActivitySnapshot, error) {
	var history []domain.ActivitySnapshot
	if _, err := r.kv.get(ctx, r.kv.db, keyActivityHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}
