package storage

import (
	"context"
	"database/sql"
	"sort"

	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// timerRepository implements ports.TimerRepository on the "timerData" map.
type timerRepository struct {
	kv *kvStore
}

func newTimerRepository(kv *kvStore) ports.TimerRepository {
	return &timerRepository{kv: kv}
}

// SaveSession replaces the record stored under the record's key.
func (r *timerRepository) SaveSession(ctx context.Context, record domain.TimerRecord) error {
	return r.kv.update(ctx, func(tx *sql.Tx) error {
		data := map[string]domain.TimerRecord{}
		if _, err := r.kv.get(ctx, tx, keyTimerData, &data); err != nil {
			return err
		}
		if data == nil {
			data = map[string]domain.TimerRecord{}
		}
		data[record.Key()] = record
		return r.kv.put(ctx, tx, keyTimerData, data)
	})
}

// FindSession returns the record for a project/task pair, or nil.
func (r *timerRepository) FindSession(ctx context.Context, projectID, taskID int64) (*domain.TimerRecord, error) {
	data := map[string]domain.TimerRecord{}
	if _, err := r.kv.get(ctx, r.kv.db, keyTimerData, &data); err != nil {
		return nil, err
	}
	rec, ok := data[domain.TimerKey(projectID, taskID)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListSessions returns every record, most recently updated first.
func (r *timerRepository) ListSessions(ctx context.Context) ([]domain.TimerRecord, error) {
	data := map[string]domain.TimerRecord{}
	if _, err := r.kv.get(ctx, r.kv.db, keyTimerData, &data); err != nil {
		return nil, err
	}

	records := make([]domain.TimerRecord, 0, len(data))
	for _, rec := range data {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].LastUpdated.Equal(records[j].LastUpdated) {
			return records[i].LastUpdated.After(records[j].LastUpdated)
		}
		return records[i].Key() < records[j].Key()
	})
	return records, nil
}
