package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"refnet/internal/models"

	"github.com/shopspring/decimal"
)

type commissionRepository struct{ s *Store }

func (r *commissionRepository) UpsertConfig(ctx context.Context, cfg *models.CommissionConfig) error {
	return r.s.run(ctx, func(st *state) error {
		now := time.Now()
		if existing, ok := st.configs[cfg.Level]; ok {
			cfg.CreatedAt = existing.CreatedAt
		} else {
			cfg.CreatedAt = now
		}
		cfg.UpdatedAt = now
		st.configs[cfg.Level] = *cfg
		return nil
	})
}

func (r *commissionRepository) DeleteConfig(ctx context.Context, level int) (bool, error) {
	deleted := false
	err := r.s.run(ctx, func(st *state) error {
		if _, ok := st.configs[level]; ok {
			delete(st.configs, level)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (r *commissionRepository) ListConfigs(ctx context.Context) ([]models.CommissionConfig, error) {
	var out []models.CommissionConfig
	err := r.s.run(ctx, func(st *state) error {
		for _, c := range st.configs {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
		return nil
	})
	return out, err
}

func (r *commissionRepository) InsertRecordIfAbsent(ctx context.Context, record *models.CommissionRecord) (bool, error) {
	inserted := false
	err := r.s.run(ctx, func(st *state) error {
		for _, rec := range st.records {
			if rec.OrderID == record.OrderID && rec.UplineID == record.UplineID &&
				rec.DownlineID == record.DownlineID && rec.Level == record.Level {
				return nil
			}
		}
		st.recordSeq++
		now := time.Now()
		record.ID = st.recordSeq
		record.CreatedAt, record.UpdatedAt = now, now
		st.records = append(st.records, *record)
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *commissionRepository) MarkApproved(ctx context.Context, id uint, at time.Time) error {
	return r.s.run(ctx, func(st *state) error {
		for i := range st.records {
			if st.records[i].ID == id {
				st.records[i].Status = models.CommissionApproved
				st.records[i].ApprovedAt = &at
				st.records[i].UpdatedAt = at
				return nil
			}
		}
		return fmt.Errorf("commission record %d not found", id)
	})
}

func (r *commissionRepository) ListRecordsByOrder(ctx context.Context, orderID string) ([]models.CommissionRecord, error) {
	var out []models.CommissionRecord
	err := r.s.run(ctx, func(st *state) error {
		for _, rec := range st.records {
			if rec.OrderID == orderID {
				out = append(out, rec)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Level != out[j].Level {
				return out[i].Level < out[j].Level
			}
			return out[i].UplineID < out[j].UplineID
		})
		return nil
	})
	return out, err
}

func (r *commissionRepository) ApprovedEarningsByDownline(ctx context.Context, uplineID uint) (map[uint]decimal.Decimal, error) {
	earnings := make(map[uint]decimal.Decimal)
	err := r.s.run(ctx, func(st *state) error {
		for _, rec := range st.records {
			if rec.UplineID != uplineID || rec.Status != models.CommissionApproved {
				continue
			}
			earnings[rec.DownlineID] = earnings[rec.DownlineID].Add(rec.Amount)
		}
		return nil
	})
	return earnings, err
}
