package memory

import (
	"context"
	"sort"
	"time"

	"refnet/internal/models"
)

type referralRepository struct{ s *Store }

// InsertIfAbsent mirrors both unique indexes of the table: (upline, downline, level) and
// (downline, level).
func (r *referralRepository) InsertIfAbsent(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	inserted := false
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.edges {
			if e.DownlineID == edge.DownlineID && e.Level == edge.Level {
				return nil
			}
		}
		st.edgeSeq++
		edge.ID = st.edgeSeq
		edge.CreatedAt = time.Now()
		st.edges = append(st.edges, *edge)
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *referralRepository) Ancestors(ctx context.Context, downlineID uint, maxLevel int) ([]models.ReferralEdge, error) {
	var out []models.ReferralEdge
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.edges {
			if e.DownlineID == downlineID && e.Level <= maxLevel {
				out = append(out, e)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
		return nil
	})
	return out, err
}

func (r *referralRepository) Descendants(ctx context.Context, uplineID uint) ([]models.ReferralEdge, error) {
	var out []models.ReferralEdge
	err := r.s.run(ctx, func(st *state) error {
		for _, e := range st.edges {
			if e.UplineID == uplineID {
				out = append(out, e)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Level != out[j].Level {
				return out[i].Level < out[j].Level
			}
			return out[i].DownlineID < out[j].DownlineID
		})
		return nil
	})
	return out, err
}
