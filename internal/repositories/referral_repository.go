package repositories

import (
	"context"

	"refnet/internal/models"
)

type ReferralRepository interface {
	// InsertIfAbsent reports whether a new edge was written. An edge that already exists
	// is left untouched and reported as not inserted.
	InsertIfAbsent(ctx context.Context, edge *models.ReferralEdge) (bool, error)
	// Ancestors returns the edges pointing at downlineID up to maxLevel, nearest first.
	Ancestors(ctx context.Context, downlineID uint, maxLevel int) ([]models.ReferralEdge, error)
	// Descendants returns every edge below uplineID ordered by level then downline.
	Descendants(ctx context.Context, uplineID uint) ([]models.ReferralEdge, error)
}
