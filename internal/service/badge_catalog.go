package service

import (
	"context"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
)

// DefaultBadgeCatalog is seeded on startup when missing.
var DefaultBadgeCatalog = []model.Badge{
	{Code: "first-tier", Name: "Eco Starter", Description: "Reached 100 points by reporting and recycling."},
	{Code: "second-tier", Name: "Green Guardian", Description: "Reached 500 points of civic engagement."},
	{Code: "third-tier", Name: "Recycling Hero", Description: "Reached 1000 points keeping the city clean."},
	{Code: "fourth-tier", Name: "Zero-Waste Legend", Description: "Reached 2500 points."},
}

type CatalogEntry struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Threshold is nil when no threshold is configured; such badges are never awarded.
	Threshold *int64 `json:"threshold"`
}

type BadgeCatalogService struct {
	badges     repository.BadgeRepository
	thresholds *BadgeThresholds
}

func NewBadgeCatalogService(badges repository.BadgeRepository, thresholds *BadgeThresholds) *BadgeCatalogService {
	return &BadgeCatalogService{badges: badges, thresholds: thresholds}
}

// SeedDefaults inserts the default catalog rows that are missing.
func (s *BadgeCatalogService) SeedDefaults(ctx context.Context) (int, error) {
	rows := make([]model.Badge, len(DefaultBadgeCatalog))
	copy(rows, DefaultBadgeCatalog)
	return s.badges.EnsureCatalog(ctx, rows)
}

func (s *BadgeCatalogService) List(ctx context.Context) ([]CatalogEntry, error) {
	list, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CatalogEntry, 0, len(list))
	for _, b := range list {
		e := CatalogEntry{ID: b.ID, Code: b.Code, Name: b.Name, Description: b.Description}
		if th, ok := s.thresholds.Lookup(b.Code); ok {
			th := th
			e.Threshold = &th
		}
		out = append(out, e)
	}
	return out, nil
}
