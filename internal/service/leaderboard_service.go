package service

import (
	"context"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/ecotrack/gamification/internal/repository"
)

// LeaderboardCache stores rendered leaderboard pages keyed by a generation
// that Invalidate advances. Implementations are best-effort and never fail
// the read path; Generation reports ok=false when the cache is unusable.
type LeaderboardCache interface {
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool)
	Set(ctx context.Context, gen int64, limit int, entries []model.LeaderboardEntry)
	Invalidate(ctx context.Context)
}

// LeaderboardService ranks actors by points descending; equal points rank the
// lower actor id first.
type LeaderboardService struct {
	ranks      repository.LeaderboardRepository
	badges     repository.BadgeRepository
	thresholds *BadgeThresholds
	cache      LeaderboardCache
	maxLimit   int
}

// NewLeaderboardService accepts a nil cache.
func NewLeaderboardService(ranks repository.LeaderboardRepository, badges repository.BadgeRepository, thresholds *BadgeThresholds, cache LeaderboardCache, maxLimit int) *LeaderboardService {
	return &LeaderboardService{ranks: ranks, badges: badges, thresholds: thresholds, cache: cache, maxLimit: maxLimit}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, invalid("limit", "must be a positive integer")
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	// the generation is read before the query so a page computed before a
	// concurrent point change is stored under a stale generation
	var gen int64
	cached := false
	if s.cache != nil {
		gen, cached = s.cache.Generation(ctx)
	}
	if cached {
		if entries, ok := s.cache.Get(ctx, gen, limit); ok {
			return entries, nil
		}
	}
	rows, err := s.ranks.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries, err := s.attach(ctx, rows)
	if err != nil {
		return nil, err
	}
	if cached {
		s.cache.Set(ctx, gen, limit, entries)
	}
	return entries, nil
}

// GetActorRank returns nil when the actor does not exist.
func (s *LeaderboardService) GetActorRank(ctx context.Context, actorID string) (*model.LeaderboardEntry, error) {
	if actorID == "" {
		return nil, invalid("actorId", "is required")
	}
	row, err := s.ranks.RankOf(ctx, actorID)
	if err != nil || row == nil {
		return nil, err
	}
	entries, err := s.attach(ctx, []repository.RankedUser{*row})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *LeaderboardService) attach(ctx context.Context, rows []repository.RankedUser) ([]model.LeaderboardEntry, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	awards, err := s.badges.ListAwardsByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := toAwardedBadges(awards, s.thresholds)

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		badges := byUser[r.ID]
		if badges == nil {
			badges = []model.AwardedBadge{}
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:        r.Rank,
			ActorID:     r.ID,
			DisplayName: r.DisplayName,
			Points:      r.Points,
			Level:       DeriveLevel(r.Points),
			Badges:      badges,
		})
	}
	return entries, nil
}
