package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/progression"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LeaderboardServiceImpl implements the interface
var _ LeaderboardService = (*LeaderboardServiceImpl)(nil)

const defaultLeaderboardLimit = 50

// LeaderboardServiceImpl implements LeaderboardService
type LeaderboardServiceImpl struct {
	snapshotRepo repositories.LeaderboardSnapshotRepository
	tables       *progression.Tables
}

// NewLeaderboardService creates a new LeaderboardServiceImpl
func NewLeaderboardService(snapshotRepo repositories.LeaderboardSnapshotRepository, tables *progression.Tables) *LeaderboardServiceImpl {
	return &LeaderboardServiceImpl{
		snapshotRepo: snapshotRepo,
		tables:       tables,
	}
}

// GetMerged merges the onboarding and enterprise leaderboards into a single
// ranked view. Users present in both have their points summed and show as
// ACTIVE. Levels and tiers are recomputed from merged totals. Single-source
// users carry their source's trend; merged users report SAME, since neither
// source's trend describes the combined ranking. Filtering happens
// after re-ranking so filtered views keep their global ranks. Deterministic:
// equal totals keep source order (onboarding before enterprise).
func (s *LeaderboardServiceImpl) GetMerged(ctx context.Context, opts LeaderboardOptions) ([]*models.LeaderboardEntry, error) {
	onboarding, enterprise, err := s.fetchBoth(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*models.LeaderboardEntry, len(onboarding)+len(enterprise))
	merged := make([]*models.LeaderboardEntry, 0, len(onboarding)+len(enterprise))

	for _, src := range onboarding {
		entry := &models.LeaderboardEntry{
			UserID:       src.UserID,
			DisplayName:  src.DisplayName,
			Department:   src.Department,
			Phase:        models.PhaseOnboarding,
			TotalPoints:  src.Points,
			PhasePoints:  src.Points,
			BadgeCount:   src.BadgeCount,
			StreakDays:   src.StreakDays,
			Trend:        src.Trend,
			PreviousRank: src.PreviousRank,
		}
		byUser[src.UserID] = entry
		merged = append(merged, entry)
	}

	for _, src := range enterprise {
		if existing, ok := byUser[src.UserID]; ok {
			// Present in both systems: sum the points, treat as ACTIVE, and
			// let the enterprise side win the display fields it owns.
			existing.TotalPoints += src.Points
			existing.PhasePoints = src.Points
			existing.Phase = models.PhaseActive
			existing.BadgeCount = src.BadgeCount
			existing.StreakDays = src.StreakDays
			// Neither source's trend is meaningful against the merged ranking;
			// the previous rank is kept as the input for a later recomputation.
			existing.Trend = models.TrendSame
			existing.PreviousRank = src.PreviousRank
			if src.DisplayName != "" {
				existing.DisplayName = src.DisplayName
			}
			if src.Department != "" {
				existing.Department = src.Department
			}
			continue
		}
		entry := &models.LeaderboardEntry{
			UserID:       src.UserID,
			DisplayName:  src.DisplayName,
			Department:   src.Department,
			Phase:        models.PhaseActive,
			TotalPoints:  src.Points,
			PhasePoints:  src.Points,
			BadgeCount:   src.BadgeCount,
			StreakDays:   src.StreakDays,
			Trend:        src.Trend,
			PreviousRank: src.PreviousRank,
		}
		byUser[src.UserID] = entry
		merged = append(merged, entry)
	}

	for _, entry := range merged {
		level, _ := s.tables.LevelOf(entry.TotalPoints)
		entry.Level = level
		entry.Tier = s.tables.TierOf(entry.TotalPoints).Tier
		if entry.Trend == "" {
			entry.Trend = models.TrendSame
		}
		if opts.CurrentUserID != "" && entry.UserID == opts.CurrentUserID {
			entry.IsCurrentUser = true
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TotalPoints > merged[j].TotalPoints
	})
	for i, entry := range merged {
		entry.Rank = i + 1
	}

	merged = s.applyFilter(merged, opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// fetchBoth loads the two source leaderboards concurrently.
func (s *LeaderboardServiceImpl) fetchBoth(ctx context.Context) ([]*models.LeaderboardSnapshotEntry, []*models.LeaderboardSnapshotEntry, error) {
	var (
		wg            sync.WaitGroup
		onboarding    []*models.LeaderboardSnapshotEntry
		enterprise    []*models.LeaderboardSnapshotEntry
		onbErr, entErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		onboarding, onbErr = s.snapshotRepo.FindOnboarding(ctx)
	}()
	go func() {
		defer wg.Done()
		enterprise, entErr = s.snapshotRepo.FindEnterprise(ctx)
	}()
	wg.Wait()

	if onbErr != nil {
		return nil, nil, fmt.Errorf("failed to load onboarding leaderboard: %w", onbErr)
	}
	if entErr != nil {
		return nil, nil, fmt.Errorf("failed to load enterprise leaderboard: %w", entErr)
	}
	return onboarding, enterprise, nil
}

// applyFilter narrows a ranked board without re-ranking it.
func (s *LeaderboardServiceImpl) applyFilter(merged []*models.LeaderboardEntry, opts LeaderboardOptions) []*models.LeaderboardEntry {
	switch opts.Filter {
	case models.FilterOnboarding:
		filtered := make([]*models.LeaderboardEntry, 0, len(merged))
		for _, entry := range merged {
			if entry.Phase == models.PhaseOnboarding {
				filtered = append(filtered, entry)
			}
		}
		return filtered

	case models.FilterDepartment:
		department := opts.Department
		if department == "" {
			// Derive the department from the requesting user's own entry.
			for _, entry := range merged {
				if entry.IsCurrentUser {
					department = entry.Department
					break
				}
			}
		}
		if department == "" {
			slog.Warn("Department filter requested without a resolvable department",
				"currentUserId", opts.CurrentUserID)
			return []*models.LeaderboardEntry{}
		}
		filtered := make([]*models.LeaderboardEntry, 0, len(merged))
		for _, entry := range merged {
			if entry.Department == department {
				filtered = append(filtered, entry)
			}
		}
		return filtered

	default:
		return merged
	}
}
