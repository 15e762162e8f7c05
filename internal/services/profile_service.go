package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/progression"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ProfileServiceImpl implements the interface
var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileServiceImpl implements ProfileService
type ProfileServiceImpl struct {
	profileRepo    repositories.UserProfileRepository
	ledgerRepo     repositories.PointLedgerRepository
	onboardingRepo repositories.OnboardingProgressRepository
	tables         *progression.Tables
}

// NewProfileService creates a new ProfileServiceImpl
func NewProfileService(
	profileRepo repositories.UserProfileRepository,
	ledgerRepo repositories.PointLedgerRepository,
	onboardingRepo repositories.OnboardingProgressRepository,
	tables *progression.Tables,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profileRepo:    profileRepo,
		ledgerRepo:     ledgerRepo,
		onboardingRepo: onboardingRepo,
		tables:         tables,
	}
}

// GetUnifiedProfile combines the scoring profile, the onboarding progress
// snapshot and the derived tier/level/streak outputs into one read-model.
// Tier and level derive from lifetime points, so redemptions never demote.
func (s *ProfileServiceImpl) GetUnifiedProfile(ctx context.Context, userID string) (*models.UnifiedProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	onboarding, err := s.onboardingRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		// The onboarding snapshot is owned by another system; degrade to a
		// profile-only view rather than failing the read.
		slog.Warn("Failed to load onboarding progress", "error", err, "userId", userID)
	}
	if err != nil {
		onboarding = nil
	}

	tier := s.tables.TierOf(profile.LifetimePoints)
	return &models.UnifiedProfile{
		Profile:           profile,
		Onboarding:        onboarding,
		Tier:              tier.Tier,
		TierMultiplier:    tier.Multiplier,
		TierDiscount:      tier.Discount,
		StreakMultiplier:  s.tables.StreakMultiplierOf(profile.CurrentStreakDays),
		PointsToNextLevel: s.tables.PointsToNextLevel(profile.LifetimePoints),
		PointsToNextTier:  s.tables.PointsToNextTier(profile.LifetimePoints),
	}, nil
}

// GetLedger returns one page of a user's ledger, newest first, plus the total
// entry count for pagination.
func (s *ProfileServiceImpl) GetLedger(ctx context.Context, userID string, page, limit int) ([]*models.PointLedgerEntry, int64, error) {
	entries, err := s.ledgerRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load ledger: %w", err)
	}
	total, err := s.ledgerRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger: %w", err)
	}
	return entries, total, nil
}
