package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AchievementServiceImpl implements the interface
var _ AchievementService = (*AchievementServiceImpl)(nil)

// AchievementServiceImpl implements AchievementService
type AchievementServiceImpl struct {
	achievementRepo repositories.AchievementRepository
	earnedRepo      repositories.UserAchievementRepository
	profileRepo     repositories.UserProfileRepository
	scoring         ScoringService
	mappings        []models.AchievementMapping
	notifier        NotificationSink
}

// NewAchievementService creates a new AchievementServiceImpl
func NewAchievementService(
	achievementRepo repositories.AchievementRepository,
	earnedRepo repositories.UserAchievementRepository,
	profileRepo repositories.UserProfileRepository,
	scoring ScoringService,
	mappings []models.AchievementMapping,
	notifier NotificationSink,
) *AchievementServiceImpl {
	return &AchievementServiceImpl{
		achievementRepo: achievementRepo,
		earnedRepo:      earnedRepo,
		profileRepo:     profileRepo,
		scoring:         scoring,
		mappings:        mappings,
		notifier:        notifier,
	}
}

// EvaluateUnlocks checks every active achievement the user has not earned yet
// against their profile counters and unlocks the ones whose requirement is
// met. Safe to call repeatedly: the unique (userId, achievementCode) index
// makes a concurrent double-unlock a no-op.
func (s *AchievementServiceImpl) EvaluateUnlocks(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	active, err := s.achievementRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	earned, err := s.earnedRepo.CodesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}

	var unlocked []*models.UserAchievement
	for _, a := range active {
		if earned[a.Code] || !requirementMet(a, profile) {
			continue
		}
		ua, err := s.unlock(ctx, profile, a, "")
		if err != nil {
			slog.Error("Failed to unlock achievement", "error", err, "userId", userID, "code", a.Code)
			continue
		}
		if ua != nil {
			unlocked = append(unlocked, ua)
		}
	}
	return unlocked, nil
}

// requirementMet reports whether a profile satisfies an achievement's
// requirement. COMPLETION achievements are only ever granted through badge
// sync, never from profile counters.
func requirementMet(a *models.Achievement, profile *models.UserProfile) bool {
	switch a.RequirementType {
	case models.RequirementReading:
		return profile.PoliciesRead >= a.RequirementValue
	case models.RequirementQuiz:
		return profile.QuizzesPassed >= a.RequirementValue
	case models.RequirementStreak:
		return profile.CurrentStreakDays >= a.RequirementValue
	case models.RequirementMilestone:
		return profile.LifetimePoints >= a.RequirementValue
	default:
		return false
	}
}

// unlock records one earned achievement and awards its points. A duplicate
// insert means another caller got there first; that is success, not an error,
// but nothing further is awarded.
func (s *AchievementServiceImpl) unlock(ctx context.Context, profile *models.UserProfile, a *models.Achievement, sourceBadge string) (*models.UserAchievement, error) {
	ua := &models.UserAchievement{
		UserID:          profile.UserID,
		AchievementCode: a.Code,
		AchievementName: a.Name,
		SourceBadge:     sourceBadge,
	}
	if err := s.earnedRepo.Create(ctx, ua); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil
		}
		return nil, err
	}

	if a.Points > 0 {
		_, err := s.scoring.AwardPoints(ctx, &models.ScoreRequest{
			UserID:          profile.UserID,
			UserEmail:       profile.UserEmail,
			Amount:          a.Points,
			Source:          models.SourceAchievement,
			Description:     fmt.Sprintf("Achievement unlocked: %s", a.Name),
			RelatedItemID:   a.Code,
			RelatedItemType: "achievement",
		})
		if err != nil {
			slog.Error("Failed to award achievement points", "error", err, "userId", profile.UserID, "code", a.Code)
		}
	}

	if s.notifier != nil && profile.UserEmail != "" {
		subject := fmt.Sprintf("Achievement unlocked: %s", a.Name)
		body := fmt.Sprintf("You earned the %q achievement and %d bonus points.", a.Name, a.Points)
		if err := s.notifier.Notify(ctx, profile.UserEmail, subject, body); err != nil {
			slog.Error("Failed to queue achievement notification", "error", err, "userId", profile.UserID)
		}
	}

	slog.Info("Achievement unlocked", "userId", profile.UserID, "code", a.Code, "sourceBadge", sourceBadge)
	return ua, nil
}

// SyncExternalBadges reconciles a batch of onboarding badge IDs into internal
// achievements. Each badge maps through the configured mapping table; unknown
// badges are reported back rather than failing the batch. Idempotent via the
// unique earned-achievement index.
func (s *AchievementServiceImpl) SyncExternalBadges(ctx context.Context, userID string, badgeIDs []string) (*models.BadgeSyncResult, error) {
	// A sync can be the user's very first event; the first bonus award will
	// create the profile lazily.
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		profile = &models.UserProfile{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	result := &models.BadgeSyncResult{
		Synced:        []string{},
		AlreadySynced: []string{},
		Unknown:       []string{},
	}

	for _, badgeID := range badgeIDs {
		mapping := s.mappingFor(badgeID)
		if mapping == nil {
			slog.Warn("Unknown onboarding badge in sync request", "userId", userID, "badgeId", badgeID)
			result.Unknown = append(result.Unknown, badgeID)
			continue
		}

		ua := &models.UserAchievement{
			UserID:          userID,
			AchievementCode: mapping.InternalAchievementCode,
			AchievementName: mapping.InternalAchievementName,
			SourceBadge:     badgeID,
		}
		if err := s.earnedRepo.Create(ctx, ua); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				result.AlreadySynced = append(result.AlreadySynced, badgeID)
				continue
			}
			return nil, fmt.Errorf("failed to record achievement for badge %s: %w", badgeID, err)
		}
		result.Synced = append(result.Synced, badgeID)

		if mapping.BonusPointsOnSync > 0 {
			_, err := s.scoring.AwardPoints(ctx, &models.ScoreRequest{
				UserID:          userID,
				UserEmail:       profile.UserEmail,
				Amount:          mapping.BonusPointsOnSync,
				Source:          models.SourceOnboardingBadge,
				Description:     fmt.Sprintf("Onboarding badge: %s", mapping.ExternalBadgeName),
				RelatedItemID:   badgeID,
				RelatedItemType: "badge",
			})
			if err != nil {
				slog.Error("Failed to award badge sync points", "error", err, "userId", userID, "badgeId", badgeID)
				continue
			}
			result.PointsAwarded += mapping.BonusPointsOnSync
		}

		if mapping.TierUpgradeFloor > 0 {
			topUp, err := s.applyTierFloor(ctx, profile, mapping)
			if err != nil {
				slog.Error("Failed to apply tier upgrade floor", "error", err, "userId", userID, "badgeId", badgeID)
				continue
			}
			result.PointsAwarded += topUp
		}
	}

	slog.Info("Badge sync completed", "userId", userID,
		"synced", len(result.Synced), "alreadySynced", len(result.AlreadySynced),
		"unknown", len(result.Unknown), "pointsAwarded", result.PointsAwarded)
	return result, nil
}

// applyTierFloor tops the user up to the mapping's tier floor when their
// lifetime points are below it. Awards the shortfall as a flat bonus so the
// ledger stays the source of truth for the jump.
func (s *AchievementServiceImpl) applyTierFloor(ctx context.Context, profile *models.UserProfile, mapping *models.AchievementMapping) (int, error) {
	lifetime := 0
	current, err := s.profileRepo.FindByUserID(ctx, profile.UserID)
	if err == nil {
		lifetime = current.LifetimePoints
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return 0, err
	}
	shortfall := mapping.TierUpgradeFloor - lifetime
	if shortfall <= 0 {
		return 0, nil
	}
	_, err = s.scoring.AwardPoints(ctx, &models.ScoreRequest{
		UserID:          profile.UserID,
		UserEmail:       profile.UserEmail,
		Amount:          shortfall,
		Source:          models.SourceBonus,
		Description:     fmt.Sprintf("Tier floor adjustment for %s", mapping.ExternalBadgeName),
		RelatedItemID:   mapping.ExternalBadgeID,
		RelatedItemType: "badge",
	})
	if err != nil {
		return 0, err
	}
	return shortfall, nil
}

func (s *AchievementServiceImpl) mappingFor(badgeID string) *models.AchievementMapping {
	for i := range s.mappings {
		if s.mappings[i].ExternalBadgeID == badgeID {
			return &s.mappings[i]
		}
	}
	return nil
}

// GetUserAchievements returns a user's earned achievements, newest first
func (s *AchievementServiceImpl) GetUserAchievements(ctx context.Context, userID string) ([]*models.UserAchievement, error) {
	return s.earnedRepo.FindByUserID(ctx, userID)
}
