package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/engagehq/engagehub-backend/internal/config"
	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/progression"
	"github.com/engagehq/engagehub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ScoringServiceImpl implements the interface
var _ ScoringService = (*ScoringServiceImpl)(nil)

// activitySources are the sources that represent the user doing something
// themselves. Only these earn multipliers and advance the streak;
// system-generated awards (badges, achievements, streak bonuses) are flat.
var activitySources = map[models.PointSource]bool{
	models.SourceReading:         true,
	models.SourceAcknowledgement: true,
	models.SourceQuiz:            true,
	models.SourceRecognition:     true,
}

var validSources = map[models.PointSource]bool{
	models.SourceReading:         true,
	models.SourceAcknowledgement: true,
	models.SourceQuiz:            true,
	models.SourceRecognition:     true,
	models.SourceOnboardingBadge: true,
	models.SourceAchievement:     true,
	models.SourceStreakBonus:     true,
	models.SourceBonus:           true,
	models.SourceRedemption:      true,
}

// ScoringServiceImpl implements ScoringService
type ScoringServiceImpl struct {
	profileRepo  repositories.UserProfileRepository
	ledgerRepo   repositories.PointLedgerRepository
	tables       *progression.Tables
	streakBonus  config.StreakBonusConfig
	notifier     NotificationSink
	unlockEval   UnlockEvaluator
	now          func() time.Time
}

// NewScoringService creates a new ScoringServiceImpl
func NewScoringService(
	profileRepo repositories.UserProfileRepository,
	ledgerRepo repositories.PointLedgerRepository,
	tables *progression.Tables,
	streakBonus config.StreakBonusConfig,
	notifier NotificationSink,
) *ScoringServiceImpl {
	return &ScoringServiceImpl{
		profileRepo: profileRepo,
		ledgerRepo:  ledgerRepo,
		tables:      tables,
		streakBonus: streakBonus,
		notifier:    notifier,
		now:         time.Now,
	}
}

// SetUnlockEvaluator injects the achievement unlock check
func (s *ScoringServiceImpl) SetUnlockEvaluator(evaluator UnlockEvaluator) {
	s.unlockEval = evaluator
}

// AwardPoints applies one scoring event end-to-end: resolve multipliers,
// advance the streak, roll the monthly counter, detect level-ups, write the
// whole effect as one atomic profile delta, append the ledger entries, run
// the unlock check, and return the freshly reloaded profile. The ledger
// append is best-effort: a failed append is logged but does not fail the
// award, so TotalPoints may briefly lead the ledger sum.
func (s *ScoringServiceImpl) AwardPoints(ctx context.Context, req *models.ScoreRequest) (*models.UserProfile, error) {
	if req.UserID == "" {
		return nil, errors.New("userId is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if !validSources[req.Source] {
		return nil, fmt.Errorf("unknown point source %q", req.Source)
	}

	profile, created, err := s.loadOrCreateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	isActivity := activitySources[req.Source]

	// Multipliers apply to activity awards only; system-generated awards are
	// flat. Streak multiplier uses the streak length this event produces.
	multiplier := 1.0
	streakDays := profile.CurrentStreakDays
	streakAdvanced := false
	bonusClass := progression.BonusNone
	if isActivity {
		next, class := progression.NextStreak(profile.LastActivityDate, now, profile.CurrentStreakDays)
		streakAdvanced = next != profile.CurrentStreakDays || profile.LastActivityDate.IsZero()
		streakDays = next
		bonusClass = class

		tier := s.tables.TierOf(profile.LifetimePoints)
		multiplier = tier.Multiplier * s.tables.StreakMultiplierOf(streakDays)
	}
	effective := int(math.Round(float64(req.Amount) * multiplier))
	bonusPoints := s.bonusFor(bonusClass)

	delta := s.buildAwardDelta(profile, req, effective, bonusPoints, streakDays, streakAdvanced, now)

	newLifetime := profile.LifetimePoints + effective + bonusPoints
	newLevel, newLevelName := s.tables.LevelOf(newLifetime)
	leveledUp := newLevel > profile.CurrentLevel
	if leveledUp {
		delta.Level = &newLevel
		delta.LevelName = newLevelName
	}

	if created {
		if err := s.profileRepo.Create(ctx, profile); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}
	if err := s.profileRepo.ApplyScoreDelta(ctx, req.UserID, delta); err != nil {
		slog.Error("Failed to apply score delta", "error", err, "userId", req.UserID, "source", req.Source)
		return nil, fmt.Errorf("failed to apply score delta: %w", err)
	}

	runningTotal := profile.TotalPoints + effective
	entry := &models.PointLedgerEntry{
		UserID:            req.UserID,
		UserEmail:         req.UserEmail,
		Points:            effective,
		Source:            req.Source,
		SourceDescription: req.Description,
		Phase:             req.Phase,
		Timestamp:         now,
		RelatedItemID:     req.RelatedItemID,
		RelatedItemType:   req.RelatedItemType,
		MultiplierApplied: multiplier,
		RunningTotal:      runningTotal,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		slog.Error("Failed to append ledger entry", "error", err, "userId", req.UserID, "source", req.Source)
	}
	if bonusPoints > 0 {
		bonusEntry := &models.PointLedgerEntry{
			UserID:            req.UserID,
			UserEmail:         req.UserEmail,
			Points:            bonusPoints,
			Source:            models.SourceStreakBonus,
			SourceDescription: fmt.Sprintf("%d day streak bonus", streakDays),
			Phase:             req.Phase,
			Timestamp:         now,
			MultiplierApplied: 1.0,
			RunningTotal:      runningTotal + bonusPoints,
		}
		if err := s.ledgerRepo.Append(ctx, bonusEntry); err != nil {
			slog.Error("Failed to append streak bonus entry", "error", err, "userId", req.UserID)
		}
	}

	slog.Info("Points awarded", "userId", req.UserID, "source", req.Source,
		"amount", req.Amount, "effective", effective, "multiplier", multiplier,
		"streakDays", streakDays, "streakBonus", bonusPoints)

	if leveledUp && s.notifier != nil && req.UserEmail != "" {
		subject := fmt.Sprintf("You reached level %d: %s", newLevel, newLevelName)
		body := fmt.Sprintf("Congratulations! Your points total of %d unlocked level %d (%s).", newLifetime, newLevel, newLevelName)
		if err := s.notifier.Notify(ctx, req.UserEmail, subject, body); err != nil {
			slog.Error("Failed to queue level-up notification", "error", err, "userId", req.UserID)
		}
	}

	// Any award can push counters over an achievement threshold, so badge
	// bonuses and top-ups evaluate too. Only the achievement chain's own
	// sources skip, which keeps unlock recursion bounded at one level.
	skipUnlock := req.Source == models.SourceAchievement || req.Source == models.SourceStreakBonus
	if !skipUnlock && s.unlockEval != nil {
		if _, err := s.unlockEval.EvaluateUnlocks(ctx, req.UserID); err != nil {
			slog.Error("Achievement evaluation failed after award", "error", err, "userId", req.UserID)
		}
	}

	updated, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return updated, nil
}

// RedeemPoints spends points from the available balance. No multipliers, no
// streak effects; lifetime points and level are untouched. Returns the
// reloaded profile with the reduced balance.
func (s *ScoringServiceImpl) RedeemPoints(ctx context.Context, req *models.ScoreRequest) (*models.UserProfile, error) {
	if req.UserID == "" {
		return nil, errors.New("userId is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile.AvailablePoints < req.Amount {
		return nil, ErrInsufficientPoints
	}

	now := s.now()
	delta := &models.ProfileDelta{
		TotalPoints:     -req.Amount,
		AvailablePoints: -req.Amount,
	}
	if err := s.profileRepo.ApplyScoreDelta(ctx, req.UserID, delta); err != nil {
		return nil, fmt.Errorf("failed to apply redemption: %w", err)
	}

	entry := &models.PointLedgerEntry{
		UserID:            req.UserID,
		UserEmail:         profile.UserEmail,
		Points:            -req.Amount,
		Source:            models.SourceRedemption,
		SourceDescription: req.Description,
		Timestamp:         now,
		RelatedItemID:     req.RelatedItemID,
		RelatedItemType:   req.RelatedItemType,
		MultiplierApplied: 1.0,
		RunningTotal:      profile.TotalPoints - req.Amount,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		slog.Error("Failed to append redemption entry", "error", err, "userId", req.UserID)
	}

	slog.Info("Points redeemed", "userId", req.UserID, "amount", req.Amount,
		"remaining", profile.AvailablePoints-req.Amount)

	updated, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return updated, nil
}

// loadOrCreateProfile returns the user's profile, building a fresh zero-value
// profile from the request's identity fields when none exists yet. The fresh
// profile is not persisted here; created=true tells the caller to insert it
// before applying the delta.
func (s *ScoringServiceImpl) loadOrCreateProfile(ctx context.Context, req *models.ScoreRequest) (*models.UserProfile, bool, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, req.UserID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	level, levelName := s.tables.LevelOf(0)
	return &models.UserProfile{
		UserID:           req.UserID,
		UserEmail:        req.UserEmail,
		DisplayName:      req.DisplayName,
		Department:       req.Department,
		CurrentLevel:     level,
		CurrentLevelName: levelName,
	}, true, nil
}

// buildAwardDelta folds every effect of one award into a single ProfileDelta.
func (s *ScoringServiceImpl) buildAwardDelta(profile *models.UserProfile, req *models.ScoreRequest, effective, bonusPoints, streakDays int, streakAdvanced bool, now time.Time) *models.ProfileDelta {
	total := effective + bonusPoints
	delta := &models.ProfileDelta{
		TotalPoints:     total,
		AvailablePoints: total,
		LifetimePoints:  total,
		BonusPoints:     bonusPoints,
	}

	switch req.Source {
	case models.SourceReading:
		delta.ReadingPoints = effective
		delta.PoliciesRead = 1
	case models.SourceQuiz:
		delta.QuizPoints = effective
		delta.QuizzesCompleted = 1
		if req.QuizPassed {
			delta.QuizzesPassed = 1
		}
	case models.SourceAcknowledgement:
		delta.AckPoints = effective
	case models.SourceOnboardingBadge:
		delta.BonusPoints += effective
		delta.BadgeCount = 1
	default:
		delta.BonusPoints += effective
	}

	// Monthly counter: reset instead of increment when the month rolled over.
	anchor := now.Format("2006-01")
	if profile.MonthAnchor != anchor {
		reset := total
		delta.ResetMonthTo = &reset
		delta.MonthAnchor = anchor
	} else {
		delta.PointsThisMonth = total
	}

	if streakAdvanced || activitySources[req.Source] {
		days := streakDays
		delta.StreakDays = &days
		longest := streakDays
		delta.LongestStreakDays = &longest
		activity := now
		delta.LastActivityDate = &activity
	}

	return delta
}

// bonusFor maps a streak bonus class to its configured point amount.
func (s *ScoringServiceImpl) bonusFor(class progression.StreakBonus) int {
	switch class {
	case progression.BonusDaily:
		return s.streakBonus.Daily
	case progression.BonusWeekly:
		return s.streakBonus.Weekly
	case progression.BonusMonthly:
		return s.streakBonus.Monthly
	default:
		return 0
	}
}
