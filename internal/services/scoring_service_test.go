package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/engagehq/engagehub-backend/internal/config"
	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/progression"
)

var testClock = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

func testStreakBonuses() config.StreakBonusConfig {
	return config.StreakBonusConfig{Daily: 5, Weekly: 25, Monthly: 100}
}

func newTestScoring() (*ScoringServiceImpl, *fakeProfileRepo, *fakeLedgerRepo, *fakeNotifier) {
	profiles := newFakeProfileRepo()
	ledger := &fakeLedgerRepo{}
	notifier := &fakeNotifier{}
	svc := NewScoringService(profiles, ledger, progression.DefaultTables(), testStreakBonuses(), notifier)
	svc.now = func() time.Time { return testClock }
	return svc, profiles, ledger, notifier
}

func seedProfile(repo *fakeProfileRepo, p *models.UserProfile) {
	if p.CurrentLevel == 0 {
		p.CurrentLevel = 1
	}
	repo.profiles[p.UserID] = p
}

func TestAwardPointsCreatesProfileOnFirstEvent(t *testing.T) {
	svc, profiles, ledger, _ := newTestScoring()

	returned, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID:      "u1",
		UserEmail:   "u1@corp.example",
		DisplayName: "User One",
		Amount:      280,
		Source:      models.SourceReading,
	})
	if err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if returned == nil || returned.TotalPoints != 280 {
		t.Fatalf("returned profile = %+v, want 280 total points", returned)
	}

	p := profiles.profiles["u1"]
	if p == nil {
		t.Fatal("profile was not created")
	}
	if p.TotalPoints != 280 || p.LifetimePoints != 280 || p.AvailablePoints != 280 {
		t.Errorf("point totals = %d/%d/%d, want 280 across the board",
			p.TotalPoints, p.LifetimePoints, p.AvailablePoints)
	}
	if p.ReadingPoints != 280 || p.PoliciesRead != 1 {
		t.Errorf("reading counters = %d points / %d read, want 280/1", p.ReadingPoints, p.PoliciesRead)
	}
	if p.CurrentLevel != 2 || p.CurrentLevelName != "Apprentice" {
		t.Errorf("level = %d %q, want 2 Apprentice", p.CurrentLevel, p.CurrentLevelName)
	}
	if p.CurrentStreakDays != 1 || p.LongestStreakDays != 1 {
		t.Errorf("streak = %d/%d, want 1/1", p.CurrentStreakDays, p.LongestStreakDays)
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Points != 280 {
		t.Errorf("ledger entries = %+v, want one 280 point entry", ledger.entries)
	}
}

func TestAwardPointsReturnsUpdatedProfile(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:            "u1",
		LifetimePoints:    90,
		TotalPoints:       90,
		CurrentStreakDays: 1,
		LongestStreakDays: 1,
		LastActivityDate:  testClock.AddDate(0, 0, -1),
		MonthAnchor:       "2026-08",
	})

	returned, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 20,
		Source: models.SourceReading,
	})
	if err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}

	// The caller sees the post-award state, not the stale pre-award load.
	if returned.LifetimePoints != 115 {
		t.Errorf("returned lifetime = %d, want 90 + 20 + 5 daily bonus = 115", returned.LifetimePoints)
	}
	if returned.CurrentLevel != 2 || returned.CurrentLevelName != "Apprentice" {
		t.Errorf("returned level = %d %q, want the freshly crossed 2 Apprentice", returned.CurrentLevel, returned.CurrentLevelName)
	}
	if returned.CurrentStreakDays != 2 {
		t.Errorf("returned streak = %d, want 2", returned.CurrentStreakDays)
	}
}

func TestAwardPointsLevelProgression(t *testing.T) {
	svc, profiles, _, notifier := newTestScoring()
	ctx := context.Background()

	for _, amount := range []int{280, 50} {
		if _, err := svc.AwardPoints(ctx, &models.ScoreRequest{
			UserID:    "u1",
			UserEmail: "u1@corp.example",
			Amount:    amount,
			Source:    models.SourceReading,
		}); err != nil {
			t.Fatalf("AwardPoints(%d): %v", amount, err)
		}
	}

	p := profiles.profiles["u1"]
	if p.LifetimePoints != 330 {
		t.Fatalf("lifetime points = %d, want 330", p.LifetimePoints)
	}
	if p.CurrentLevel != 3 || p.CurrentLevelName != "Explorer" {
		t.Errorf("level = %d %q, want 3 Explorer", p.CurrentLevel, p.CurrentLevelName)
	}
	// Crossed level 2 on the first award, level 3 on the second.
	if len(notifier.sent) != 2 {
		t.Errorf("level-up notifications = %d, want 2", len(notifier.sent))
	}
}

func TestAwardPointsAppliesStreakMultiplierAndBonus(t *testing.T) {
	svc, profiles, ledger, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:            "u1",
		UserEmail:         "u1@corp.example",
		CurrentStreakDays: 6,
		LongestStreakDays: 6,
		LastActivityDate:  testClock.AddDate(0, 0, -1),
		MonthAnchor:       "2026-08",
	})

	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID:     "u1",
		Amount:     100,
		Source:     models.SourceQuiz,
		QuizPassed: true,
	}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}

	// Day 7 of the streak: 1.1x multiplier on the award plus the weekly bonus.
	awards := ledger.bySource("u1", models.SourceQuiz)
	if len(awards) != 1 || awards[0].Points != 110 {
		t.Fatalf("quiz ledger entries = %+v, want one 110 point entry", awards)
	}
	if awards[0].MultiplierApplied != 1.1 {
		t.Errorf("multiplier = %v, want 1.1", awards[0].MultiplierApplied)
	}

	p := profiles.profiles["u1"]
	if p.CurrentStreakDays != 7 || p.LongestStreakDays != 7 {
		t.Errorf("streak = %d/%d, want 7/7", p.CurrentStreakDays, p.LongestStreakDays)
	}
	if p.LifetimePoints != 135 {
		t.Errorf("lifetime points = %d, want 110 + 25 bonus = 135", p.LifetimePoints)
	}
	if p.QuizzesCompleted != 1 || p.QuizzesPassed != 1 {
		t.Errorf("quiz counters = %d/%d, want 1/1", p.QuizzesCompleted, p.QuizzesPassed)
	}

	bonuses := ledger.bySource("u1", models.SourceStreakBonus)
	if len(bonuses) != 1 || bonuses[0].Points != 25 {
		t.Fatalf("streak bonus entries = %+v, want one 25 point entry", bonuses)
	}
}

func TestAwardPointsQuizFailedDoesNotCountAsPassed(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()

	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID:     "u1",
		Amount:     20,
		Source:     models.SourceQuiz,
		QuizPassed: false,
	}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}

	p := profiles.profiles["u1"]
	if p.QuizzesCompleted != 1 || p.QuizzesPassed != 0 {
		t.Errorf("quiz counters = %d/%d, want 1 completed / 0 passed", p.QuizzesCompleted, p.QuizzesPassed)
	}
}

func TestAwardPointsMonthlyRollover(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:          "u1",
		PointsThisMonth: 900,
		MonthAnchor:     "2026-07",
		LastActivityDate: testClock.AddDate(0, 0, -10),
	})

	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 40,
		Source: models.SourceAcknowledgement,
	}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}

	p := profiles.profiles["u1"]
	if p.PointsThisMonth != 40 {
		t.Errorf("pointsThisMonth = %d, want counter reset to 40", p.PointsThisMonth)
	}
	if p.MonthAnchor != "2026-08" {
		t.Errorf("monthAnchor = %q, want 2026-08", p.MonthAnchor)
	}

	// Same month: the counter increments instead of resetting.
	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 10,
		Source: models.SourceAcknowledgement,
	}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if p.PointsThisMonth != 50 {
		t.Errorf("pointsThisMonth = %d, want 50", p.PointsThisMonth)
	}
}

func TestAwardPointsSingleProfileWrite(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:            "u1",
		CurrentStreakDays: 6,
		LastActivityDate:  testClock.AddDate(0, 0, -1),
		MonthAnchor:       "2026-08",
	})

	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 100,
		Source: models.SourceReading,
	}); err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}

	// Streak advance, weekly bonus and the award itself land in one delta.
	if profiles.deltaCalls != 1 {
		t.Errorf("profile delta writes = %d, want 1", profiles.deltaCalls)
	}
}

func TestAwardPointsSurvivesLedgerFailure(t *testing.T) {
	svc, profiles, ledger, _ := newTestScoring()
	ledger.failAppend = true

	if _, err := svc.AwardPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 50,
		Source: models.SourceReading,
	}); err != nil {
		t.Fatalf("AwardPoints should not fail on ledger errors, got %v", err)
	}
	if profiles.profiles["u1"].TotalPoints != 50 {
		t.Errorf("profile total = %d, want 50", profiles.profiles["u1"].TotalPoints)
	}
}

func TestAwardPointsValidation(t *testing.T) {
	svc, _, _, _ := newTestScoring()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *models.ScoreRequest
	}{
		{"missing user", &models.ScoreRequest{Amount: 10, Source: models.SourceReading}},
		{"zero amount", &models.ScoreRequest{UserID: "u1", Amount: 0, Source: models.SourceReading}},
		{"negative amount", &models.ScoreRequest{UserID: "u1", Amount: -5, Source: models.SourceReading}},
		{"unknown source", &models.ScoreRequest{UserID: "u1", Amount: 10, Source: "GAMBLING"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AwardPoints(ctx, tc.req); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAwardPointsUnlockEvaluationGuard(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{UserID: "u1", MonthAnchor: "2026-08"})

	eval := &recordingEvaluator{}
	svc.SetUnlockEvaluator(eval)
	ctx := context.Background()

	// Every award that can move a counter runs the unlock check: activity,
	// badge-sync bonuses and flat top-ups alike.
	for _, source := range []models.PointSource{
		models.SourceReading,
		models.SourceOnboardingBadge,
		models.SourceBonus,
	} {
		if _, err := svc.AwardPoints(ctx, &models.ScoreRequest{
			UserID: "u1", Amount: 10, Source: source,
		}); err != nil {
			t.Fatalf("AwardPoints(%s): %v", source, err)
		}
	}
	if len(eval.calls) != 3 {
		t.Fatalf("evaluator calls = %d, want 3", len(eval.calls))
	}

	// The achievement chain's own awards must not re-enter the unlock check.
	for _, source := range []models.PointSource{
		models.SourceAchievement,
		models.SourceStreakBonus,
	} {
		if _, err := svc.AwardPoints(ctx, &models.ScoreRequest{
			UserID: "u1", Amount: 25, Source: source,
		}); err != nil {
			t.Fatalf("AwardPoints(%s): %v", source, err)
		}
	}
	if len(eval.calls) != 3 {
		t.Errorf("evaluator calls after chain awards = %d, want still 3", len(eval.calls))
	}
}

type recordingEvaluator struct {
	calls []string
}

func (e *recordingEvaluator) EvaluateUnlocks(_ context.Context, userID string) ([]*models.UserAchievement, error) {
	e.calls = append(e.calls, userID)
	return nil, nil
}

func TestRedeemPoints(t *testing.T) {
	svc, profiles, ledger, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:          "u1",
		TotalPoints:     2500,
		AvailablePoints: 2500,
		LifetimePoints:  2500,
		MonthAnchor:     "2026-08",
	})

	returned, err := svc.RedeemPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 475,
	})
	if err != nil {
		t.Fatalf("RedeemPoints: %v", err)
	}

	// The returned profile already carries the reduced balance.
	if returned.AvailablePoints != 2025 || returned.TotalPoints != 2025 {
		t.Errorf("returned balance = %d available / %d total, want 2025/2025", returned.AvailablePoints, returned.TotalPoints)
	}
	if returned.LifetimePoints != 2500 {
		t.Errorf("lifetime points = %d, redemption must not touch them", returned.LifetimePoints)
	}
	got := ledger.bySource("u1", models.SourceRedemption)
	if len(got) != 1 || got[0].Points != -475 {
		t.Errorf("redemption ledger entries = %+v, want one -475 point entry", got)
	}
}

func TestRedeemPointsInsufficientBalance(t *testing.T) {
	svc, profiles, _, _ := newTestScoring()
	seedProfile(profiles, &models.UserProfile{
		UserID:          "u1",
		AvailablePoints: 100,
		MonthAnchor:     "2026-08",
	})

	_, err := svc.RedeemPoints(context.Background(), &models.ScoreRequest{
		UserID: "u1",
		Amount: 101,
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("err = %v, want ErrInsufficientPoints", err)
	}
	if profiles.profiles["u1"].AvailablePoints != 100 {
		t.Error("balance changed on a rejected redemption")
	}
}
