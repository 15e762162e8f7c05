package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/repositories"
)

// In-memory repository fakes. The profile fake mirrors the store's atomic
// delta semantics (increments, sets, monotonic maxima) so service tests
// exercise the same update contract as the MongoDB implementation.

type fakeProfileRepo struct {
	profiles   map[string]*models.UserProfile
	deltaCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.UserProfile) error {
	if _, ok := r.profiles[profile.UserID]; ok {
		return repositories.ErrDuplicate
	}
	clone := *profile
	r.profiles[profile.UserID] = &clone
	return nil
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) ApplyScoreDelta(_ context.Context, userID string, delta *models.ProfileDelta) error {
	p, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.deltaCalls++

	p.TotalPoints += delta.TotalPoints
	p.AvailablePoints += delta.AvailablePoints
	p.LifetimePoints += delta.LifetimePoints
	p.ReadingPoints += delta.ReadingPoints
	p.QuizPoints += delta.QuizPoints
	p.AckPoints += delta.AckPoints
	p.BonusPoints += delta.BonusPoints
	p.PoliciesRead += delta.PoliciesRead
	p.QuizzesCompleted += delta.QuizzesCompleted
	p.QuizzesPassed += delta.QuizzesPassed
	p.BadgeCount += delta.BadgeCount

	if delta.ResetMonthTo != nil {
		p.PointsThisMonth = *delta.ResetMonthTo
	} else {
		p.PointsThisMonth += delta.PointsThisMonth
	}
	if delta.MonthAnchor != "" {
		p.MonthAnchor = delta.MonthAnchor
	}
	if delta.StreakDays != nil {
		p.CurrentStreakDays = *delta.StreakDays
	}
	if delta.LastActivityDate != nil {
		p.LastActivityDate = *delta.LastActivityDate
	}
	if delta.LevelName != "" {
		p.CurrentLevelName = delta.LevelName
	}
	if delta.Level != nil && *delta.Level > p.CurrentLevel {
		p.CurrentLevel = *delta.Level
	}
	if delta.LongestStreakDays != nil && *delta.LongestStreakDays > p.LongestStreakDays {
		p.LongestStreakDays = *delta.LongestStreakDays
	}
	p.UpdatedAt = time.Now()
	return nil
}

type fakeLedgerRepo struct {
	entries    []*models.PointLedgerEntry
	failAppend bool
}

func (r *fakeLedgerRepo) Append(_ context.Context, entry *models.PointLedgerEntry) error {
	if r.failAppend {
		return errors.New("ledger unavailable")
	}
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeLedgerRepo) FindByUserID(_ context.Context, userID string, page, limit int) ([]*models.PointLedgerEntry, error) {
	var out []*models.PointLedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if out == nil {
		out = []*models.PointLedgerEntry{}
	}
	return out, nil
}

func (r *fakeLedgerRepo) CountByUserID(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLedgerRepo) bySource(userID string, source models.PointSource) []*models.PointLedgerEntry {
	var out []*models.PointLedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

type fakeAchievementRepo struct {
	achievements []*models.Achievement
}

func (r *fakeAchievementRepo) Create(_ context.Context, a *models.Achievement) error {
	r.achievements = append(r.achievements, a)
	return nil
}

func (r *fakeAchievementRepo) FindActive(_ context.Context) ([]*models.Achievement, error) {
	var out []*models.Achievement
	for _, a := range r.achievements {
		if a.IsActive {
			out = append(out, a)
		}
	}
	if out == nil {
		out = []*models.Achievement{}
	}
	return out, nil
}

func (r *fakeAchievementRepo) FindByCode(_ context.Context, code string) (*models.Achievement, error) {
	for _, a := range r.achievements {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeEarnedRepo struct {
	earned map[string]*models.UserAchievement
}

func newFakeEarnedRepo() *fakeEarnedRepo {
	return &fakeEarnedRepo{earned: make(map[string]*models.UserAchievement)}
}

func (r *fakeEarnedRepo) key(userID, code string) string { return userID + "|" + code }

func (r *fakeEarnedRepo) Create(_ context.Context, ua *models.UserAchievement) error {
	k := r.key(ua.UserID, ua.AchievementCode)
	if _, ok := r.earned[k]; ok {
		return repositories.ErrDuplicate
	}
	if ua.UnlockedDate.IsZero() {
		ua.UnlockedDate = time.Now()
	}
	clone := *ua
	r.earned[k] = &clone
	return nil
}

func (r *fakeEarnedRepo) FindByUserID(_ context.Context, userID string) ([]*models.UserAchievement, error) {
	var out []*models.UserAchievement
	for _, ua := range r.earned {
		if ua.UserID == userID {
			out = append(out, ua)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementCode < out[j].AchievementCode })
	if out == nil {
		out = []*models.UserAchievement{}
	}
	return out, nil
}

func (r *fakeEarnedRepo) CodesByUserID(ctx context.Context, userID string) (map[string]bool, error) {
	earned, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(earned))
	for _, ua := range earned {
		codes[ua.AchievementCode] = true
	}
	return codes, nil
}

func (r *fakeEarnedRepo) EnsureIndexes(_ context.Context) error { return nil }

type fakeOnboardingRepo struct {
	progress map[string]*models.OnboardingProgress
}

func (r *fakeOnboardingRepo) FindByUserID(_ context.Context, userID string) (*models.OnboardingProgress, error) {
	p, ok := r.progress[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

type fakeSnapshotRepo struct {
	onboarding []*models.LeaderboardSnapshotEntry
	enterprise []*models.LeaderboardSnapshotEntry
}

func (r *fakeSnapshotRepo) FindOnboarding(_ context.Context) ([]*models.LeaderboardSnapshotEntry, error) {
	return r.onboarding, nil
}

func (r *fakeSnapshotRepo) FindEnterprise(_ context.Context) ([]*models.LeaderboardSnapshotEntry, error) {
	return r.enterprise, nil
}

type sentNotification struct {
	recipient string
	subject   string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, recipientEmail, subject, _ string) error {
	n.sent = append(n.sent, sentNotification{recipient: recipientEmail, subject: subject})
	return nil
}
