package progression

import "time"

// StreakBonus is the bonus class a streak advance qualifies for.
type StreakBonus int

const (
	BonusNone StreakBonus = iota
	BonusDaily
	BonusWeekly
	BonusMonthly
)

// NextStreak computes the streak progression for an activity happening "today"
// given the previous activity date and the current streak length. Pure: it
// performs no I/O and awards nothing, so the caller can fold the streak
// change and its bonus into a single profile write.
//
// Date-only comparison; time of day is ignored. Same day leaves the streak
// unchanged with no bonus. Exactly one day later advances the streak by one
// and qualifies for the monthly bonus on 30-day multiples, otherwise the
// weekly bonus on 7-day multiples, otherwise the daily bonus. Any longer gap
// (including no prior activity) resets the streak to 1 with no bonus.
func NextStreak(lastActivity, today time.Time, current int) (int, StreakBonus) {
	if lastActivity.IsZero() {
		return 1, BonusNone
	}

	last := dateOnly(lastActivity)
	now := dateOnly(today)

	switch int(now.Sub(last).Hours() / 24) {
	case 0:
		return current, BonusNone
	case 1:
		next := current + 1
		switch {
		case next%30 == 0:
			return next, BonusMonthly
		case next%7 == 0:
			return next, BonusWeekly
		default:
			return next, BonusDaily
		}
	default:
		return 1, BonusNone
	}
}

// dateOnly truncates to a UTC calendar day. Both inputs are normalized to
// the same location first, so a zoned wall clock and a stored UTC timestamp
// compare on the same calendar.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
