package progression

// LevelOf returns the highest level whose threshold is <= points, scanning
// from the top of the table downward. Falls back to the first row for
// anything below it (should not happen, the first threshold is 0).
func (t *Tables) LevelOf(points int) (int, string) {
	for i := len(t.Levels) - 1; i >= 0; i-- {
		if points >= t.Levels[i].Threshold {
			return t.Levels[i].Level, t.Levels[i].Name
		}
	}
	return t.Levels[0].Level, t.Levels[0].Name
}

// TierOf returns the highest tier whose threshold is <= points.
func (t *Tables) TierOf(points int) TierStep {
	for i := len(t.Tiers) - 1; i >= 0; i-- {
		if points >= t.Tiers[i].Threshold {
			return t.Tiers[i]
		}
	}
	return t.Tiers[0]
}

// StreakMultiplierOf returns the multiplier for the highest streak milestone
// reached, or 1.0 below the first milestone.
func (t *Tables) StreakMultiplierOf(days int) float64 {
	for i := len(t.Streaks) - 1; i >= 0; i-- {
		if days >= t.Streaks[i].Days {
			return t.Streaks[i].Multiplier
		}
	}
	return 1.0
}

// PointsToNextLevel returns how many points remain until the next level, or
// 0 at the top level (terminal state, no further target).
func (t *Tables) PointsToNextLevel(points int) int {
	for i := len(t.Levels) - 1; i >= 0; i-- {
		if points >= t.Levels[i].Threshold {
			if i == len(t.Levels)-1 {
				return 0
			}
			return t.Levels[i+1].Threshold - points
		}
	}
	return t.Levels[0].Threshold - points
}

// PointsToNextTier returns how many points remain until the next tier, or 0
// at the top tier.
func (t *Tables) PointsToNextTier(points int) int {
	for i := len(t.Tiers) - 1; i >= 0; i-- {
		if points >= t.Tiers[i].Threshold {
			if i == len(t.Tiers)-1 {
				return 0
			}
			return t.Tiers[i+1].Threshold - points
		}
	}
	return t.Tiers[0].Threshold - points
}
