// Package progression holds the threshold tables and pure calculators for
// levels, tiers and streak multipliers. It is the single source of truth for
// progression thresholds, injected into every component that needs them.
package progression

// LevelStep maps a cumulative point threshold to a level.
type LevelStep struct {
	Threshold int    `mapstructure:"threshold"`
	Level     int    `mapstructure:"level"`
	Name      string `mapstructure:"name"`
}

// TierStep maps a cumulative point threshold to a tier with its reward
// multiplier and store discount.
type TierStep struct {
	Threshold  int     `mapstructure:"threshold"`
	Tier       string  `mapstructure:"tier"`
	Multiplier float64 `mapstructure:"multiplier"`
	Discount   int     `mapstructure:"discount"`
}

// StreakStep maps a consecutive-day milestone to a point multiplier.
type StreakStep struct {
	Days       int     `mapstructure:"days"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// Tables holds the three threshold tables. Each table is strictly ascending
// by threshold; the first row is the floor (threshold 0 for levels and tiers).
type Tables struct {
	Levels  []LevelStep  `mapstructure:"levels"`
	Tiers   []TierStep   `mapstructure:"tiers"`
	Streaks []StreakStep `mapstructure:"streaks"`
}

// Tier names.
const (
	TierBronze   = "BRONZE"
	TierSilver   = "SILVER"
	TierGold     = "GOLD"
	TierPlatinum = "PLATINUM"
)

// DefaultTables returns the built-in threshold tables, used when the
// configuration does not override them.
func DefaultTables() *Tables {
	return &Tables{
		Levels: []LevelStep{
			{Threshold: 0, Level: 1, Name: "Newcomer"},
			{Threshold: 100, Level: 2, Name: "Apprentice"},
			{Threshold: 300, Level: 3, Name: "Explorer"},
			{Threshold: 750, Level: 4, Name: "Contributor"},
			{Threshold: 1500, Level: 5, Name: "Achiever"},
			{Threshold: 3000, Level: 6, Name: "Specialist"},
			{Threshold: 6000, Level: 7, Name: "Expert"},
			{Threshold: 10000, Level: 8, Name: "Mentor"},
			{Threshold: 20000, Level: 9, Name: "Leader"},
			{Threshold: 50000, Level: 10, Name: "Legend"},
		},
		Tiers: []TierStep{
			{Threshold: 0, Tier: TierBronze, Multiplier: 1.0, Discount: 0},
			{Threshold: 2500, Tier: TierSilver, Multiplier: 1.25, Discount: 5},
			{Threshold: 10000, Tier: TierGold, Multiplier: 1.5, Discount: 10},
			{Threshold: 25000, Tier: TierPlatinum, Multiplier: 2.0, Discount: 15},
		},
		Streaks: []StreakStep{
			{Days: 7, Multiplier: 1.1},
			{Days: 14, Multiplier: 1.25},
			{Days: 30, Multiplier: 1.5},
			{Days: 60, Multiplier: 1.75},
			{Days: 90, Multiplier: 2.0},
		},
	}
}
