package config

import (
	"github.com/spf13/viper"

	"github.com/engagehq/engagehub-backend/internal/models"
	"github.com/engagehq/engagehub-backend/internal/progression"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	MongoDB       MongoDBConfig
	StreakBonus   StreakBonusConfig
	Progression   progression.Tables
	BadgeMappings []models.AchievementMapping
	LogLevel      string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// StreakBonusConfig holds the bonus point amounts awarded when a streak
// advances. The monthly bonus applies on 30-day multiples, the weekly bonus
// on 7-day multiples, the daily bonus otherwise.
type StreakBonusConfig struct {
	Daily   int
	Weekly  int
	Monthly int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Threshold tables and badge mappings are structured defaults that viper
	// cannot express through SetDefault, so fill them in after unmarshalling
	// when the config file omits them.
	tables := progression.DefaultTables()
	if len(config.Progression.Levels) == 0 {
		config.Progression.Levels = tables.Levels
	}
	if len(config.Progression.Tiers) == 0 {
		config.Progression.Tiers = tables.Tiers
	}
	if len(config.Progression.Streaks) == 0 {
		config.Progression.Streaks = tables.Streaks
	}
	if len(config.BadgeMappings) == 0 {
		config.BadgeMappings = defaultBadgeMappings()
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "engagehub")
	viper.SetDefault("StreakBonus.Daily", 5)
	viper.SetDefault("StreakBonus.Weekly", 25)
	viper.SetDefault("StreakBonus.Monthly", 100)
	viper.SetDefault("LogLevel", "info")
}

// defaultBadgeMappings returns the built-in onboarding badge to achievement
// mapping table, used when no mapping config is provided.
func defaultBadgeMappings() []models.AchievementMapping {
	return []models.AchievementMapping{
		{
			ExternalBadgeID:         "onboarding-first-day",
			ExternalBadgeName:       "First Day Hero",
			InternalAchievementCode: "FIRST_STEPS",
			InternalAchievementName: "First Steps",
			BonusPointsOnSync:       50,
		},
		{
			ExternalBadgeID:         "onboarding-week-one",
			ExternalBadgeName:       "Week One Wonder",
			InternalAchievementCode: "WEEK_ONE",
			InternalAchievementName: "Week One Complete",
			BonusPointsOnSync:       100,
		},
		{
			ExternalBadgeID:         "onboarding-policy-pro",
			ExternalBadgeName:       "Policy Pro",
			InternalAchievementCode: "POLICY_PRO",
			InternalAchievementName: "Policy Pro",
			BonusPointsOnSync:       150,
		},
		{
			ExternalBadgeID:         "onboarding-graduate",
			ExternalBadgeName:       "Onboarding Graduate",
			InternalAchievementCode: "ONBOARDING_GRADUATE",
			InternalAchievementName: "Onboarding Graduate",
			BonusPointsOnSync:       250,
			TierUpgradeFloor:        2500,
		},
	}
}
