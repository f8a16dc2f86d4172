// Package config provides Viper-based configuration loading for the
// simulation core and its binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// VisibilityConfig holds visibility engine settings.
type VisibilityConfig struct {
	// FalloffRadius is the distance at which brightness saturates to 1.
	FalloffRadius float64 `mapstructure:"falloff_radius"`
}

// WeightsConfig holds the relative weights for the four encounter types.
// Weights are relative, not normalized; a zero total falls back to a
// deterministic combat assignment.
type WeightsConfig struct {
	Combat   float64 `mapstructure:"combat"`
	Chest    float64 `mapstructure:"chest"`
	Dialogue float64 `mapstructure:"dialogue"`
	Shrine   float64 `mapstructure:"shrine"`
}

// EncounterConfig holds the weighted-distribution settings and the fallback
// parameter ranges used to synthesize content when no pool template is
// available. It is read-only to the assignment engine.
type EncounterConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`

	// EliteChance is the probability a synthesized combat is elite.
	EliteChance float64 `mapstructure:"elite_chance"`
	// TrapChance is the probability a synthesized chest is trapped.
	TrapChance float64 `mapstructure:"trap_chance"`
	// BaseForce is the creature force of a synthesized non-elite combat.
	BaseForce int `mapstructure:"base_force"`
	// EliteForce is the creature force of a synthesized elite combat.
	EliteForce int `mapstructure:"elite_force"`
	// TrapDamage is the damage of a synthesized trapped chest.
	TrapDamage int `mapstructure:"trap_damage"`
	// SacrificeCost is the HP cost of a synthesized shrine.
	SacrificeCost int `mapstructure:"sacrifice_cost"`
	// CombatReward is the HP gained from defeating a synthesized elite.
	CombatReward int `mapstructure:"combat_reward"`
	// ChestReward is the HP gained from a synthesized chest.
	ChestReward int `mapstructure:"chest_reward"`
	// ShrineReward is the vision radius gained from a synthesized shrine.
	ShrineReward int `mapstructure:"shrine_reward"`
	// DialogueRisk is the HP lost on the bold choice of a synthesized dialogue.
	DialogueRisk int `mapstructure:"dialogue_risk"`
	// DialogueReward is the buff value granted by a synthesized dialogue.
	DialogueReward int `mapstructure:"dialogue_reward"`
}

// PlayerConfig holds the starting player state for a run.
type PlayerConfig struct {
	// StartingHP is the player's HP at level start.
	StartingHP int `mapstructure:"starting_hp"`
	// Force is the player's combat strength.
	Force int `mapstructure:"force"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds PostgreSQL connection settings for run log
// persistence.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Visibility VisibilityConfig `mapstructure:"visibility"`
	Encounters EncounterConfig  `mapstructure:"encounters"`
	Player     PlayerConfig     `mapstructure:"player"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateVisibility(c.Visibility); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEncounters(c.Encounters); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePlayer(c.Player); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateVisibility(v VisibilityConfig) error {
	if v.FalloffRadius <= 0 {
		return fmt.Errorf("visibility.falloff_radius must be > 0, got %g", v.FalloffRadius)
	}
	return nil
}

func validateEncounters(e EncounterConfig) error {
	var errs []string
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"combat", e.Weights.Combat},
		{"chest", e.Weights.Chest},
		{"dialogue", e.Weights.Dialogue},
		{"shrine", e.Weights.Shrine},
	} {
		if w.value < 0 {
			errs = append(errs, fmt.Sprintf("encounters.weights.%s must be >= 0, got %g", w.name, w.value))
		}
	}
	if e.EliteChance < 0 || e.EliteChance > 1 {
		errs = append(errs, fmt.Sprintf("encounters.elite_chance must be in [0, 1], got %g", e.EliteChance))
	}
	if e.TrapChance < 0 || e.TrapChance > 1 {
		errs = append(errs, fmt.Sprintf("encounters.trap_chance must be in [0, 1], got %g", e.TrapChance))
	}
	if e.BaseForce < 1 {
		errs = append(errs, fmt.Sprintf("encounters.base_force must be >= 1, got %d", e.BaseForce))
	}
	if e.EliteForce < e.BaseForce {
		errs = append(errs, fmt.Sprintf("encounters.elite_force must be >= base_force, got %d", e.EliteForce))
	}
	if e.TrapDamage < 0 {
		errs = append(errs, fmt.Sprintf("encounters.trap_damage must be >= 0, got %d", e.TrapDamage))
	}
	if e.SacrificeCost < 0 {
		errs = append(errs, fmt.Sprintf("encounters.sacrifice_cost must be >= 0, got %d", e.SacrificeCost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.StartingHP < 1 {
		errs = append(errs, fmt.Sprintf("player.starting_hp must be >= 1, got %d", p.StartingHP))
	}
	if p.Force < 1 {
		errs = append(errs, fmt.Sprintf("player.force must be >= 1, got %d", p.Force))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with LANTERN_ prefix
	v.SetEnvPrefix("LANTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("visibility.falloff_radius", 4.0)

	v.SetDefault("encounters.weights.combat", 4.0)
	v.SetDefault("encounters.weights.chest", 3.0)
	v.SetDefault("encounters.weights.dialogue", 2.0)
	v.SetDefault("encounters.weights.shrine", 1.0)
	v.SetDefault("encounters.elite_chance", 0.2)
	v.SetDefault("encounters.trap_chance", 0.35)
	v.SetDefault("encounters.base_force", 6)
	v.SetDefault("encounters.elite_force", 12)
	v.SetDefault("encounters.trap_damage", 5)
	v.SetDefault("encounters.sacrifice_cost", 10)
	v.SetDefault("encounters.combat_reward", 8)
	v.SetDefault("encounters.chest_reward", 8)
	v.SetDefault("encounters.shrine_reward", 2)
	v.SetDefault("encounters.dialogue_risk", 4)
	v.SetDefault("encounters.dialogue_reward", 3)

	v.SetDefault("player.starting_hp", 30)
	v.SetDefault("player.force", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "lantern")
	v.SetDefault("database.password", "lantern")
	v.SetDefault("database.name", "lantern")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
