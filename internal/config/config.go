package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Rules    RulesConfig    `toml:"rules"`
	Data     DataConfig     `toml:"data"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	Width          int      `toml:"width"           env:"COLONY_GAME_WIDTH"`
	Height         int      `toml:"height"          env:"COLONY_GAME_HEIGHT"`
	Players        []string `toml:"players"         env:"COLONY_GAME_PLAYERS" envSeparator:","`
	Rounds         int      `toml:"rounds"          env:"COLONY_GAME_ROUNDS"`
	Seed           int64    `toml:"seed"            env:"COLONY_GAME_SEED"` // 0 = derive from clock
	GrowthCycles   int      `toml:"growth_cycles"   env:"COLONY_GAME_GROWTH_CYCLES"`
	StartingPoints int      `toml:"starting_points" env:"COLONY_GAME_STARTING_POINTS"`
}

type RulesConfig struct {
	BaseDeathRate     float64 `toml:"base_death_rate"     env:"COLONY_RULES_BASE_DEATH_RATE"`
	AgeDelayThreshold int     `toml:"age_delay_threshold" env:"COLONY_RULES_AGE_DELAY_THRESHOLD"` // growth cycles
	AgeFactor         float64 `toml:"age_factor"          env:"COLONY_RULES_AGE_FACTOR"`
	BaseGrowthChance  float64 `toml:"base_growth_chance"  env:"COLONY_RULES_BASE_GROWTH_CHANCE"`
	ToxinDuration     int     `toml:"toxin_duration"      env:"COLONY_RULES_TOXIN_DURATION"` // growth cycles
	BaseIncome        int     `toml:"base_income"         env:"COLONY_RULES_BASE_INCOME"`
}

type DataConfig struct {
	Catalog string `toml:"catalog" env:"COLONY_DATA_CATALOG"`
	Scripts string `toml:"scripts" env:"COLONY_DATA_SCRIPTS"`
}

// DatabaseConfig: an empty DSN disables journaling to Postgres.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"               env:"COLONY_DATABASE_DSN"`
	MaxOpenConns    int           `toml:"max_open_conns"    env:"COLONY_DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns"    env:"COLONY_DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" env:"COLONY_DATABASE_CONN_MAX_LIFETIME"`
}

// ExportConfig: an empty Dir disables parquet export.
type ExportConfig struct {
	Dir string `toml:"dir" env:"COLONY_EXPORT_DIR"`
}

type LoggingConfig struct {
	Level  string `toml:"level"  env:"COLONY_LOG_LEVEL"`
	Format string `toml:"format" env:"COLONY_LOG_FORMAT"` // "json" or "console"
}

// Load reads the TOML file at path over the defaults, then applies any
// COLONY_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the game cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Game.Width < 1 || c.Game.Height < 1:
		return fmt.Errorf("board size %dx%d must be positive", c.Game.Width, c.Game.Height)
	case len(c.Game.Players) == 0:
		return fmt.Errorf("at least one player is required")
	case len(c.Game.Players) > 26:
		return fmt.Errorf("%d players, at most 26 supported", len(c.Game.Players))
	case c.Game.GrowthCycles < 1:
		return fmt.Errorf("growth_cycles must be at least 1")
	case c.Game.Rounds < 0:
		return fmt.Errorf("rounds must not be negative")
	case c.Rules.ToxinDuration < 1:
		return fmt.Errorf("toxin_duration must be at least 1")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Width:          60,
			Height:         60,
			Players:        []string{"green", "violet", "amber", "cyan"},
			Rounds:         50,
			GrowthCycles:   5,
			StartingPoints: 5,
		},
		Rules: RulesConfig{
			BaseDeathRate:     0.02,
			AgeDelayThreshold: 25,
			AgeFactor:         0.005,
			BaseGrowthChance:  0.06,
			ToxinDuration:     4,
			BaseIncome:        5,
		},
		Data: DataConfig{
			Catalog: "data/yaml/mutations.yaml",
			Scripts: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
