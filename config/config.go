// Package config loads the server settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen         string        `yaml:"listen"`
	ShowdownURL    string        `yaml:"showdown_url"`
	PokedexPath    string        `yaml:"pokedex_path"`
	MovesPath      string        `yaml:"moves_path"`
	TemplatesDir   string        `yaml:"templates_dir"`
	EncounterDB    string        `yaml:"encounter_db"`
	EncounterSeed  string        `yaml:"encounter_seed"`
	RollPercentage int           `yaml:"roll_percentage"`
	MaxReconnects  int           `yaml:"max_reconnects"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	AISides        []string      `yaml:"ai_sides"`
	LogLevel       string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Listen:         ":42069",
		ShowdownURL:    "wss://sim.psim.us/showdown/websocket",
		PokedexPath:    "data/pokedex.json",
		MovesPath:      "data/moves.json",
		TemplatesDir:   "templates",
		EncounterDB:    "encounters.db",
		RollPercentage: 92,
		MaxReconnects:  3,
		ReconnectDelay: 2 * time.Second,
		PingInterval:   20 * time.Second,
		AISides:        []string{"p2"},
		LogLevel:       "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.RollPercentage < 1 || c.RollPercentage > 100 {
		return fmt.Errorf("roll_percentage %d out of range 1..100", c.RollPercentage)
	}
	if c.MaxReconnects < 1 {
		return fmt.Errorf("max_reconnects must be positive, got %d", c.MaxReconnects)
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("ping_interval must be positive, got %s", c.PingInterval)
	}
	for _, side := range c.AISides {
		if side != "p1" && side != "p2" {
			return fmt.Errorf("ai_sides: unknown side %q", side)
		}
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// HasAI reports whether the Showdown side id ("p1", "p2") is AI controlled.
func (c Config) HasAI(side string) bool {
	for _, s := range c.AISides {
		if s == side {
			return true
		}
	}
	return false
}

func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "console"
	zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return zc.Build()
}
