// Package config loads briscola settings from an HCL file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/game"
)

// EnvSeed overrides the configured game seed
const EnvSeed = "BRISCOLA_SEED"

// Config represents the complete configuration
type Config struct {
	Game       *GameSettings       `hcl:"game,block"`
	Players    []PlayerConfig      `hcl:"player,block"`
	Reward     *RewardSettings     `hcl:"reward,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Log        *LogSettings        `hcl:"log,block"`
}

// GameSettings controls a single game
type GameSettings struct {
	RoundsToWin int    `hcl:"rounds_to_win,optional"`
	Seed        *int64 `hcl:"seed,optional"` // Unset means a seed is drawn from the clock
	MaxRetries  *int   `hcl:"max_retries,optional"`
	TurnTimeout string `hcl:"turn_timeout,optional"`
}

// PlayerConfig seats one player
type PlayerConfig struct {
	Name  string `hcl:"name,label"`
	Agent string `hcl:"agent"`
}

// RewardSettings selects the reward policy
type RewardSettings struct {
	Policy     string   `hcl:"policy,optional"`
	W1         *float64 `hcl:"w1,optional"`
	W2         *float64 `hcl:"w2,optional"`
	RoundBonus *float64 `hcl:"round_bonus,optional"`
}

// SimulationSettings controls `briscola simulate`
type SimulationSettings struct {
	Games       int  `hcl:"games,optional"`
	Parallelism int  `hcl:"parallelism,optional"`
	Rotate      bool `hcl:"rotate,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the default configuration: one human against the
// scripted agent
func Default() *Config {
	cfg := &Config{
		Players: []PlayerConfig{
			{Name: "You", Agent: string(agent.KindHuman)},
			{Name: "Bot", Agent: string(agent.KindScripted)},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults. The environment is applied on top of the file.
func Load(filename string) (*Config, error) {
	var cfg *Config
	src, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = Default()
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if cfg, err = Parse(src, filename); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes HCL source and applies defaults for missing values
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(cfg.Players) == 0 {
		cfg.Players = Default().Players
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.RoundsToWin == 0 {
		c.Game.RoundsToWin = game.DefaultRoundsToWin
	}

	if c.Reward == nil {
		c.Reward = &RewardSettings{}
	}
	if c.Reward.Policy == "" {
		c.Reward.Policy = string(game.RewardBaseline)
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = 1000
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// ApplyEnv applies environment overrides using lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Game.Seed = &seed
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.RoundsToWin < 1 {
		return fmt.Errorf("rounds_to_win must be at least 1, got %d", c.Game.RoundsToWin)
	}
	if c.Game.MaxRetries != nil && *c.Game.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if _, err := c.TurnTimeout(); err != nil {
		return err
	}

	if n := len(c.Players); n < 2 || n > 4 {
		return fmt.Errorf("between 2 and 4 players must be configured, got %d", n)
	}
	seen := make(map[string]bool, len(c.Players))
	humans := 0
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player name must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("player %s: configured twice", p.Name)
		}
		seen[p.Name] = true

		kind, err := agent.ParseKind(p.Agent)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
		if kind == agent.KindHuman {
			humans++
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human player is supported, got %d", humans)
	}

	policy, err := c.RewardPolicy()
	if err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("reward: %w", err)
	}

	if c.Simulation.Games < 1 {
		return fmt.Errorf("simulation games must be positive, got %d", c.Simulation.Games)
	}
	if c.Simulation.Parallelism < 0 {
		return fmt.Errorf("simulation parallelism must not be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// RewardPolicy builds the configured reward policy
func (c *Config) RewardPolicy() (game.RewardPolicy, error) {
	kind, err := game.ParseRewardKind(c.Reward.Policy)
	if err != nil {
		return game.RewardPolicy{}, fmt.Errorf("reward: %w", err)
	}

	policy := game.DefaultRewardPolicy()
	policy.Kind = kind
	if c.Reward.W1 != nil {
		policy.W1 = *c.Reward.W1
	}
	if c.Reward.W2 != nil {
		policy.W2 = *c.Reward.W2
	}
	if c.Reward.RoundBonus != nil {
		policy.RoundBonus = *c.Reward.RoundBonus
	}
	return policy, nil
}

// TurnTimeout parses the per-turn time limit. Zero means unlimited.
func (c *Config) TurnTimeout() (time.Duration, error) {
	if c.Game.TurnTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Game.TurnTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid turn_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("turn_timeout must not be negative")
	}
	return d, nil
}

// Names returns the configured player names in seat order
func (c *Config) Names() []string {
	names := make([]string, len(c.Players))
	for i, p := range c.Players {
		names[i] = p.Name
	}
	return names
}

// Human returns the configured human player, if any
func (c *Config) Human() (PlayerConfig, bool) {
	for _, p := range c.Players {
		if p.Agent == string(agent.KindHuman) {
			return p, true
		}
	}
	return PlayerConfig{}, false
}
