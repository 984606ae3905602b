package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/holdemd/internal/table"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings defines the rules applied to every table.
type GameSettings struct {
	MinPlayers int    `hcl:"min_players,optional"`
	MaxPlayers int    `hcl:"max_players,optional"`
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	BuyIn      int    `hcl:"buy_in,optional"`
	StartDelay string `hcl:"start_delay,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			MinPlayers: 2,
			MaxPlayers: 6,
			SmallBlind: 10,
			BigBlind:   20,
			BuyIn:      1000,
			StartDelay: "3s",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = defaults.Game.MaxPlayers
	}
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = defaults.Game.BigBlind
	}
	if config.Game.BuyIn == 0 {
		config.Game.BuyIn = defaults.Game.BuyIn
	}
	if config.Game.StartDelay == "" {
		config.Game.StartDelay = defaults.Game.StartDelay
	}

	return &config, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2")
	}
	// 2 hole cards per player plus 5 community cards must fit one deck.
	if c.Game.MaxPlayers < c.Game.MinPlayers || c.Game.MaxPlayers > 10 {
		return fmt.Errorf("max players must be between min players and 10")
	}
	if c.Game.BuyIn < c.Game.BigBlind {
		return fmt.Errorf("buy-in must cover the big blind")
	}
	if _, err := time.ParseDuration(c.Game.StartDelay); err != nil {
		return fmt.Errorf("invalid start delay %q: %w", c.Game.StartDelay, err)
	}
	return nil
}

// Addr returns the host:port address to listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts the game settings into the orchestrator's
// table rule set.
func (c *Config) TableConfig() table.Config {
	delay, _ := time.ParseDuration(c.Game.StartDelay) // checked by Validate
	return table.Config{
		MinPlayers: c.Game.MinPlayers,
		MaxPlayers: c.Game.MaxPlayers,
		SmallBlind: c.Game.SmallBlind,
		BigBlind:   c.Game.BigBlind,
		BuyIn:      c.Game.BuyIn,
		StartDelay: delay,
	}
}
