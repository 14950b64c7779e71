package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Auth    AuthConfig    `toml:"auth"`
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	AuthBindAddress  string `toml:"auth_bind_address"`
	WorldBindAddress string `toml:"world_bind_address"`

	// RealmAddress is the world address advertised in the realm list. It may
	// differ from WorldBindAddress when the server sits behind NAT.
	RealmAddress string `toml:"realm_address"`

	TickRate     time.Duration `toml:"tick_rate"`
	InQueueSize  int           `toml:"in_queue_size"`
	OutQueueSize int           `toml:"out_queue_size"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

type AuthConfig struct {
	AutoCreateAccounts bool `toml:"auto_create_accounts"`
}

type WorldConfig struct {
	SayRange  float32 `toml:"say_range"`
	YellRange float32 `toml:"yell_range"`
	// MarkFile is where the GM "mark" command appends bookmarked positions.
	MarkFile string `toml:"mark_file"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Frostmere",
			ID:   1,
		},
		Network: NetworkConfig{
			AuthBindAddress:  "0.0.0.0:3724",
			WorldBindAddress: "0.0.0.0:8085",
			RealmAddress:     "localhost:8085",
			TickRate:         100 * time.Millisecond,
			InQueueSize:      32,
			OutQueueSize:     256,
			WriteTimeout:     10 * time.Second,
		},
		Auth: AuthConfig{
			AutoCreateAccounts: true,
		},
		World: WorldConfig{
			SayRange:  25.0,
			YellRange: 300.0,
			MarkFile:  "unadded_locations.txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
