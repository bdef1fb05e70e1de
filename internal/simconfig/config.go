// Package simconfig loads the simulation-run parameters the demo CLI
// needs: grid size, replica count, sector size, and fault-injection mode.
package simconfig

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the parameters for one simulation run.
type Config struct {
	GridBlocksMax      int    `mapstructure:"grid_blocks_max"`
	ReplicaCount       int    `mapstructure:"replica_count"`
	SectorSize         uint32 `mapstructure:"sector_size"`
	ClientSessionSlots int    `mapstructure:"client_session_slots"`
	ClientReplySlotCap uint32 `mapstructure:"client_reply_slot_cap"`
	FaultInjectionMode string `mapstructure:"fault_injection_mode"`
}

// Load reads simulation configuration using Viper: a YAML file if one is
// found on the search path, overridden by SIMVERIFY_-prefixed environment
// variables, falling back to defaults when neither is set.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("simverify-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.simverify")
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetDefault("grid_blocks_max", 4096)
	v.SetDefault("replica_count", 3)
	v.SetDefault("sector_size", 512)
	v.SetDefault("client_session_slots", 32)
	v.SetDefault("client_reply_slot_cap", 16384)
	v.SetDefault("fault_injection_mode", "none")

	v.SetEnvPrefix("SIMVERIFY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("simconfig: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("simconfig: unmarshal config: %w", err)
	}

	if cfg.ReplicaCount < 1 {
		return nil, fmt.Errorf("simconfig: replica_count must be at least 1, got %d", cfg.ReplicaCount)
	}
	if cfg.GridBlocksMax < 1 {
		return nil, fmt.Errorf("simconfig: grid_blocks_max must be at least 1, got %d", cfg.GridBlocksMax)
	}

	return &cfg, nil
}
