package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MatchConfig is the on-disk shape of a match: which genome to deal,
// how many seats, each seat's agent, and the clocks it's bound by.
// Loaded the way tabular loads its training config: viper reads the raw
// YAML document and hands it to yaml.Unmarshal rather than relying on
// viper's own (lossier) struct binding.
type MatchConfig struct {
	Genome      string       `yaml:"genome"`
	GenomeFile  string       `yaml:"genome_file"`
	Players     int          `yaml:"players"`
	Seed        int64        `yaml:"seed"`
	StartClock  string       `yaml:"start_clock"`
	PlayClock   string       `yaml:"play_clock"`
	Agents      []string     `yaml:"agents"`
	MaxBelief   int          `yaml:"max_belief"`
	Spectate    bool         `yaml:"spectate"`
	SpectateAddr string      `yaml:"spectate_addr"`
}

// LoadMatchConfig reads path as YAML into a MatchConfig. There was no
// strong reason to reach past viper's own Unmarshal, but its struct
// binding lowercases and flattens keys in ways that fight yaml tags, so
// the config bytes are re-marshaled and handed to yaml.Unmarshal instead.
func LoadMatchConfig(path string) (*MatchConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cmd/play: read config: %w", err)
	}

	raw, err := yaml.Marshal(vp.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("cmd/play: remarshal config: %w", err)
	}

	cfg := &MatchConfig{Players: 2, StartClock: "0", PlayClock: "1"}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("cmd/play: parse config: %w", err)
	}
	return cfg, nil
}
