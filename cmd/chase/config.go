package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml machines/*.yaml
var defaultsFS embed.FS

type Config struct {
	Title        string  `yaml:"title"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Enemies      int     `yaml:"enemies"`
	PlayerSpeed  float64 `yaml:"player_speed"`
	EnemySpeed   float64 `yaml:"enemy_speed"`
	AttackFrames int     `yaml:"attack_frames"`
	StunFrames   int     `yaml:"stun_frames"`
}

// LoadConfig reads path over the embedded defaults. An empty path returns
// the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := defaultsFS.ReadFile("config.yaml")
	if err != nil {
		return cfg, fmt.Errorf("config: read defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode defaults: %w", err)
	}
	if path == "" {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config: %s: window size must be positive", path)
	}
	return cfg, nil
}
