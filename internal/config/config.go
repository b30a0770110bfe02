package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`
	Defaults struct {
		TeamColor      string `yaml:"team_color"`
		TimerSeconds   int    `yaml:"timer_seconds"`
		QuestionPoints int    `yaml:"question_points"`
	} `yaml:"defaults"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// StringOr returns raw unless it is empty.
func StringOr(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return raw
}

// IntOr returns raw unless it is zero or negative.
func IntOr(raw, fallback int) int {
	if raw <= 0 {
		return fallback
	}
	return raw
}
