package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Session struct {
		TTLMinutes   int `yaml:"ttl_minutes"`
		SweepSeconds int `yaml:"sweep_seconds"`
		MaxSessions  int `yaml:"max_sessions"`
	} `yaml:"session"`

	Ingest struct {
		MaxUploadBytes   int64   `yaml:"max_upload_bytes"`
		UploadsPerMinute float64 `yaml:"uploads_per_minute"`
		UploadBurst      int     `yaml:"upload_burst"`
	} `yaml:"ingest"`

	Derive struct {
		SeniorityKeywords []string `yaml:"seniority_keywords"`
		SkillsSeparator   string   `yaml:"skills_separator"`
		JuniorBelowYears  float64  `yaml:"junior_below_years"`
		SeniorFromYears   float64  `yaml:"senior_from_years"`
	} `yaml:"derive"`

	Archive struct {
		Keep int `yaml:"keep"`
	} `yaml:"archive"`

	Store struct {
		URI            string `yaml:"uri"`
		Database       string `yaml:"database"`
		Collection     string `yaml:"collection"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"store"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
