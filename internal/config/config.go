package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the repo root.
const FileName = "cartola.yaml"

// Config represents the top-level cartola.yaml configuration.
type Config struct {
	Company CompanyConfig `yaml:"company"`
	Import  ImportConfig  `yaml:"import"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// CompanyConfig identifies the company (tenant) that owns the project.
type CompanyConfig struct {
	Name string `yaml:"name"`
	RUT  string `yaml:"rut"`
}

// ImportConfig limits what statement uploads are accepted.
type ImportConfig struct {
	MaxFileBytes  int64    `yaml:"max_file_bytes"`
	Extensions    []string `yaml:"extensions"`
	DefaultFormat string   `yaml:"default_format"`
	Timezone      string   `yaml:"timezone"` // IANA name for DD/MM dates, e.g. "America/Santiago"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a cartola.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(companyName, rut string) *Config {
	return &Config{
		Company: CompanyConfig{
			Name: companyName,
			RUT:  rut,
		},
		Import: ImportConfig{
			MaxFileBytes:  10 << 20,
			Extensions:    []string{".xlsx", ".xlsm"},
			DefaultFormat: "cartola",
			Timezone:      "UTC",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Cartola Import",
			AuthorEmail: "import@cartola.local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
