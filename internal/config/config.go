package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/allocator"
)

// DefaultServerAddr is used when server.addr is not set
const DefaultServerAddr = ":8080"

// JobConfig defines one job to allocate candidates to
type JobConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Capacity int    `yaml:"capacity" validate:"min=0"`
	// Requirements maps test type to either a shorthand list or a criterion object
	Requirements map[string]allocator.RawCriterion `yaml:"requirements,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config represents the application configuration
type Config struct {
	// Exactly one upstream store is used; DatabaseURL wins when both are set
	DatabaseURL  string `yaml:"databaseURL,omitempty" validate:"required_without=SnapshotPath"`
	SnapshotPath string `yaml:"snapshotPath,omitempty" validate:"required_without=DatabaseURL"`

	Weights      map[string]float64 `yaml:"weights,omitempty"`
	Jobs         []JobConfig        `yaml:"jobs" validate:"dive"`
	ParallelJobs int                `yaml:"parallelJobs,omitempty" validate:"min=0"`
	Server       ServerConfig       `yaml:"server,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from allocation_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads allocation_config.<env>.yaml, or allocation_config.yaml when env is empty
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// A relative snapshotPath is resolved against the config file's directory.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.SnapshotPath != "" && !filepath.IsAbs(cfg.SnapshotPath) {
		cfg.SnapshotPath = filepath.Join(filepath.Dir(path), cfg.SnapshotPath)
	}

	return &cfg, nil
}

// Validate validates the configuration struct, job names and weights
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Jobs))
	for i, job := range cfg.Jobs {
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name in jobs[%d]: %s", i, job.Name)
		}
		seen[job.Name] = true
	}

	for testType, weight := range cfg.Weights {
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
			return fmt.Errorf("invalid weight for %s: %v (must be a finite number >= 0)", testType, weight)
		}
	}

	return nil
}

// ServerAddr returns the configured API address or the default
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// Capacities returns the slot count per job
func (c *Config) Capacities() map[string]int {
	capacities := make(map[string]int, len(c.Jobs))
	for _, job := range c.Jobs {
		capacities[job.Name] = job.Capacity
	}
	return capacities
}

// JobRequirements returns the raw requirements per job, skipping jobs without any
func (c *Config) JobRequirements() map[string]map[string]allocator.RawCriterion {
	requirements := make(map[string]map[string]allocator.RawCriterion, len(c.Jobs))
	for _, job := range c.Jobs {
		if len(job.Requirements) > 0 {
			requirements[job.Name] = job.Requirements
		}
	}
	return requirements
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "allocation_config.yaml"
	if env != "" {
		configFileName = "allocation_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
