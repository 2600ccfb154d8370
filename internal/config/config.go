package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/finvista-dev/finvista/internal/chart"
	"github.com/finvista-dev/finvista/internal/logging"
)

// FileName is the config file at the root of every project.
const FileName = "finvista.yaml"

// Output formats understood by the chart and summary commands.
var Formats = []string{"table", "json", "csv"}

// Config represents the top-level finvista.yaml configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Chart     ChartConfig     `yaml:"chart"`
	Budgets   BudgetsConfig   `yaml:"budgets"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Bills     BillsConfig     `yaml:"bills"`
	API       APIConfig       `yaml:"api"`
	Log       LogConfig       `yaml:"log"`
	Git       GitConfig       `yaml:"git"`
}

// DataConfig locates the transaction files.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// ChartConfig holds the defaults for chart flags.
type ChartConfig struct {
	Granularity string `yaml:"granularity"`
	FiscalYear  string `yaml:"fiscal_year"`
	Format      string `yaml:"format"`
}

// BudgetsConfig controls the budget store and renewal.
type BudgetsConfig struct {
	File               string   `yaml:"file"`
	ExpiringDays       int      `yaml:"expiring_days"`
	ExcludeFromRenewal []string `yaml:"exclude_from_renewal"`
}

// PortfolioConfig locates the investment holdings.
type PortfolioConfig struct {
	File string `yaml:"file"`
}

// BillsConfig locates the bills and sets the reminder window new bills get.
type BillsConfig struct {
	File         string `yaml:"file"`
	ReminderDays int    `yaml:"reminder_days"`
}

// APIConfig points the fetch command at the backend. The token only ever
// comes from the environment.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" env:"FINVISTA_API_URL"`
	Token      string        `yaml:"-" env:"FINVISTA_API_TOKEN"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" env:"FINVISTA_LOG_LEVEL"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a finvista.yaml file from disk. Keys absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadProject reads <root>/finvista.yaml, falling back to Default when the
// project has none, then applies the environment. A .env file in root is
// loaded first; variables already set win over it.
func LoadProject(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := LoadEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads dotenv (when it exists) into the process environment and
// overrides cfg from FINVISTA_* variables.
func LoadEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return fmt.Errorf("loading %s: %w", filepath.Base(dotenv), err)
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
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
func Default() *Config {
	return &Config{
		Data: DataConfig{Dir: "data"},
		Chart: ChartConfig{
			Granularity: string(chart.Monthly),
			FiscalYear:  chart.AllLabel,
			Format:      "table",
		},
		Budgets: BudgetsConfig{
			File:               "budgets.yaml",
			ExpiringDays:       7,
			ExcludeFromRenewal: []string{"Monthly Income"},
		},
		Portfolio: PortfolioConfig{File: "portfolio.yaml"},
		Bills: BillsConfig{
			File:         "bills.yaml",
			ReminderDays: 3,
		},
		API: APIConfig{
			MaxRetries: 3,
			Timeout:    30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Git: GitConfig{
			AuthorName:  "FinVista",
			AuthorEmail: "finvista@localhost",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if _, err := chart.ParseGranularity(c.Chart.Granularity); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := chart.ParseFiscalYear(c.Chart.FiscalYear); err != nil {
		problems = append(problems, err.Error())
	}
	if !validFormat(c.Chart.Format) {
		problems = append(problems, fmt.Sprintf("chart format %q must be one of %v", c.Chart.Format, Formats))
	}
	if c.Budgets.ExpiringDays < 0 {
		problems = append(problems, "budgets.expiring_days cannot be negative")
	}
	if c.Bills.ReminderDays < 0 {
		problems = append(problems, "bills.reminder_days cannot be negative")
	}
	if c.API.MaxRetries < 0 {
		problems = append(problems, "api.max_retries cannot be negative")
	}
	if c.API.Timeout < 0 {
		problems = append(problems, "api.timeout cannot be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// DataDir resolves the data directory against the project root.
func (c *Config) DataDir(root string) string {
	return resolve(root, c.Data.Dir)
}

// BudgetsPath resolves the budgets file against the project root.
func (c *Config) BudgetsPath(root string) string {
	return resolve(root, c.Budgets.File)
}

// PortfolioPath resolves the portfolio file against the project root.
func (c *Config) PortfolioPath(root string) string {
	return resolve(root, c.Portfolio.File)
}

// BillsPath resolves the bills file against the project root.
func (c *Config) BillsPath(root string) string {
	return resolve(root, c.Bills.File)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
