package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CategoryRule suggests a category for statement rows whose payee matches
// Pattern, or Match when no pattern is given
type CategoryRule struct {
	Pattern   string   `yaml:"pattern,omitempty"`    // Regex matched case-insensitively against the payee
	Match     string   `yaml:"match,omitempty"`      // Glob with "*" wildcards, matched case-insensitively against the whole payee
	Category  string   `yaml:"category"`             // Category to suggest
	MinAmount *float64 `yaml:"min_amount,omitempty"` // Optional minimum amount (absolute value)
	MaxAmount *float64 `yaml:"max_amount,omitempty"` // Optional maximum amount (absolute value)

	regex *regexp.Regexp `yaml:"-"`
}

// IgnoreRule drops matching statement rows from an import review, optionally
// only within a time window. Internal transfers between own accounts are the
// usual candidates.
type IgnoreRule struct {
	Pattern string `yaml:"pattern"`
	Before  string `yaml:"before,omitempty"` // Ignore only rows before this date (YYYY-MM-DD)
	After   string `yaml:"after,omitempty"`  // Ignore only rows on or after this date (YYYY-MM-DD)

	regex      *regexp.Regexp `yaml:"-"`
	beforeDate time.Time      `yaml:"-"`
	afterDate  time.Time      `yaml:"-"`
}

// SeedCategory is a category definition used to seed an empty database
type SeedCategory struct {
	Name   string       `yaml:"name"`
	Type   CategoryType `yaml:"type"`
	Budget float64      `yaml:"budget"`
}

type TrendsConfig struct {
	// ZeroFill reports months without transactions as zero. Defaults to true.
	ZeroFill *bool `yaml:"zero_fill,omitempty"`
}

type Config struct {
	// Database is the SQLite file. Defaults to ~/.finance-tracker/finance.db
	Database string `yaml:"database,omitempty"`

	// Currency is an ISO 4217 code. Detected from the system locale when empty.
	Currency string `yaml:"currency,omitempty"`

	// ChartDir is where chart HTML files are written. Defaults to ~/.finance-tracker/charts
	ChartDir string `yaml:"chart_dir,omitempty"`

	// Statement describes the columns of CSV and xlsx statement files
	Statement ColumnLayout `yaml:"statement"`

	// Rules suggest categories during import, first match wins
	Rules []CategoryRule `yaml:"rules,omitempty"`

	// Ignore is a list of ignore rules (can be strings or objects with time bounds)
	Ignore []yaml.Node `yaml:"ignore,omitempty"`

	// Categories replaces the built-in starter categories when a database is created
	Categories []SeedCategory `yaml:"categories,omitempty"`

	Trends TrendsConfig `yaml:"trends,omitempty"`

	ignoreRules []IgnoreRule `yaml:"-"`
}

// DefaultConfigDir returns ~/.finance-tracker
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finance-tracker"
	}
	return filepath.Join(home, ".finance-tracker")
}

// DefaultConfigPath returns the default config file path (~/.finance-tracker/config.yaml)
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// NewDefaultConfig creates a config with the default statement layout.
// Use this when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Statement: DefaultColumnLayout(),
	}
}

// LoadConfig reads and validates the config file at path. Keys missing from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads path, falling back to defaults when path is the
// default location and no file exists there. An explicitly given file must exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
	}
	return LoadConfig(path)
}

func (c *Config) compile() error {
	if err := c.Statement.Validate(); err != nil {
		return fmt.Errorf("invalid statement layout: %w", err)
	}

	for i := range c.Rules {
		if c.Rules[i].Category == "" {
			return fmt.Errorf("rule %q has no category", c.Rules[i].Pattern+c.Rules[i].Match)
		}
		if c.Rules[i].Pattern != "" && c.Rules[i].Match != "" {
			return fmt.Errorf("rule for %s sets both pattern and match", c.Rules[i].Category)
		}
		if c.Rules[i].Pattern == "" {
			if c.Rules[i].Match == "" {
				return fmt.Errorf("rule for %s needs a pattern or a match", c.Rules[i].Category)
			}
			c.Rules[i].Match = strings.ToUpper(c.Rules[i].Match)
			continue
		}
		re, err := regexp.Compile("(?i)" + c.Rules[i].Pattern) // case-insensitive
		if err != nil {
			return fmt.Errorf("invalid rule pattern %q: %w", c.Rules[i].Pattern, err)
		}
		c.Rules[i].regex = re
	}

	// Parse ignore rules (supports both strings and objects)
	c.ignoreRules = nil
	for _, node := range c.Ignore {
		var rule IgnoreRule

		switch node.Kind {
		case yaml.ScalarNode:
			rule.Pattern = node.Value
		case yaml.MappingNode:
			if err := node.Decode(&rule); err != nil {
				return fmt.Errorf("parsing ignore rule: %w", err)
			}
		default:
			return fmt.Errorf("invalid ignore rule format")
		}

		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", rule.Pattern, err)
		}
		rule.regex = re

		if rule.Before != "" {
			t, err := time.Parse(DayLayout, rule.Before)
			if err != nil {
				return fmt.Errorf("invalid 'before' date %q: %w", rule.Before, err)
			}
			rule.beforeDate = t
		}
		if rule.After != "" {
			t, err := time.Parse(DayLayout, rule.After)
			if err != nil {
				return fmt.Errorf("invalid 'after' date %q: %w", rule.After, err)
			}
			rule.afterDate = t
		}

		c.ignoreRules = append(c.ignoreRules, rule)
	}

	for _, sc := range c.Categories {
		if sc.Name == "" {
			return fmt.Errorf("category with empty name in config")
		}
		if !sc.Type.Valid() {
			return fmt.Errorf("category %q has invalid type %q (want one of %v)", sc.Name, sc.Type, SectionOrder)
		}
	}

	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DatabasePath returns the configured database file or the default one
func (c *Config) DatabasePath() string {
	if c == nil || c.Database == "" {
		return filepath.Join(DefaultConfigDir(), "finance.db")
	}
	return c.Database
}

// ChartDirectory returns the configured chart directory or the default one
func (c *Config) ChartDirectory() string {
	if c == nil || c.ChartDir == "" {
		return filepath.Join(DefaultConfigDir(), "charts")
	}
	return c.ChartDir
}

// TrendsZeroFill reports whether trend series include empty months
func (c *Config) TrendsZeroFill() bool {
	return c == nil || c.Trends.ZeroFill == nil || *c.Trends.ZeroFill
}

// SeedCategories returns the categories to insert into an empty database
func (c *Config) SeedCategories() []Category {
	if c == nil || len(c.Categories) == 0 {
		return DefaultCategories
	}
	categories := make([]Category, 0, len(c.Categories))
	for _, sc := range c.Categories {
		categories = append(categories, Category{
			Name:   sc.Name,
			Type:   sc.Type,
			Budget: decimal.NewFromFloat(sc.Budget),
		})
	}
	return categories
}

// MatchRule returns the category of the first rule matching the row, or "" if none does.
func (c *Config) MatchRule(payee string, amount decimal.Decimal) string {
	if c == nil {
		return ""
	}
	for i := range c.Rules {
		if c.Rules[i].Matches(payee, amount) {
			return c.Rules[i].Category
		}
	}
	return ""
}

// Matches returns true if the payee and amount satisfy this rule
func (r *CategoryRule) Matches(payee string, amount decimal.Decimal) bool {
	switch {
	case r.regex != nil:
		if !r.regex.MatchString(payee) {
			return false
		}
	case r.Match != "":
		if !glob.Glob(r.Match, strings.ToUpper(payee)) {
			return false
		}
	default:
		return false
	}

	amt := amount.Abs().InexactFloat64()
	if r.MinAmount != nil && amt < *r.MinAmount {
		return false
	}
	if r.MaxAmount != nil && amt > *r.MaxAmount {
		return false
	}
	return true
}

// ShouldIgnore returns true if the row matches any ignore rule within its time bounds
func (c *Config) ShouldIgnore(row StatementRow) bool {
	if c == nil {
		return false
	}
	for _, rule := range c.ignoreRules {
		if !rule.regex.MatchString(row.Payee) {
			continue
		}
		if !rule.beforeDate.IsZero() && !row.Date.Before(rule.beforeDate) {
			continue
		}
		if !rule.afterDate.IsZero() && row.Date.Before(rule.afterDate) {
			continue
		}
		return true
	}
	return false
}

// GenerateConfigTemplate creates a starter config listing the given categories
// and an example rule for Rent, for the user to edit.
func GenerateConfigTemplate(categories []Category, currency string) *Config {
	cfg := NewDefaultConfig()
	cfg.Currency = currency

	for _, cat := range categories {
		cfg.Categories = append(cfg.Categories, SeedCategory{
			Name:   cat.Name,
			Type:   cat.Type,
			Budget: cat.Budget.InexactFloat64(),
		})
		if cat.Name == "Rent" && len(cfg.Rules) == 0 {
			cfg.Rules = append(cfg.Rules, CategoryRule{Pattern: "^LANDLORD", Category: cat.Name})
		}
	}

	zeroFill := true
	cfg.Trends.ZeroFill = &zeroFill
	return cfg
}
