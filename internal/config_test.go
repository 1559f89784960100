package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database: /tmp/ledger.db
currency: SEK
statement:
  skip_rows: 1
  date_format: "02.01.2006"
  decimal_comma: true
rules:
  - pattern: "^landlord"
    category: Rent
  - pattern: "netflix"
    category: Subscriptions
    min_amount: 5
    max_amount: 20
ignore:
  - "^TRANSFER"
  - pattern: "^SAVINGS"
    before: "2024-01-01"
  - pattern: "^BROKER"
    after: "2024-06-01"
categories:
  - name: Salary
    type: Income
    budget: 3000
  - name: Groceries
    type: Spending
    budget: 350.5
trends:
  zero_fill: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DatabasePath() != "/tmp/ledger.db" || cfg.Currency != "SEK" {
		t.Errorf("database/currency = %q/%q", cfg.DatabasePath(), cfg.Currency)
	}

	// Keys missing from the file keep their defaults
	layout := cfg.Statement
	if layout.SkipRows != 1 || layout.DateFormat != "02.01.2006" || !layout.DecimalComma {
		t.Errorf("statement layout = %+v", layout)
	}
	if layout.Payee != 4 || layout.Amount != 6 || layout.Description != -1 {
		t.Errorf("unset columns should keep defaults, got %+v", layout)
	}

	if cfg.TrendsZeroFill() {
		t.Error("TrendsZeroFill() = true, want false")
	}

	seed := cfg.SeedCategories()
	if len(seed) != 2 || seed[1].Name != "Groceries" || !seed[1].Budget.Equal(dec("350.5")) {
		t.Errorf("SeedCategories() = %+v", seed)
	}
}

func TestConfig_MatchRule(t *testing.T) {
	path := writeConfig(t, `
rules:
  - pattern: "^landlord"
    category: Rent
  - pattern: "netflix"
    category: Subscriptions
    min_amount: 5
    max_amount: 20
  - pattern: "netflix"
    category: Entertainment
  - match: "*corner*"
    category: Groceries
  - match: "pizza place"
    category: Dining Out
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		payee  string
		amount string
		want   string
	}{
		{"LANDLORD LLC", "-700", "Rent"},
		{"MY LANDLORD", "-700", ""},
		{"NETFLIX.COM", "-12.99", "Subscriptions"},
		{"NETFLIX.COM", "-4.99", "Entertainment"},
		{"NETFLIX.COM", "-25", "Entertainment"},
		{"THE CORNER SHOP", "-5", "Groceries"},
		{"Pizza Place", "-18", "Dining Out"},
		{"PIZZA PLACE 2", "-18", ""},
		{"BOOK STORE", "-5", ""},
	}
	for _, tt := range tests {
		if got := cfg.MatchRule(tt.payee, dec(tt.amount)); got != tt.want {
			t.Errorf("MatchRule(%q, %s) = %q, want %q", tt.payee, tt.amount, got, tt.want)
		}
	}

	var nilConfig *Config
	if got := nilConfig.MatchRule("LANDLORD", dec("1")); got != "" {
		t.Errorf("nil config MatchRule = %q, want empty", got)
	}
}

func TestConfig_ShouldIgnore(t *testing.T) {
	path := writeConfig(t, `
ignore:
  - "^TRANSFER"
  - pattern: "^SAVINGS"
    before: "2024-01-01"
  - pattern: "^BROKER"
    after: "2024-06-01"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		payee string
		date  string
		want  bool
	}{
		{"TRANSFER TO SAVINGS", "2024-03-01", true},
		{"transfer", "2020-01-01", true},
		{"SAVINGS ACCOUNT", "2023-12-31", true},
		{"SAVINGS ACCOUNT", "2024-01-01", false},
		{"BROKER INC", "2024-05-31", false},
		{"BROKER INC", "2024-06-01", true},
		{"CORNER SHOP", "2024-03-01", false},
	}
	for _, tt := range tests {
		row := StatementRow{Payee: tt.payee, Date: date(tt.date)}
		if got := cfg.ShouldIgnore(row); got != tt.want {
			t.Errorf("ShouldIgnore(%q on %s) = %v, want %v", tt.payee, tt.date, got, tt.want)
		}
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "rules: [", "parsing config file"},
		{"bad rule pattern", "rules:\n  - pattern: \"(\"\n    category: Rent\n", "invalid rule pattern"},
		{"rule without category", "rules:\n  - pattern: \"x\"\n", "has no category"},
		{"rule without pattern", "rules:\n  - category: Rent\n", "needs a pattern or a match"},
		{"rule with pattern and match", "rules:\n  - pattern: x\n    match: \"x*\"\n    category: Rent\n", "both pattern and match"},
		{"bad ignore pattern", "ignore:\n  - \"[\"\n", "invalid ignore pattern"},
		{"bad ignore date", "ignore:\n  - pattern: x\n    before: yesterday\n", "invalid 'before' date"},
		{"ignore list item", "ignore:\n  - [a, b]\n", "invalid ignore rule format"},
		{"bad category type", "categories:\n  - name: Fun\n    type: Leisure\n", "invalid type"},
		{"unnamed category", "categories:\n  - type: Income\n", "empty name"},
		{"negative column", "statement:\n  amount: -2\n", "invalid statement layout"},
		{"no date format", "statement:\n  date_format: \"\"\n", "date_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadConfigOrDefault: %v", err)
	}
	if cfg.Statement != DefaultColumnLayout() {
		t.Errorf("Statement = %+v, want the default layout", cfg.Statement)
	}
	if !cfg.TrendsZeroFill() {
		t.Error("TrendsZeroFill() should default to true")
	}
	if len(cfg.SeedCategories()) != len(DefaultCategories) {
		t.Error("SeedCategories() should default to the starter categories")
	}
	if !strings.HasSuffix(cfg.DatabasePath(), filepath.Join(".finance-tracker", "finance.db")) {
		t.Errorf("DatabasePath() = %q", cfg.DatabasePath())
	}
	if !strings.HasSuffix(cfg.ChartDirectory(), filepath.Join(".finance-tracker", "charts")) {
		t.Errorf("ChartDirectory() = %q", cfg.ChartDirectory())
	}

	if _, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("an explicitly given config file must exist")
	}
}

func TestGenerateConfigTemplate_RoundTrip(t *testing.T) {
	cfg := GenerateConfigTemplate(DefaultCategories, "EUR")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", loaded.Currency)
	}
	if len(loaded.Categories) != len(DefaultCategories) {
		t.Errorf("got %d categories, want %d", len(loaded.Categories), len(DefaultCategories))
	}
	if got := loaded.MatchRule("LANDLORD LLC", dec("-628")); got != "Rent" {
		t.Errorf("template rule matched %q, want Rent", got)
	}
	if !loaded.TrendsZeroFill() {
		t.Error("template should enable zero fill")
	}
	if loaded.Statement != DefaultColumnLayout() {
		t.Errorf("Statement = %+v, want the default layout", loaded.Statement)
	}
}
