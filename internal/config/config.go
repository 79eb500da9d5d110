// Package config loads and writes finrep.toml, the application
// configuration tying together the entry database, mapping templates,
// ratio rules and external measure inputs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Statement roles. The primary statement (income) drives the main report;
// the secondary statement (balance) is optional.
const (
	RolePrimary   = "income"
	RoleSecondary = "balance"
)

// Config represents the top-level finrep.toml configuration.
type Config struct {
	Org        OrgConfig                  `toml:"org"`
	Paths      PathsConfig                `toml:"paths"`
	Statements map[string]StatementConfig `toml:"statements"`
	Ratios     RatiosConfig               `toml:"ratios"`
	Measures   MeasuresConfig             `toml:"measures"`
}

// OrgConfig identifies the reporting entity.
type OrgConfig struct {
	Name            string `toml:"name"`
	Currency        string `toml:"currency"`
	FiscalYearStart int    `toml:"fiscal_year_start"` // month 1..12
}

// PathsConfig locates the entry database and chart of accounts.
type PathsConfig struct {
	Database string `toml:"database"`
	Chart    string `toml:"chart"`
}

// StatementConfig locates one statement's mapping template.
type StatementConfig struct {
	Mapping string `toml:"mapping"`
}

// RatiosConfig locates the ratio-rule file and sets the default level.
type RatiosConfig struct {
	Rules string `toml:"rules"`
	Level string `toml:"level"`
}

// MeasuresConfig carries measure arbitration and external scalar inputs.
// Authority maps a canonical-measure name to the statement role whose value
// wins when both statements tag it. External values (balance-sheet totals,
// headcount) are authoritative and never overwritten by computed measures.
type MeasuresConfig struct {
	Authority map[string]string  `toml:"authority"`
	External  map[string]float64 `toml:"external"`
}

// Load reads a finrep.toml file from disk.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a TOML file.
func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(orgName string) *Config {
	return &Config{
		Org: OrgConfig{
			Name:            orgName,
			Currency:        "EUR",
			FiscalYearStart: 1,
		},
		Paths: PathsConfig{
			Database: "finrep.db",
			Chart:    "chart.csv",
		},
		Statements: map[string]StatementConfig{
			RolePrimary:   {Mapping: "mapping_income.csv"},
			RoleSecondary: {Mapping: "mapping_balance.csv"},
		},
		Ratios: RatiosConfig{
			Rules: "ratios.toml",
			Level: "basic",
		},
	}
}

func (c *Config) validate() error {
	for role := range c.Statements {
		if role != RolePrimary && role != RoleSecondary {
			return fmt.Errorf("config: unknown statement role %q (want %s or %s)", role, RolePrimary, RoleSecondary)
		}
	}
	if _, ok := c.Statements[RolePrimary]; !ok {
		return fmt.Errorf("config: no [statements.%s] mapping configured", RolePrimary)
	}
	if c.Org.FiscalYearStart < 1 || c.Org.FiscalYearStart > 12 {
		return fmt.Errorf("config: fiscal_year_start %d outside 1..12", c.Org.FiscalYearStart)
	}
	for measure, role := range c.Measures.Authority {
		if role != RolePrimary && role != RoleSecondary {
			return fmt.Errorf("config: authority for %q names unknown statement %q", measure, role)
		}
	}
	return nil
}

// FiscalYearStart returns the configured fiscal year start month.
func (c *Config) FiscalYearStart() time.Month {
	return time.Month(c.Org.FiscalYearStart)
}

// ExternalMeasures converts the configured external scalars to decimals.
// The float conversion happens exactly once, at the configuration boundary.
func (c *Config) ExternalMeasures() map[string]decimal.Decimal {
	if len(c.Measures.External) == 0 {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(c.Measures.External))
	for name, v := range c.Measures.External {
		out[name] = decimal.NewFromFloat(v)
	}
	return out
}

// SecondaryMapping returns the secondary statement's mapping path, empty
// when no secondary statement is configured.
func (c *Config) SecondaryMapping() string {
	return c.Statements[RoleSecondary].Mapping
}
