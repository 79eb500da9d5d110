package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/finrep-dev/finrep/internal/accounts"
	"github.com/finrep-dev/finrep/internal/config"
	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/multiperiod"
	"github.com/finrep-dev/finrep/internal/period"
	"github.com/finrep-dev/finrep/internal/ratios"
	"github.com/finrep-dev/finrep/internal/store"
)

// app bundles the loaded project state a command works against. Relative
// paths in the configuration resolve against the configuration's directory.
type app struct {
	cfg *config.Config
	dir string

	store *store.Store
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, dir: filepath.Dir(configPath)}

	a.store, err = store.Open(a.path(cfg.Paths.Database))
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

func (a *app) currency() string {
	return a.cfg.Org.Currency
}

// chart loads the chart of accounts, or an empty service when no chart is
// configured.
func (a *app) chart() (*accounts.Service, error) {
	if a.cfg.Paths.Chart == "" {
		return accounts.NewService(nil), nil
	}
	return accounts.Load(a.path(a.cfg.Paths.Chart))
}

// runner assembles the reporting pipeline from the configured templates,
// rules and chart.
func (a *app) runner() (*multiperiod.Runner, error) {
	primary, err := mapping.LoadTemplate(a.path(a.cfg.Statements[config.RolePrimary].Mapping))
	if err != nil {
		return nil, err
	}

	var secondary *mapping.Template
	if p := a.cfg.SecondaryMapping(); p != "" {
		secondary, err = mapping.LoadTemplate(a.path(p))
		if err != nil {
			return nil, err
		}
	}

	var rules *ratios.RuleSet
	if a.cfg.Ratios.Rules != "" {
		rules, err = ratios.LoadRules(a.path(a.cfg.Ratios.Rules))
		if err != nil {
			return nil, err
		}
	}

	chart, err := a.chart()
	if err != nil {
		return nil, err
	}

	return &multiperiod.Runner{
		Primary:   primary,
		Secondary: secondary,
		Rules:     rules,
		Authority: engineAuthority(a.cfg.Measures.Authority),
		External:  a.cfg.ExternalMeasures(),
		Names:     chart,
	}, nil
}

// engineAuthority translates the configured statement roles (income/balance)
// into the engine's primary/secondary vocabulary. Config validation has
// already rejected any other role name.
func engineAuthority(authority map[string]string) map[string]string {
	if len(authority) == 0 {
		return nil
	}
	out := make(map[string]string, len(authority))
	for measure, role := range authority {
		switch role {
		case config.RolePrimary:
			out[measure] = engine.SourcePrimary
		case config.RoleSecondary:
			out[measure] = engine.SourceSecondary
		}
	}
	return out
}

// resolvePeriod turns a CLI period name into a concrete period using the
// configured fiscal-year start and today as the reference date.
func (a *app) resolvePeriod(name string) (period.Period, error) {
	return period.Derive(name, time.Now().UTC(), a.cfg.FiscalYearStart())
}

// ratioLevel resolves the requested ratio level, falling back to the
// configured default, then to basic.
func (a *app) ratioLevel(flag string) (ratios.Level, error) {
	name := flag
	if name == "" {
		name = a.cfg.Ratios.Level
	}
	if name == "" {
		return ratios.LevelBasic, nil
	}
	l, err := ratios.ParseLevel(name)
	if err != nil {
		return "", fmt.Errorf("resolving ratio level: %w", err)
	}
	return l, nil
}
