package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/config"
	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/export"
	"github.com/finrep-dev/finrep/internal/multiperiod"
	"github.com/finrep-dev/finrep/internal/period"
	"github.com/finrep-dev/finrep/internal/ratios"
	"github.com/finrep-dev/finrep/internal/render"
)

func newReportCommand(configPath *string) *cobra.Command {
	var periodName, viewName, statement string
	var exportCSV bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute and display a statement for one period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runReport(a, periodName, viewName, statement, exportCSV)
		},
	}

	cmd.Flags().StringVar(&periodName, "period", "fy", "period: fy, ytd, mtd, last-month, last-fy or from:to")
	cmd.Flags().StringVar(&viewName, "view", "regular", "view: simplified, regular, detailed or complete")
	cmd.Flags().StringVar(&statement, "statement", config.RolePrimary, "statement to display (income or balance)")
	cmd.Flags().BoolVar(&exportCSV, "export", false, "also write the view as a timestamped CSV file")

	return cmd
}

func runReport(a *app, periodName, viewName, statement string, exportCSV bool) error {
	view, err := engine.ParseView(viewName)
	if err != nil {
		return err
	}
	p, err := a.resolvePeriod(periodName)
	if err != nil {
		return err
	}

	res, err := computePeriod(a, p, view)
	if err != nil {
		return err
	}

	st, vt := res.Primary, res.PrimaryView
	if statement == config.RoleSecondary {
		if res.Secondary == nil {
			return fmt.Errorf("no %s statement configured", config.RoleSecondary)
		}
		st, vt = res.Secondary, res.SecondaryView
	} else if statement != config.RolePrimary {
		return fmt.Errorf("unknown statement %q (want %s or %s)", statement, config.RolePrimary, config.RoleSecondary)
	}

	title := fmt.Sprintf("%s: %s, %d entries", a.cfg.Org.Name, p, res.EntryCount)
	if err := render.View(os.Stdout, title, vt, a.currency()); err != nil {
		return err
	}
	if err := render.Unmapped(os.Stdout, st.Unmapped, a.currency()); err != nil {
		return err
	}

	if exportCSV {
		name := export.Filename(statement+"_"+string(view), time.Now())
		if err := export.SaveViewCSV(name, vt); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", name)
	}
	return nil
}

// computePeriod runs the pipeline for one period at the configured ratio
// level. Measure-merge failures are fatal here; multi-period runs isolate
// them instead.
func computePeriod(a *app, p period.Period, view engine.View) (multiperiod.PeriodResult, error) {
	level, err := a.ratioLevel("")
	if err != nil {
		return multiperiod.PeriodResult{}, err
	}
	return computePeriodAtLevel(a, p, view, level)
}

// computePeriodAtLevel is computePeriod with an explicit ratio level.
func computePeriodAtLevel(a *app, p period.Period, view engine.View, level ratios.Level) (multiperiod.PeriodResult, error) {
	runner, err := a.runner()
	if err != nil {
		return multiperiod.PeriodResult{}, err
	}
	entries, err := a.store.AllForReporting()
	if err != nil {
		return multiperiod.PeriodResult{}, err
	}
	set := runner.Run(entries, multiperiod.Request{
		Periods: []period.Period{p},
		Level:   level,
		View:    view,
	})
	res := set.Results[0]
	return res, res.Err
}
