package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/export"
	"github.com/finrep-dev/finrep/internal/multiperiod"
	"github.com/finrep-dev/finrep/internal/period"
	"github.com/finrep-dev/finrep/internal/render"
)

func newRunCommand(configPath *string) *cobra.Command {
	var periodNames []string
	var level, viewName string
	var exportCSV bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute measures and ratios over several periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runMulti(a, periodNames, level, viewName, exportCSV)
		},
	}

	cmd.Flags().StringArrayVar(&periodNames, "period", nil, "period to compute; repeatable (required)")
	_ = cmd.MarkFlagRequired("period")
	cmd.Flags().StringVar(&level, "level", "", "ratio level: basic, advanced or full (default from config)")
	cmd.Flags().StringVar(&viewName, "view", "regular", "view: simplified, regular, detailed or complete")
	cmd.Flags().BoolVar(&exportCSV, "export", false, "also write the long-format results as a timestamped CSV file")

	return cmd
}

func runMulti(a *app, periodNames []string, levelFlag, viewName string, exportCSV bool) error {
	view, err := engine.ParseView(viewName)
	if err != nil {
		return err
	}
	lvl, err := a.ratioLevel(levelFlag)
	if err != nil {
		return err
	}

	periods := make([]period.Period, 0, len(periodNames))
	for _, name := range periodNames {
		p, err := a.resolvePeriod(name)
		if err != nil {
			return err
		}
		periods = append(periods, p)
	}

	runner, err := a.runner()
	if err != nil {
		return err
	}
	entries, err := a.store.AllForReporting()
	if err != nil {
		return err
	}

	set := runner.Run(entries, multiperiod.Request{Periods: periods, Level: lvl, View: view})

	if err := render.LongRows(os.Stdout, set.Rows()); err != nil {
		return err
	}
	for _, failed := range set.Failed() {
		fmt.Fprintf(os.Stderr, "period %s failed: %v\n", failed.Period.Label, failed.Err)
	}

	if exportCSV {
		name := export.Filename("run_"+string(lvl), time.Now())
		if err := export.SaveLongCSV(name, set.Rows()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", name)
	}
	return nil
}
