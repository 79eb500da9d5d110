package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/export"
	"github.com/finrep-dev/finrep/internal/render"
)

func newRatiosCommand(configPath *string) *cobra.Command {
	var periodName, level string
	var showMeasures, exportCSV bool

	cmd := &cobra.Command{
		Use:   "ratios",
		Short: "Evaluate financial ratios for one period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runRatios(a, periodName, level, showMeasures, exportCSV)
		},
	}

	cmd.Flags().StringVar(&periodName, "period", "fy", "period: fy, ytd, mtd, last-month, last-fy or from:to")
	cmd.Flags().StringVar(&level, "level", "", "ratio level: basic, advanced or full (default from config)")
	cmd.Flags().BoolVar(&showMeasures, "measures", false, "also display the canonical-measure table")
	cmd.Flags().BoolVar(&exportCSV, "export", false, "also write the ratios as a timestamped CSV file")

	return cmd
}

func runRatios(a *app, periodName, levelFlag string, showMeasures, exportCSV bool) error {
	p, err := a.resolvePeriod(periodName)
	if err != nil {
		return err
	}
	level, err := a.ratioLevel(levelFlag)
	if err != nil {
		return err
	}

	res, err := computePeriodAtLevel(a, p, engine.ViewRegular, level)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, level %s\n", a.cfg.Org.Name, p, level)
	if err := render.Ratios(os.Stdout, res.Ratios); err != nil {
		return err
	}
	if showMeasures {
		fmt.Println()
		if err := render.Measures(os.Stdout, res.Measures, a.currency()); err != nil {
			return err
		}
	}

	if exportCSV {
		name := export.Filename("ratios_"+string(level), time.Now())
		if err := export.SaveRatiosCSV(name, res.Ratios); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", name)
	}
	return nil
}
