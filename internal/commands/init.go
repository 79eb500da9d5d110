package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/accounts"
	"github.com/finrep-dev/finrep/internal/config"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finrep project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, "finrep.toml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(filepath.Join(dir, cfg.Paths.Chart)); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	files := map[string]string{
		cfg.Statements[config.RolePrimary].Mapping:   defaultIncomeMapping,
		cfg.Statements[config.RoleSecondary].Mapping: defaultBalanceMapping,
		cfg.Ratios.Rules:                             defaultRatioRules,
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
	}

	fmt.Printf("Initialized finrep project at %s\n", dir)
	return nil
}

// Starter templates follow the class 6/7 layout of the French PCG; the chart
// written next to them labels the same prefixes.
const defaultIncomeMapping = `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Revenue,acc,1,70*,709*,,revenue,
20,2,Rebates and discounts,acc,3,709*,,,,
30,3,Other operating income,acc,2,74*;75*,,,,
40,4,Purchases and external services,acc,2,60*;61*;62*,,,,
50,5,Taxes,acc,3,63*,,,,
60,6,Staff costs,acc,2,64*,,,staff_costs,
70,7,Depreciation and provisions,acc,3,68*,,,,
80,8,Operating result,calc,1,,,=SUM(1;2;3;4;5;6;7),operating_income,
90,9,Financial result,acc,2,66*;76*,,,,
100,10,Exceptional result,acc,2,67*;77*,,,,
110,11,Net result,calc,0,,,=8+9+10,net_income,
`

const defaultBalanceMapping = `display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes
10,1,Fixed assets,acc,2,2*,,,,
20,2,Receivables,acc,3,41*,,,,
30,3,Cash and banks,acc,3,51*;53*,,,,
40,4,Total assets,calc,1,,,=SUM(1;2;3),total_assets,
50,5,Equity,acc,2,10*;11*;12*,,,equity,
60,6,Financial debt,acc,2,16*,,,debt,
70,7,Suppliers,acc,3,40*,,,,
80,8,Total equity and liabilities,calc,1,,,=SUM(5;6;7),,
`

const defaultRatioRules = `[measures.daily_revenue]
label = "Average daily revenue"
formula = "revenue / period_days"

[ratios.basic.net_margin]
label = "Net margin"
formula = "net_income / revenue"
unit = "ratio"

[ratios.basic.staff_share]
label = "Staff costs over revenue"
formula = "-staff_costs / revenue"
unit = "ratio"

[ratios.advanced.debt_to_equity]
label = "Debt to equity"
formula = "debt / equity"
unit = "ratio"

[ratios.full.return_on_assets]
label = "Return on assets"
formula = "net_income / total_assets"
unit = "ratio"
`
