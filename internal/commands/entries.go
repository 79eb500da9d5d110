package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/model"
	"github.com/finrep-dev/finrep/internal/render"
	"github.com/finrep-dev/finrep/internal/store"
)

const entryDateFormat = "2006-01-02"

func newEntriesCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Inspect and edit stored ledger entries",
	}

	cmd.AddCommand(newEntriesListCommand(configPath))
	cmd.AddCommand(newEntriesAddCommand(configPath))
	cmd.AddCommand(newEntriesEditCommand(configPath))
	cmd.AddCommand(newEntriesDeleteCommand(configPath))
	cmd.AddCommand(newEntriesRestoreCommand(configPath))

	return cmd
}

func newEntriesListCommand(configPath *string) *cobra.Command {
	var from, to, code, text string
	var includeDeleted bool
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			f := store.Filter{Code: code, Text: text, IncludeDeleted: includeDeleted, Limit: limit, Offset: offset}
			if from != "" {
				d, err := time.Parse(entryDateFormat, from)
				if err != nil {
					return fmt.Errorf("parsing --from: %w", err)
				}
				f.From = &d
			}
			if to != "" {
				d, err := time.Parse(entryDateFormat, to)
				if err != nil {
					return fmt.Errorf("parsing --to: %w", err)
				}
				f.To = &d
			}

			entries, err := a.store.Entries(f)
			if err != nil {
				return err
			}
			return render.Entries(os.Stdout, entries, a.currency())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&code, "code", "", "account-code prefix")
	cmd.Flags().StringVar(&text, "text", "", "description substring")
	cmd.Flags().BoolVar(&includeDeleted, "deleted", false, "include soft-deleted entries")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	return cmd
}

func newEntriesAddCommand(configPath *string) *cobra.Command {
	var dateStr, code, description, amountStr string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			e, err := parseEntry(dateStr, code, description, amountStr)
			if err != nil {
				return err
			}
			id, err := a.store.Add(e)
			if err != nil {
				return err
			}
			fmt.Printf("Added entry %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "entry date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&code, "code", "", "account code (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed amount, credit positive (required)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newEntriesEditCommand(configPath *string) *cobra.Command {
	var dateStr, code, description, amountStr string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; omitted flags keep the stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			existing, err := a.store.Get(id)
			if err != nil {
				return err
			}
			e := existing.Entry
			if dateStr != "" {
				if e.Date, err = time.Parse(entryDateFormat, dateStr); err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
			}
			if code != "" {
				e.Code = code
			}
			if cmd.Flags().Changed("description") {
				e.Description = description
			}
			if amountStr != "" {
				if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
					return fmt.Errorf("parsing --amount: %w", err)
				}
			}

			if err := a.store.Update(id, e); err != nil {
				return err
			}
			fmt.Printf("Updated entry %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&code, "code", "", "account code")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed amount, credit positive")

	return cmd
}

func newEntriesDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete an entry; it leaves all reports but stays recoverable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.SoftDelete(id); err != nil {
				return err
			}
			fmt.Printf("Deleted entry %d\n", id)
			return nil
		},
	}
}

func newEntriesRestoreCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Restore(id); err != nil {
				return err
			}
			fmt.Printf("Restored entry %d\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing id %q: %w", s, err)
	}
	return id, nil
}

func parseEntry(dateStr, code, description, amountStr string) (model.Entry, error) {
	date, err := time.Parse(entryDateFormat, dateStr)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing --date: %w", err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing --amount: %w", err)
	}
	return model.Entry{Date: date, Code: code, Description: description, Amount: amount}, nil
}
