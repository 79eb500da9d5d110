package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/model"
	"github.com/finrep-dev/finrep/internal/render"
)

func newDuplicatesCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Review postings held back as potential duplicates",
	}

	cmd.AddCommand(newDuplicatesListCommand(configPath))
	cmd.AddCommand(newDuplicatesResolveCommand(configPath))

	return cmd
}

func newDuplicatesListCommand(configPath *string) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List held duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			dups, err := a.store.Duplicates(model.DuplicateStatus(status))
			if err != nil {
				return err
			}
			if len(dups) == 0 {
				fmt.Println("No duplicates.")
				return nil
			}
			return render.Duplicates(os.Stdout, dups, a.currency())
		},
	}

	cmd.Flags().StringVar(&status, "status", string(model.DuplicatePending), "filter by status (pending, kept, discarded); empty for all")

	return cmd
}

func newDuplicatesResolveCommand(configPath *string) *cobra.Command {
	var keep, discard bool

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Keep or discard a pending duplicate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep == discard {
				return fmt.Errorf("pass exactly one of --keep or --discard")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.ResolveDuplicate(id, keep); err != nil {
				return err
			}
			verb := "Discarded"
			if keep {
				verb = "Kept"
			}
			fmt.Printf("%s duplicate %d\n", verb, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "import the posting anyway")
	cmd.Flags().BoolVar(&discard, "discard", false, "drop the posting")

	return cmd
}
