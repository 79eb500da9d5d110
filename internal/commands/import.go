package commands

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finrep-dev/finrep/internal/importer"
	"github.com/finrep-dev/finrep/internal/model"
)

func newImportCommand(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a ledger export CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runImport(a, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format (debit-credit, signed); detected from the header when omitted")

	return cmd
}

func runImport(a *app, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if format != "" && parser == nil {
		return fmt.Errorf("unknown format %q", format)
	}
	if parser == nil {
		header, err := readHeader(data)
		if err != nil {
			return err
		}
		p, ok := registry.Detect(header)
		if !ok {
			return fmt.Errorf("cannot detect format of %s; pass --format", path)
		}
		parser = p
	}

	raw, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	entries := make([]model.Entry, len(raw))
	for i, r := range raw {
		entries[i] = r.Normalize()
	}

	res, err := a.store.Import(path, entries)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d entries from %s (batch %s)\n", res.Imported, path, res.BatchID)
	if res.Duplicates > 0 {
		fmt.Printf("%d potential duplicates held for review; run `finrep duplicates list`\n", res.Duplicates)
	}

	chart, err := a.chart()
	if err != nil {
		return err
	}
	if unknown := chart.Unknown(entries); len(unknown) > 0 {
		fmt.Printf("Unknown account codes: %s\n", strings.Join(unknown, ", "))
	}
	return nil
}

func readHeader(data []byte) ([]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	return header, nil
}
