package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/internal/models"
)

func validateCmd() *cobra.Command {
	var (
		input  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a contact export has the columns each cluster needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := dataset.LoadFile(input)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			v := dataset.Validate(tbl, dataset.DefaultVocabulary)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(v); encErr != nil {
					return fmt.Errorf("validate: encoding JSON: %w", encErr)
				}
			} else {
				fmt.Printf("Rows: %d\n", v.Rows)
				for _, id := range models.ValidClusters {
					status := "ready"
					if !v.Ready[id] {
						status = "missing columns"
					}
					fmt.Printf("  cluster %d (%s): %s\n", int(id), id, status)
				}
				for _, w := range v.Warnings {
					fmt.Printf("  warning: %s\n", w)
				}
			}

			if !v.Valid {
				return fmt.Errorf("validate: missing required columns: %v", v.MissingRequired)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "HubSpot contact export (CSV)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the validation result as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
