package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func segmentCmd() *cobra.Command {
	var (
		flags  runFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Segment a contact export and write the enriched rows",
		Long: `Runs one cluster over a HubSpot contact export and writes every cohort
row with its derived columns appended.

Clusters:
  1 / social   k-means engagement split of paid social/search traffic, tagged by platform
  2 / geo      geographic tier x per-tier engagement (segments 2A-2F, 2Z)
  3 / channel  dominant entry channel from APREU promotional activities`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			if format != "csv" && format != "json" {
				return fmt.Errorf("segment: unsupported format %q (use csv or json)", format)
			}
			req, err := flags.request()
			if err != nil {
				return fmt.Errorf("segment: %w", err)
			}
			eng, closeFn, err := newEngine(ctx, logger)
			defer closeFn()
			if err != nil {
				return fmt.Errorf("segment: %w", err)
			}

			res, err := eng.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("segment: %w", err)
			}

			var w io.Writer = os.Stdout
			if output != "" && output != "-" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("segment: creating output file: %w", createErr)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			switch format {
			case "csv":
				if writeErr := res.WriteCSV(w, req.Table); writeErr != nil {
					return fmt.Errorf("segment: %w", writeErr)
				}
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(res); encErr != nil {
					return fmt.Errorf("segment: encoding JSON: %w", encErr)
				}
			}

			if output != "" && output != "-" {
				fmt.Fprintf(os.Stderr, "Segmented %d of %d contacts into %d segments (run %s) -> %s\n",
					res.Run.CohortRows, res.Run.InputRows, len(res.Run.Segments), res.Run.ID, output)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")
	return cmd
}
