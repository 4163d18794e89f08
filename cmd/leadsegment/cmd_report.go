package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		flags  runFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the aggregate report of a segmentation run",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			req, err := flags.request()
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			eng, closeFn, err := newEngine(ctx, logger)
			defer closeFn()
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			res, err := eng.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				out := struct {
					Run    models.RunInfo `json:"run"`
					Report report.Report  `json:"report"`
				}{res.Run, res.Report}
				if encErr := enc.Encode(out); encErr != nil {
					return fmt.Errorf("report: encoding JSON: %w", encErr)
				}
				return nil
			}
			printReport(os.Stdout, res.Run, res.Report)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, run models.RunInfo, rep report.Report) {
	fmt.Fprintf(w, "Run %s (cluster %d, %s)\n", run.ID, int(run.Cluster), run.Cluster)
	if run.Cached {
		fmt.Fprintln(w, "  served from cache")
	}
	fmt.Fprintf(w, "Input rows: %d  after filters: %d  cohort: %d\n", run.InputRows, run.FilteredRows, run.CohortRows)
	if len(run.Filters) > 0 {
		fmt.Fprintf(w, "Filters: %s\n", strings.Join(run.Filters, "; "))
	}
	fmt.Fprintf(w, "Closed: %d  close rate: %s\n\n", rep.Closed, pct(rep.CloseRate))

	if len(rep.Groups) == 0 {
		fmt.Fprintln(w, "No contacts matched the cohort.")
		return
	}
	printGroups(w, "Segment", rep.Groups)
	if rep.Secondary != nil {
		fmt.Fprintf(w, "\nBy %s:\n", rep.Secondary.Dimension)
		printGroups(w, "Group", rep.Secondary.Groups)
	}

	fmt.Fprintln(w, "\nTime to close:")
	for _, b := range report.TTCBuckets {
		fmt.Fprintf(w, "  %-24s %d\n", b, rep.TTC[b])
	}

	if len(rep.Engagement) > 0 {
		fmt.Fprintln(w, "\nEngagement bands:")
		for _, b := range rep.Engagement {
			fmt.Fprintf(w, "  %-18s %7d  close %s\n", b.Band, b.Count, pct(b.CloseRate))
		}
	}
}

func printGroups(w io.Writer, title string, groups []report.GroupSummary) {
	fmt.Fprintf(w, "  %-48s %7s %7s %7s %9s %12s %s\n", title, "Count", "Share", "Closed", "Close %", "Median TTC", "Top stage")
	for _, g := range groups {
		fmt.Fprintf(w, "  %-48s %7d %7s %7d %9s %12s %s\n",
			truncate(g.Group, 48), g.Count, pct(g.Share), g.Closed, pct(g.CloseRate), num(g.MedianDaysToClose), g.TopLifecycle)
	}
}

// pct formats a value already expressed in percent.
func pct(n report.Number) string {
	if !n.Valid() {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n))
}

func num(n report.Number) string {
	if !n.Valid() {
		return "-"
	}
	return fmt.Sprintf("%.0f", float64(n))
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
