package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/models"
)

func geoCmd() *cobra.Command {
	var examples bool

	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Show the active geographic configuration",
		Long: `Shows what "domestic" and "local" mean for the geographic segmentation.

Set geo.home_country, geo.home_country_aliases, geo.local_region and
geo.local_aliases in the config file (or LEADSEGMENT_GEO_* variables) to
change them; a change invalidates every cached result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printGeo(cfg.Geo)
			fmt.Println("\nSegments:")
			for _, code := range models.GeoSegments {
				fmt.Printf("  %s\n", cfg.Geo.SegmentName(code))
			}

			if examples {
				fmt.Println("\nExample configurations:")
				for _, ex := range geo.Examples {
					fmt.Printf("\n%s\n", ex.Name)
					printGeo(ex.Config)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&examples, "examples", false, "also print example configurations for other regions")
	return cmd
}

func printGeo(g geo.Config) {
	fmt.Printf("  Home country:    %s (%s)\n", g.HomeCountry, strings.Join(g.HomeAliases, ", "))
	fmt.Printf("  Local region:    %s (%s)\n", g.LocalRegion, strings.Join(g.LocalAliases, ", "))
	for _, t := range models.ValidGeoTiers {
		fmt.Printf("  %-18s %s\n", string(t)+":", g.TierName(t))
	}
}
