package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/segment"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// runFlags are the flags shared by commands that run a segmentation.
type runFlags struct {
	cluster      string
	input        string
	homeCountry  string
	homeAliases  string
	localRegion  string
	localAliases string
	periods      []string
	closure      string
	lifecycle    []string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.cluster, "cluster", "c", "", "cluster: 1/social, 2/geo or 3/channel")
	fl.StringVarP(&f.input, "input", "i", "", "HubSpot contact export (CSV)")
	fl.StringVar(&f.homeCountry, "home-country", "", "override geo.home_country")
	fl.StringVar(&f.homeAliases, "home-aliases", "", "override geo.home_country_aliases (comma-separated)")
	fl.StringVar(&f.localRegion, "local-region", "", "override geo.local_region")
	fl.StringVar(&f.localAliases, "local-aliases", "", "override geo.local_aliases (comma-separated)")
	fl.StringArrayVar(&f.periods, "period", nil, "keep only this academic period, e.g. \"2025 Fall\" (repeatable)")
	fl.StringVar(&f.closure, "closure", "all", "closure filter: all, closed or open")
	fl.StringArrayVar(&f.lifecycle, "lifecycle", nil, "keep only this latest lifecycle stage (repeatable)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("input")
}

func (f *runFlags) geoConfig() geo.Config {
	g := cfg.Geo
	if f.homeCountry != "" {
		g.HomeCountry = f.homeCountry
	}
	if f.homeAliases != "" {
		g.HomeAliases = geo.ParseAliases(f.homeAliases)
	}
	if f.localRegion != "" {
		g.LocalRegion = f.localRegion
	}
	if f.localAliases != "" {
		g.LocalAliases = geo.ParseAliases(f.localAliases)
	}
	return g
}

// request loads the input and assembles a segmentation request.
func (f *runFlags) request() (segment.Request, error) {
	cluster, err := models.ParseCluster(f.cluster)
	if err != nil {
		return segment.Request{}, err
	}
	closure, err := segment.ParseClosure(f.closure)
	if err != nil {
		return segment.Request{}, err
	}
	tbl, err := dataset.LoadFile(f.input)
	if err != nil {
		return segment.Request{}, fmt.Errorf("reading input: %w", err)
	}
	return segment.Request{
		Cluster:    cluster,
		Table:      tbl,
		Vocabulary: dataset.DefaultVocabulary,
		Geo:        f.geoConfig(),
		States:     textnorm.DefaultStateAliases(),
		Options:    cfg.Segment.Options(),
		Filters: segment.Filters{
			Periods:         f.periods,
			Closure:         closure,
			LifecycleStages: f.lifecycle,
		},
	}, nil
}
