package geo

import (
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// Location is a contact's consolidated geography. Each part is a normalized
// value or textnorm.Unknown.
type Location struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// Candidate fields, in priority order, for each consolidated part.
var (
	CountryFields = []string{models.FieldPrepCountryBPM, models.FieldIPCountry}
	StateFields   = []string{models.FieldPrepStateBPM, models.FieldStateOfOrigin, models.FieldIPStateRegion}
	CityFields    = []string{models.FieldPrepCityBPM}
)

// aliasedFields are mapped through the state alias table after
// normalization.
var aliasedFields = map[string]bool{
	models.FieldIPStateRegion: true,
	models.FieldPrepStateBPM:  true,
	models.FieldStateOfOrigin: true,
}

// Consolidate coalesces each location part from its candidate fields,
// taking the first value that is not unknown. Absent columns are skipped.
func Consolidate(c models.Contact, states textnorm.AliasTable) Location {
	return Location{
		Country: coalesce(c, CountryFields, states),
		State:   coalesce(c, StateFields, states),
		City:    coalesce(c, CityFields, states),
	}
}

func coalesce(c models.Contact, fields []string, states textnorm.AliasTable) string {
	for _, f := range fields {
		if !c.Has(f) {
			continue
		}
		raw, _ := c.Latest(f)
		v := textnorm.Normalize(raw)
		if aliasedFields[f] && states != nil {
			v = states.Resolve(v)
		}
		if v != textnorm.Unknown {
			return v
		}
	}
	return textnorm.Unknown
}

// Classifier assigns geo tiers under one configuration. Names and aliases
// are folded once at construction.
type Classifier struct {
	cfg          Config
	home         string
	homeAliases  []string
	local        string
	localAliases []string
}

// NewClassifier prepares a classifier for cfg.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		cfg:          cfg,
		home:         textnorm.Fold(cfg.HomeCountry),
		homeAliases:  foldAll(cfg.HomeAliases),
		local:        textnorm.Fold(cfg.LocalRegion),
		localAliases: foldAll(cfg.LocalAliases),
	}
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := textnorm.Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Classify returns exactly one tier for loc, checked in priority order:
// local, domestic_non_local, international, unknown.
func (c *Classifier) Classify(loc Location) models.GeoTier {
	switch {
	case c.isLocal(loc.City) || c.isLocal(loc.State):
		return models.TierLocal
	case c.isHome(loc.Country):
		return models.TierDomesticNonLocal
	case known(loc.Country):
		return models.TierInternational
	default:
		return models.TierUnknown
	}
}

// Rescue backfills an unknown country with the home country when the tier
// was resolved from sub-national signals alone. It reports whether the
// location changed.
func (c *Classifier) Rescue(loc Location, tier models.GeoTier) (Location, bool) {
	if known(loc.Country) {
		return loc, false
	}
	if tier != models.TierLocal && tier != models.TierDomesticNonLocal {
		return loc, false
	}
	loc.Country = textnorm.Normalize(c.cfg.HomeCountry)
	return loc, true
}

func (c *Classifier) isLocal(v string) bool {
	if !known(v) {
		return false
	}
	v = textnorm.Fold(v)
	if c.local != "" && strings.Contains(v, c.local) {
		return true
	}
	for _, a := range c.localAliases {
		if strings.Contains(v, a) {
			return true
		}
	}
	return false
}

func (c *Classifier) isHome(country string) bool {
	if !known(country) {
		return false
	}
	country = textnorm.Fold(country)
	if country == c.home {
		return true
	}
	for _, a := range c.homeAliases {
		if country == a || strings.Contains(country, a) {
			return true
		}
	}
	return false
}

func known(v string) bool {
	return v != "" && v != textnorm.Unknown
}

// ClassifyTier classifies one location under cfg.
func ClassifyTier(loc Location, cfg Config) models.GeoTier {
	return NewClassifier(cfg).Classify(loc)
}
