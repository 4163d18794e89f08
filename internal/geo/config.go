// Package geo classifies contacts into geographic tiers relative to a
// configurable home country and local region.
package geo

import (
	"errors"
	"fmt"
	"strings"
)

// Config defines what "domestic" and "local" mean for an organization.
type Config struct {
	HomeCountry  string   `json:"home_country" mapstructure:"home_country"`
	HomeAliases  []string `json:"home_country_aliases" mapstructure:"home_country_aliases"`
	LocalRegion  string   `json:"local_region" mapstructure:"local_region"`
	LocalAliases []string `json:"local_aliases" mapstructure:"local_aliases"`
}

// DefaultConfig returns the Mexico / Querétaro configuration.
func DefaultConfig() Config {
	return Config{
		HomeCountry:  "Mexico",
		HomeAliases:  []string{"mexico", "mx", "mex"},
		LocalRegion:  "Querétaro",
		LocalAliases: []string{"queretaro", "qro", "santiago de queretaro"},
	}
}

// Example is a named ready-made configuration.
type Example struct {
	Name   string `json:"name"`
	Config Config `json:"config"`
}

// Examples lists configurations for a few other regions.
var Examples = []Example{
	{Name: "Mexico (Querétaro)", Config: Config{
		HomeCountry:  "Mexico",
		HomeAliases:  ParseAliases("mexico, mx, mex"),
		LocalRegion:  "Querétaro",
		LocalAliases: ParseAliases("queretaro, qro, queretaro de arteaga"),
	}},
	{Name: "USA (California)", Config: Config{
		HomeCountry:  "United States",
		HomeAliases:  ParseAliases("usa, us, united states, america"),
		LocalRegion:  "California",
		LocalAliases: ParseAliases("california, ca, san francisco, sf, los angeles, la"),
	}},
	{Name: "Brazil (São Paulo)", Config: Config{
		HomeCountry:  "Brazil",
		HomeAliases:  ParseAliases("brazil, brasil, br"),
		LocalRegion:  "São Paulo",
		LocalAliases: ParseAliases("sao paulo, são paulo, sp, sampa"),
	}},
	{Name: "Spain (Madrid)", Config: Config{
		HomeCountry:  "Spain",
		HomeAliases:  ParseAliases("spain, españa, es"),
		LocalRegion:  "Madrid",
		LocalAliases: ParseAliases("madrid, comunidad de madrid"),
	}},
}

// ParseAliases splits a comma-separated alias list, trimming and
// lowercasing each entry and dropping empties.
func ParseAliases(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HomeCountry) == "" {
		errs = append(errs, errors.New("home_country must not be empty"))
	}
	if strings.TrimSpace(c.LocalRegion) == "" {
		errs = append(errs, errors.New("local_region must not be empty"))
	}
	for _, a := range c.HomeAliases {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.New("home_country_aliases must not contain empty entries"))
			break
		}
	}
	for _, a := range c.LocalAliases {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.New("local_aliases must not contain empty entries"))
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("geo config: %w", errors.Join(errs...))
	}
	return nil
}
