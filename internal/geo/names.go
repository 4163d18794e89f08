package geo

import (
	"fmt"

	"github.com/ajitpratap0/leadsegment/internal/models"
)

// TierName returns the display name of a tier under c.
func (c Config) TierName(t models.GeoTier) string {
	switch t {
	case models.TierLocal:
		return fmt.Sprintf("Local (%s)", c.LocalRegion)
	case models.TierDomesticNonLocal:
		return fmt.Sprintf("Domestic (non-%s)", c.LocalRegion)
	case models.TierInternational:
		return "International"
	}
	return "Unknown"
}

// SegmentName returns the display name of a cluster 2 segment code.
func (c Config) SegmentName(code string) string {
	switch code {
	case models.SegmentDomesticHigh:
		return fmt.Sprintf("2A: %s (non-%s), High Engagement", c.HomeCountry, c.LocalRegion)
	case models.SegmentDomesticLow:
		return fmt.Sprintf("2B: %s (non-%s), Low Engagement", c.HomeCountry, c.LocalRegion)
	case models.SegmentInternationalHigh:
		return "2C: International, High Engagement"
	case models.SegmentInternationalLow:
		return "2D: International, Low Engagement"
	case models.SegmentLocalHigh:
		return fmt.Sprintf("2E: Local (%s), High Engagement", c.LocalRegion)
	case models.SegmentLocalLow:
		return fmt.Sprintf("2F: Local (%s), Low Engagement", c.LocalRegion)
	}
	return "2Z: Unknown Geography"
}

// Action returns the recommended action for a cluster 2 segment code.
func (c Config) Action(code string) string {
	switch code {
	case models.SegmentDomesticHigh:
		return fmt.Sprintf("Digital engagement + virtual events (%s non-%s)", c.HomeCountry, c.LocalRegion)
	case models.SegmentDomesticLow:
		return fmt.Sprintf("WhatsApp/email pushes (%s non-%s)", c.HomeCountry, c.LocalRegion)
	case models.SegmentInternationalHigh:
		return "Webinars + virtual Q&A (International)"
	case models.SegmentInternationalLow:
		return "Awareness campaigns (International)"
	case models.SegmentLocalHigh:
		return fmt.Sprintf("In-person events + local engagement (Local %s)", c.LocalRegion)
	case models.SegmentLocalLow:
		return fmt.Sprintf("Local nurture + WhatsApp (Local %s)", c.LocalRegion)
	}
	return "Investigate missing geography"
}

// SegmentCode combines a tier and engagement level into a segment code.
func SegmentCode(t models.GeoTier, high bool) string {
	switch t {
	case models.TierDomesticNonLocal:
		if high {
			return models.SegmentDomesticHigh
		}
		return models.SegmentDomesticLow
	case models.TierInternational:
		if high {
			return models.SegmentInternationalHigh
		}
		return models.SegmentInternationalLow
	case models.TierLocal:
		if high {
			return models.SegmentLocalHigh
		}
		return models.SegmentLocalLow
	}
	return models.SegmentNoGeography
}
