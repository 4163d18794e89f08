package segment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ajitpratap0/leadsegment/internal/models"
)

// ClosureFilter selects contacts by close date presence.
type ClosureFilter string

const (
	ClosureAll    ClosureFilter = "all"
	ClosureClosed ClosureFilter = "closed"
	ClosureOpen   ClosureFilter = "open"
)

// ParseClosure accepts all, closed or open.
func ParseClosure(s string) (ClosureFilter, error) {
	switch ClosureFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClosureAll:
		return ClosureAll, nil
	case ClosureClosed:
		return ClosureClosed, nil
	case ClosureOpen:
		return ClosureOpen, nil
	}
	return "", fmt.Errorf("unknown closure filter %q (use all, closed or open)", s)
}

// Filters narrow the contact set before any cluster runs. Zero values
// select everything.
type Filters struct {
	// Periods are readable academic periods such as "2025 Fall".
	Periods         []string      `json:"periods,omitempty"`
	Closure         ClosureFilter `json:"closure,omitempty"`
	LifecycleStages []string      `json:"lifecycle_stages,omitempty"`
}

// Apply returns the contacts passing every filter and a description of the
// filters that took effect. A filter on a column the export lacks is
// skipped.
func (f Filters) Apply(contacts []models.Contact) ([]models.Contact, []string) {
	var applied []string
	out := contacts

	if len(f.Periods) > 0 && hasField(out, models.FieldEntryPeriod) {
		want := toSet(f.Periods)
		out = keep(out, func(c models.Contact) bool {
			v, _ := c.Latest(models.FieldEntryPeriod)
			return want[ReadablePeriod(v)]
		})
		applied = append(applied, "Period: "+summarize(f.Periods, 2))
	}

	if f.Closure == ClosureClosed || f.Closure == ClosureOpen {
		if hasField(out, models.FieldCloseDate) {
			wantClosed := f.Closure == ClosureClosed
			out = keep(out, func(c models.Contact) bool {
				_, ok := c.Latest(models.FieldCloseDate)
				return ok == wantClosed
			})
			if wantClosed {
				applied = append(applied, "Closed Only")
			} else {
				applied = append(applied, "Open Only")
			}
		}
	}

	if len(f.LifecycleStages) > 0 && hasField(out, models.FieldLifecycleStage) {
		want := toSet(f.LifecycleStages)
		out = keep(out, func(c models.Contact) bool {
			v, _ := c.Latest(models.FieldLifecycleStage)
			return want[v]
		})
		applied = append(applied, "Lifecycle (latest): "+summarize(f.LifecycleStages, 3))
	}
	return out, applied
}

func hasField(contacts []models.Contact, field string) bool {
	return len(contacts) > 0 && contacts[0].Has(field)
}

func keep(in []models.Contact, pred func(models.Contact) bool) []models.Contact {
	out := make([]models.Contact, 0, len(in))
	for _, c := range in {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func summarize(values []string, n int) string {
	if len(values) <= n {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(values[:n], ", "), len(values)-n)
}

// periodNames maps the two-digit period code of a YYYYMM value.
var periodNames = map[int]string{
	5:  "Special",
	10: "Spring",
	35: "Summer",
	60: "Fall",
	75: "Winter/Special",
}

// ReadablePeriod converts a YYYYMM academic period code into "YYYY
// Semester". Unrecognized codes keep the year: "2025 Unknown(40)". Missing
// or malformed input is "Unknown".
func ReadablePeriod(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "unknown") {
		return models.LabelUnknown
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f < 1e6 {
		s = strconv.Itoa(int(f))
	}
	if len(s) != 6 {
		return models.LabelUnknown
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return models.LabelUnknown
	}
	code, err := strconv.Atoi(s[4:])
	if err != nil {
		return models.LabelUnknown
	}
	name, ok := periodNames[code]
	if !ok {
		name = fmt.Sprintf("Unknown(%d)", code)
	}
	return fmt.Sprintf("%d %s", year, name)
}
