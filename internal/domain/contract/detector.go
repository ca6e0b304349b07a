package contract

import (
	"sort"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// Detector runs a catalog against masked contract text.
type Detector struct {
	catalog *Catalog
}

// NewDetector binds a detector to a catalog. A nil catalog means DefaultCatalog.
func NewDetector(c *Catalog) *Detector {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Detector{catalog: c}
}

func (d *Detector) Catalog() *Catalog { return d.catalog }

// Detect evaluates every pattern exactly once and returns at most one insight
// per pattern, ordered high, medium, low with catalog order kept among equals.
// The result is never nil.
func (d *Detector) Detect(text string) []types.RiskInsight {
	risks := make([]types.RiskInsight, 0, d.catalog.Len())
	for _, p := range d.catalog.patterns {
		if insight, ok := p.evaluate(text); ok {
			risks = append(risks, insight)
		}
	}
	SortBySeverity(risks)
	return risks
}

// SortBySeverity orders risks in place by severity rank, stable.
func SortBySeverity(risks []types.RiskInsight) {
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.Rank() < risks[j].Severity.Rank()
	})
}
