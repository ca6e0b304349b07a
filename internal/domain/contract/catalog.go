package contract

import (
	"fmt"
	"sync"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

// Heuristic cut-offs used by the custom detectors.
const (
	DefaultPaymentHighDays    = 60
	DefaultPaymentMediumDays  = 45
	DefaultTerminationGapDays = 14
)

// Thresholds controls severity derivation in the custom detectors.
type Thresholds struct {
	// Payment delays of at least PaymentHighDays are high severity, at least
	// PaymentMediumDays medium, anything shorter low.
	PaymentHighDays   int `mapstructure:"payment_high_days" json:"paymentHighDays"`
	PaymentMediumDays int `mapstructure:"payment_medium_days" json:"paymentMediumDays"`
	// A provider/client notice gap of at least TerminationGapDays is medium,
	// a smaller positive gap is low.
	TerminationGapDays int `mapstructure:"termination_gap_days" json:"terminationGapDays"`
}

// TerminationAnchors are the phrases that introduce each side's notice period.
// Matching is case-insensitive and any whitespace run matches a space.
type TerminationAnchors struct {
	Client   []string `mapstructure:"client" json:"client"`
	Provider []string `mapstructure:"provider" json:"provider"`
}

// CatalogOptions tunes the built-in catalog.
type CatalogOptions struct {
	Thresholds         Thresholds         `mapstructure:"thresholds"`
	TerminationAnchors TerminationAnchors `mapstructure:"termination_anchors"`
}

// DefaultCatalogOptions returns the stock thresholds and anchors.
func DefaultCatalogOptions() CatalogOptions {
	return CatalogOptions{
		Thresholds: Thresholds{
			PaymentHighDays:    DefaultPaymentHighDays,
			PaymentMediumDays:  DefaultPaymentMediumDays,
			TerminationGapDays: DefaultTerminationGapDays,
		},
		TerminationAnchors: TerminationAnchors{
			Client:   []string{"may terminate"},
			Provider: []string{"service provider"},
		},
	}
}

// WithDefaults fills zero values from DefaultCatalogOptions.
func (o CatalogOptions) WithDefaults() CatalogOptions {
	d := DefaultCatalogOptions()
	if o.Thresholds.PaymentHighDays == 0 {
		o.Thresholds.PaymentHighDays = d.Thresholds.PaymentHighDays
	}
	if o.Thresholds.PaymentMediumDays == 0 {
		o.Thresholds.PaymentMediumDays = d.Thresholds.PaymentMediumDays
	}
	if o.Thresholds.TerminationGapDays == 0 {
		o.Thresholds.TerminationGapDays = d.Thresholds.TerminationGapDays
	}
	if len(o.TerminationAnchors.Client) == 0 {
		o.TerminationAnchors.Client = d.TerminationAnchors.Client
	}
	if len(o.TerminationAnchors.Provider) == 0 {
		o.TerminationAnchors.Provider = d.TerminationAnchors.Provider
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o CatalogOptions) Validate() error {
	t := o.Thresholds
	if t.PaymentMediumDays <= 0 || t.PaymentHighDays <= t.PaymentMediumDays {
		return errors.New(errors.ErrCodeCatalogInvalid, "payment thresholds must satisfy 0 < medium < high").
			WithDetail(fmt.Sprintf("medium=%d high=%d", t.PaymentMediumDays, t.PaymentHighDays))
	}
	if t.TerminationGapDays <= 0 {
		return errors.New(errors.ErrCodeCatalogInvalid, "termination gap must be positive")
	}
	for _, a := range append(append([]string{}, o.TerminationAnchors.Client...), o.TerminationAnchors.Provider...) {
		if CollapseWhitespace(a) == "" {
			return errors.New(errors.ErrCodeCatalogInvalid, "termination anchors must not be blank")
		}
	}
	return nil
}

// Catalog is the immutable, ordered registry of risk patterns.
type Catalog struct {
	patterns []*RiskPattern
	byID     map[string]*RiskPattern
	options  CatalogOptions
}

// NewCatalog builds the built-in catalog tuned by opts. Zero-valued fields
// fall back to the defaults.
func NewCatalog(opts CatalogOptions) (*Catalog, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return newCatalogFromPatterns(builtinPatterns(opts), opts)
}

func newCatalogFromPatterns(patterns []*RiskPattern, opts CatalogOptions) (*Catalog, error) {
	c := &Catalog{
		patterns: patterns,
		byID:     make(map[string]*RiskPattern, len(patterns)),
		options:  opts,
	}
	for _, p := range patterns {
		if p.ID == "" || p.Detection == nil {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "pattern needs an id and a detection strategy").
				WithDetail(p.Clause)
		}
		if !p.DefaultSeverity.IsValid() {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "invalid default severity").WithDetail(p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "duplicate pattern id").WithDetail(p.ID)
		}
		c.byID[p.ID] = p
	}
	return c, nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the process-wide catalog built with default options.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewCatalog(DefaultCatalogOptions())
		if err != nil {
			panic(fmt.Sprintf("contract: default catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Patterns returns the patterns in declaration order. The slice is a copy;
// the patterns themselves must not be modified.
func (c *Catalog) Patterns() []*RiskPattern {
	out := make([]*RiskPattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Lookup finds a pattern by id.
func (c *Catalog) Lookup(id string) (*RiskPattern, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Len() int { return len(c.patterns) }

// Options returns the effective options the catalog was built with.
func (c *Catalog) Options() CatalogOptions { return c.options }
