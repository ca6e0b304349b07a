// Package contract holds the contract-risk engine: PII masking, the clause
// pattern catalog, the risk detector and the risk scorer. Everything here is
// pure and safe for concurrent use once constructed.
package contract

import (
	"regexp"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// Metadata carries values extracted by a custom detector, such as day counts.
// Values are ints or strings.
type Metadata map[string]any

// Int returns the integer stored under key.
func (m Metadata) Int(key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

func (m Metadata) clone() map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DetectionOutcome is what a pattern reports when it fires.
type DetectionOutcome struct {
	// Severity overrides the pattern default when non-empty.
	Severity types.Severity
	Snippet  string
	Meta     Metadata
}

// Detection is the strategy a pattern uses to find itself in a text. The two
// implementations are KeywordDetection and CustomDetection.
type Detection interface {
	// Kind is "keywords" or "custom".
	Kind() string
	detect(p *RiskPattern, text string) (DetectionOutcome, bool)
}

// KeywordDetection tries each expression in order. The first match wins with
// the pattern's default severity.
type KeywordDetection struct {
	Patterns []*regexp.Regexp
}

func (KeywordDetection) Kind() string { return "keywords" }

func (k KeywordDetection) detect(p *RiskPattern, text string) (DetectionOutcome, bool) {
	for _, re := range k.Patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return DetectionOutcome{
			Severity: p.DefaultSeverity,
			Snippet:  ExtractSnippet(text, loc[0]),
		}, true
	}
	return DetectionOutcome{}, false
}

// CustomDetection inspects the whole text and decides severity itself.
type CustomDetection struct {
	Detect func(text string) (DetectionOutcome, bool)
}

func (CustomDetection) Kind() string { return "custom" }

func (c CustomDetection) detect(_ *RiskPattern, text string) (DetectionOutcome, bool) {
	if c.Detect == nil {
		return DetectionOutcome{}, false
	}
	return c.Detect(text)
}

// RiskContext is handed to the explanation and issue generators.
type RiskContext struct {
	Severity types.Severity
	Snippet  string
	Meta     Metadata
}

// NegotiationTemplate describes how to push back on a clause.
type NegotiationTemplate struct {
	Issue    func(ctx RiskContext) string
	Goal     string
	Proposal string
}

// RiskPattern is one catalog entry.
type RiskPattern struct {
	ID              string
	Clause          string
	DefaultSeverity types.Severity
	LegalReference  string
	Detection       Detection
	Explain         func(ctx RiskContext) string
	Summary         types.LocalizedSummary
	Negotiation     NegotiationTemplate
}

// Info returns the public description of the pattern.
func (p *RiskPattern) Info() types.PatternInfo {
	kind := ""
	if p.Detection != nil {
		kind = p.Detection.Kind()
	}
	return types.PatternInfo{
		ID:              p.ID,
		Clause:          p.Clause,
		DefaultSeverity: p.DefaultSeverity,
		LegalReference:  p.LegalReference,
		Detection:       kind,
	}
}

// evaluate runs the pattern against text and builds the resulting insight.
func (p *RiskPattern) evaluate(text string) (types.RiskInsight, bool) {
	if p.Detection == nil {
		return types.RiskInsight{}, false
	}
	outcome, ok := p.Detection.detect(p, text)
	if !ok {
		return types.RiskInsight{}, false
	}

	ctx := RiskContext{
		Severity: p.DefaultSeverity,
		Snippet:  outcome.Snippet,
		Meta:     outcome.Meta,
	}
	if outcome.Severity != "" {
		ctx.Severity = outcome.Severity
	}

	insight := types.RiskInsight{
		ID:             p.ID,
		Clause:         p.Clause,
		Severity:       ctx.Severity,
		LegalReference: p.LegalReference,
		Snippet:        ctx.Snippet,
		Meta:           outcome.Meta.clone(),
	}
	if p.Summary != (types.LocalizedSummary{}) {
		summary := p.Summary
		insight.Summary = &summary
	}
	if p.Explain != nil {
		insight.Explanation = p.Explain(ctx)
	}
	if p.Negotiation.Issue != nil || p.Negotiation.Goal != "" || p.Negotiation.Proposal != "" {
		neg := &types.RiskNegotiation{
			Goal:     p.Negotiation.Goal,
			Proposal: p.Negotiation.Proposal,
		}
		if p.Negotiation.Issue != nil {
			neg.Issue = p.Negotiation.Issue(ctx)
		}
		insight.Negotiation = neg
	}
	return insight, true
}
