// Package contract defines the wire types exchanged by the SynthLaw API,
// the CLI and pkg/client. Field names follow the JSON contract consumed by
// existing front-ends, hence the camelCase tags.
package contract

import (
	"time"
)

// Severity is the risk level attached to a detected clause.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for sorting: high 0, medium 1, anything else 2.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// IsValid reports whether s is one of the three defined levels.
func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

func (s Severity) String() string { return string(s) }

// Language keys used inside LocalizedSummary.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangTelugu  = "te"
)

// Translation map keys used by SimplificationInsight.Translations.
const (
	TranslationHindi  = "hindi"
	TranslationTelugu = "telugu"
)

// LocalizedSummary is a one-line plain-language summary in each supported language.
type LocalizedSummary struct {
	EN string `json:"en"`
	HI string `json:"hi"`
	TE string `json:"te"`
}

// Get returns the summary for a language key (en, hi, te).
func (l LocalizedSummary) Get(lang string) string {
	switch lang {
	case LangHindi:
		return l.HI
	case LangTelugu:
		return l.TE
	default:
		return l.EN
	}
}

// RiskNegotiation is a negotiation template resolved against one detection.
type RiskNegotiation struct {
	Goal     string `json:"goal"`
	Proposal string `json:"proposal"`
	Issue    string `json:"issue"`
}

// RiskInsight is one detected risky clause.
type RiskInsight struct {
	ID             string            `json:"id"`
	Clause         string            `json:"clause"`
	Severity       Severity          `json:"severity"`
	Explanation    string            `json:"explanation"`
	LegalReference string            `json:"legalReference"`
	Snippet        string            `json:"snippet,omitempty"`
	Summary        *LocalizedSummary `json:"summary,omitempty"`
	Negotiation    *RiskNegotiation  `json:"negotiation,omitempty"`
	// Meta holds values extracted by custom detectors, e.g. "days".
	Meta map[string]any `json:"meta,omitempty"`
}

// SimplificationInsight is the multi-language plain-text summary.
type SimplificationInsight struct {
	OriginalText   string            `json:"originalText"`
	SimplifiedText string            `json:"simplifiedText"`
	Translations   map[string]string `json:"translations"`
}

// CalendarReminder is a follow-up reminder suggested after negotiation.
type CalendarReminder struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// NegotiationInsight is the negotiation package produced for a contract.
type NegotiationInsight struct {
	Issues           []string          `json:"issues"`
	DraftEmail       string            `json:"draftEmail"`
	UserGoals        []string          `json:"userGoals"`
	CalendarReminder *CalendarReminder `json:"calendarReminder,omitempty"`
}

// Negotiation tones returned by the enrichment collaborator.
const (
	ToneAssertive     = "assertive"
	ToneCollaborative = "collaborative"
	ToneDefensive     = "defensive"
)

type LegalGrounding struct {
	RelevantSections  []string `json:"relevantSections"`
	Precedents        []string `json:"precedents"`
	StandardPractices []string `json:"standardPractices"`
}

type AlternativeLanguage struct {
	Hindi  string `json:"hindi"`
	Telugu string `json:"telugu"`
}

type NegotiationStrategy struct {
	Tone          string `json:"tone"`
	Priority      int    `json:"priority"`
	EmailTemplate string `json:"emailTemplate"`
}

// EnhancedInsight is the optional enrichment payload from the AI collaborator.
type EnhancedInsight struct {
	LegalGrounding      LegalGrounding      `json:"legalGrounding"`
	AlternativeLanguage AlternativeLanguage `json:"alternativeLanguage"`
	NegotiationStrategy NegotiationStrategy `json:"negotiationStrategy"`
}

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	RiskScore      int                   `json:"riskScore"`
	Risks          []RiskInsight         `json:"risks"`
	Simplification SimplificationInsight `json:"simplification"`
	Negotiation    NegotiationInsight    `json:"negotiation"`
	// Enrichment is null whenever the collaborator was unavailable.
	Enrichment *EnhancedInsight `json:"ragInsights"`
}

// ClauseIDs returns the risk ids in result order.
func (r *AnalysisResult) ClauseIDs() []string {
	ids := make([]string, 0, len(r.Risks))
	for _, risk := range r.Risks {
		ids = append(ids, risk.ID)
	}
	return ids
}

// AnalysisCompletedEvent is published once per analysis. It never carries
// contract text or snippets.
type AnalysisCompletedEvent struct {
	EventID    string         `json:"eventId"`
	AnalysisID string         `json:"analysisId"`
	FileName   string         `json:"fileName,omitempty"`
	RiskScore  int            `json:"riskScore"`
	ClauseIDs  []string       `json:"clauseIds"`
	Severities map[string]int `json:"severities"`
	Enriched   bool           `json:"enriched"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// SeverityCounts tallies risks per severity level.
func SeverityCounts(risks []RiskInsight) map[string]int {
	counts := make(map[string]int, 3)
	for _, r := range risks {
		counts[string(r.Severity)]++
	}
	return counts
}

// RiskBand maps an overall score to the band shown to users: 70 and above is
// high, 40 and above medium.
func RiskBand(score int) Severity {
	switch {
	case score >= 70:
		return SeverityHigh
	case score >= 40:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// API request / response bodies
// ─────────────────────────────────────────────────────────────────────────────

// AnalyzeRequest is the JSON body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text      string   `json:"text" validate:"required"`
	FileName  string   `json:"fileName,omitempty" validate:"omitempty,max=255"`
	UserGoals []string `json:"userGoals,omitempty" validate:"omitempty,max=10,dive,max=500"`
}

// AnalyzeResponse wraps an AnalysisResult with its archive identity.
type AnalyzeResponse struct {
	AnalysisID string    `json:"analysisId"`
	FileName   string    `json:"fileName,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	AnalysisResult
}

// TranslateRequest is the JSON body of POST /api/v1/translate.
type TranslateRequest struct {
	Text      string   `json:"text" validate:"required,max=20000"`
	Languages []string `json:"languages,omitempty" validate:"omitempty,dive,oneof=hindi telugu"`
}

// TranslateResponse maps language keys to translated text.
type TranslateResponse struct {
	Translations map[string]string `json:"translations"`
}

// PatternInfo describes one catalog entry for GET /api/v1/patterns.
type PatternInfo struct {
	ID              string   `json:"id"`
	Clause          string   `json:"clause"`
	DefaultSeverity Severity `json:"defaultSeverity"`
	LegalReference  string   `json:"legalReference"`
	Detection       string   `json:"detection"`
}

// PatternsResponse is the body of GET /api/v1/patterns.
type PatternsResponse struct {
	Patterns  []PatternInfo `json:"patterns"`
	Languages string        `json:"languages"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is returned by every failing API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
