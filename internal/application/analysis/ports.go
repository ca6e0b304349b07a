package analysis

import (
	"context"
	"time"

	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// EmailDrafter writes a negotiation e-mail from issue/proposal pairs.
type EmailDrafter interface {
	DraftEmail(ctx context.Context, req legal_gpt.EmailRequest) (string, error)
}

// Enricher fetches optional legal grounding for a set of risks.
type Enricher interface {
	Enrich(ctx context.Context, req legal_gpt.EnrichmentRequest) (*types.EnhancedInsight, error)
}

// Translator renders a plain-language summary into regional languages.
type Translator interface {
	Translate(ctx context.Context, text string, languages []string) (map[string]string, error)
}

// EventPublisher announces finished analyses.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event *types.AnalysisCompletedEvent) error
}

// Archive stores analysis responses by id. Load returns a not-found error for
// unknown ids.
type Archive interface {
	Save(ctx context.Context, resp *types.AnalyzeResponse) error
	Load(ctx context.Context, id string) (*types.AnalyzeResponse, error)
}

// Metrics records analysis telemetry.
type Metrics interface {
	ObserveAnalysis(score int, risks []types.RiskInsight, took time.Duration)
	IncFallback(path, reason string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveAnalysis(int, []types.RiskInsight, time.Duration) {}
func (noopMetrics) IncFallback(string, string)                            {}
