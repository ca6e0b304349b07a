// Package analysis orchestrates one contract analysis: masking, detection,
// scoring, the simplification and negotiation builders, and the optional
// generative paths.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SynthLaw/internal/domain/contract"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// Fallback paths reported to Metrics.IncFallback.
const (
	PathNegotiation = "negotiation"
	PathEnrichment  = "enrichment"
)

// Config tunes the service.
type Config struct {
	// MaxTextBytes rejects larger inputs with CONTRACT_003.
	MaxTextBytes int `mapstructure:"max_text_bytes" json:"max_text_bytes"`
	// EnrichmentExcerpt bounds the masked text sent for enrichment, in characters.
	EnrichmentExcerpt int `mapstructure:"enrichment_excerpt" json:"enrichment_excerpt"`
	// MaxEmailRisks bounds the high/medium risks sent for e-mail drafting.
	MaxEmailRisks int `mapstructure:"max_email_risks" json:"max_email_risks"`

	Catalog contract.CatalogOptions `mapstructure:"catalog" json:"catalog"`
}

// DefaultConfig returns the stock limits.
func DefaultConfig() Config {
	return Config{
		MaxTextBytes:      10 << 20,
		EnrichmentExcerpt: 2000,
		MaxEmailRisks:     legal_gpt.MaxEmailPoints,
		Catalog:           contract.DefaultCatalogOptions(),
	}
}

// Option configures a Service.
type Option func(*Service)

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		d := DefaultConfig()
		if cfg.MaxTextBytes <= 0 {
			cfg.MaxTextBytes = d.MaxTextBytes
		}
		if cfg.EnrichmentExcerpt <= 0 {
			cfg.EnrichmentExcerpt = d.EnrichmentExcerpt
		}
		if cfg.MaxEmailRisks <= 0 {
			cfg.MaxEmailRisks = d.MaxEmailRisks
		}
		s.cfg = cfg
	}
}

func WithEmailDrafter(d EmailDrafter) Option { return func(s *Service) { s.drafter = d } }
func WithEnricher(e Enricher) Option         { return func(s *Service) { s.enricher = e } }
func WithTranslator(t Translator) Option     { return func(s *Service) { s.translator = t } }
func WithPublisher(p EventPublisher) Option  { return func(s *Service) { s.publisher = p } }
func WithArchive(a Archive) Option           { return func(s *Service) { s.archive = a } }
func WithMetrics(m Metrics) Option           { return func(s *Service) { s.metrics = m } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	cfg        Config
	detector   *contract.Detector
	logger     logging.Logger
	drafter    EmailDrafter
	enricher   Enricher
	translator Translator
	publisher  EventPublisher
	archive    Archive
	metrics    Metrics
	now        func() time.Time
	newID      func() string
}

// NewService creates the service. A nil detector uses the default catalog.
func NewService(detector *contract.Detector, logger logging.Logger, opts ...Option) *Service {
	if detector == nil {
		detector = contract.NewDetector(nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		cfg:      DefaultConfig(),
		detector: detector,
		logger:   logger.Named("analysis"),
		metrics:  noopMetrics{},
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full pipeline on raw contract text. The only error is
// invalid input; every collaborator failure falls back silently.
func (s *Service) Analyze(ctx context.Context, text string, userGoals []string) (*types.AnalysisResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeContractEmpty, "contract text is empty")
	}
	if len(trimmed) > s.cfg.MaxTextBytes {
		return nil, errors.New(errors.ErrCodeContractTooLarge, "contract text is too large")
	}

	start := s.now()
	masked := contract.MaskSensitiveData(trimmed)
	risks := s.detector.Detect(masked)

	result := &types.AnalysisResult{
		RiskScore:      contract.Score(risks),
		Risks:          risks,
		Simplification: BuildSimplification(masked, risks),
		Negotiation:    BuildNegotiation(risks, start),
	}

	var (
		draft      string
		enrichment *types.EnhancedInsight
	)
	g, gctx := errgroup.WithContext(ctx)

	if points := s.emailPoints(risks); s.drafter != nil && len(points) > 0 {
		req := legal_gpt.EmailRequest{Points: points, Goals: cleanGoals(userGoals)}
		g.Go(func() error {
			var out string
			err := recoverAs(PathNegotiation, func() (err error) {
				out, err = s.drafter.DraftEmail(gctx, req)
				return err
			})
			if err != nil {
				s.fallback(PathNegotiation, err)
				return nil
			}
			draft = strings.TrimSpace(out)
			return nil
		})
	}

	if s.enricher != nil {
		req := legal_gpt.EnrichmentRequest{
			ContractText: contract.Truncate(masked, s.cfg.EnrichmentExcerpt),
			Risks:        digests(risks),
		}
		g.Go(func() error {
			var out *types.EnhancedInsight
			err := recoverAs(PathEnrichment, func() (err error) {
				out, err = s.enricher.Enrich(gctx, req)
				return err
			})
			if err != nil {
				s.fallback(PathEnrichment, err)
				return nil
			}
			enrichment = out
			return nil
		})
	}

	_ = g.Wait()

	if draft != "" {
		result.Negotiation.DraftEmail = draft
	}
	result.Enrichment = enrichment

	took := s.now().Sub(start)
	s.metrics.ObserveAnalysis(result.RiskScore, risks, took)
	s.logger.Info("contract analysed",
		logging.Int("risk_score", result.RiskScore),
		logging.Strings("clauses", result.ClauseIDs()),
		logging.Bool("ai_email", draft != ""),
		logging.Bool("enriched", enrichment != nil),
		logging.Duration("took", took))
	return result, nil
}

// AnalyzeDocument analyses a request body, assigns an id, then archives and
// announces the result. Archive and event failures are logged only.
func (s *Service) AnalyzeDocument(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	result, err := s.Analyze(ctx, req.Text, req.UserGoals)
	if err != nil {
		return nil, err
	}
	resp := &types.AnalyzeResponse{
		AnalysisID:     s.newID(),
		FileName:       req.FileName,
		AnalyzedAt:     s.now().UTC(),
		AnalysisResult: *result,
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, resp); err != nil {
			s.logger.Warn("failed to archive analysis", logging.String("analysis_id", resp.AnalysisID), logging.Err(err))
		}
	}
	if s.publisher != nil {
		event := &types.AnalysisCompletedEvent{
			EventID:    s.newID(),
			AnalysisID: resp.AnalysisID,
			FileName:   resp.FileName,
			RiskScore:  resp.RiskScore,
			ClauseIDs:  resp.ClauseIDs(),
			Severities: types.SeverityCounts(resp.Risks),
			Enriched:   resp.Enrichment != nil,
			OccurredAt: resp.AnalyzedAt,
		}
		if err := s.publisher.PublishAnalysisCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish analysis event", logging.String("analysis_id", resp.AnalysisID), logging.Err(err))
		}
	}
	return resp, nil
}

// GetAnalysis loads an archived analysis.
func (s *Service) GetAnalysis(ctx context.Context, id string) (*types.AnalyzeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	if s.archive == nil {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis archive is disabled").WithDetail(id)
	}
	return s.archive.Load(ctx, id)
}

// Patterns describes the active catalog.
func (s *Service) Patterns() types.PatternsResponse {
	patterns := s.detector.Catalog().Patterns()
	infos := make([]types.PatternInfo, 0, len(patterns))
	for _, p := range patterns {
		infos = append(infos, p.Info())
	}
	return types.PatternsResponse{Patterns: infos, Languages: DescribeLanguages()}
}

// Translate renders text into the requested regional languages.
func (s *Service) Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResponse, error) {
	if s.translator == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "translation is not configured")
	}
	out, err := s.translator.Translate(ctx, req.Text, req.Languages)
	if err != nil {
		return nil, err
	}
	return &types.TranslateResponse{Translations: out}, nil
}

func (s *Service) fallback(path string, err error) {
	code := errors.GetCode(err)
	s.metrics.IncFallback(path, string(code))
	if code == errors.ErrCodeAIUnconfigured {
		s.logger.Debug("generative path skipped", logging.String("path", path))
		return
	}
	s.logger.Warn("generative path fell back", logging.String("path", path), logging.Err(err))
}

// recoverAs runs fn and turns a panic into an error, so a crashing
// collaborator takes the same fallback as a failing one.
func recoverAs(path string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "generative path panicked").
				WithDetail(fmt.Sprintf("%s: %v", path, r))
		}
	}()
	return fn()
}

// emailPoints picks the leading high and medium risks. risks is already
// sorted by severity.
func (s *Service) emailPoints(risks []types.RiskInsight) []legal_gpt.NegotiationPoint {
	points := make([]legal_gpt.NegotiationPoint, 0, s.cfg.MaxEmailRisks)
	for _, r := range risks {
		if len(points) == s.cfg.MaxEmailRisks {
			break
		}
		if r.Severity != types.SeverityHigh && r.Severity != types.SeverityMedium {
			continue
		}
		p := legal_gpt.NegotiationPoint{Clause: r.Clause, Severity: string(r.Severity)}
		if r.Negotiation != nil {
			p.Issue, p.Proposal = r.Negotiation.Issue, r.Negotiation.Proposal
		}
		points = append(points, p)
	}
	return points
}

func digests(risks []types.RiskInsight) []legal_gpt.RiskDigest {
	out := make([]legal_gpt.RiskDigest, 0, len(risks))
	for _, r := range risks {
		out = append(out, legal_gpt.RiskDigest{Clause: r.Clause, Severity: string(r.Severity), Snippet: r.Snippet})
	}
	return out
}

func cleanGoals(goals []string) []string {
	var out []string
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
