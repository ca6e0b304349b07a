package legal_gpt

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// RiskDigest is the reduced view of a detected risk sent for enrichment.
type RiskDigest struct {
	Clause   string `json:"clause"`
	Severity string `json:"severity"`
	Snippet  string `json:"snippet,omitempty"`
}

// EnrichmentRequest carries the masked, already-bounded contract excerpt and
// the risk digests.
type EnrichmentRequest struct {
	ContractText string       `json:"contractText"`
	Risks        []RiskDigest `json:"risks"`
}

const enrichmentSchemaURL = "synthlaw://schemas/enrichment.schema.json"

//go:embed enrichment.schema.json
var enrichmentSchemaJSON []byte

var enrichmentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(enrichmentSchemaURL, bytes.NewReader(enrichmentSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(enrichmentSchemaURL)
})

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseEnrichment extracts the outermost JSON object from a model reply,
// validates it and decodes it. Any problem yields ErrCodeAIMalformedOutput.
func ParseEnrichment(reply string) (*types.EnhancedInsight, error) {
	raw := jsonObjectPattern.FindString(reply)
	if raw == "" {
		return nil, errors.New(errors.ErrCodeAIMalformedOutput, "no JSON object in reply")
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIMalformedOutput, "reply is not valid JSON")
	}
	schema, err := enrichmentSchema()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "compile enrichment schema")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIMalformedOutput, "reply does not match enrichment schema")
	}

	var insight types.EnhancedInsight
	if err := json.Unmarshal([]byte(raw), &insight); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIMalformedOutput, "decode enrichment")
	}
	normalizeInsight(&insight)
	return &insight, nil
}

func normalizeInsight(in *types.EnhancedInsight) {
	g := &in.LegalGrounding
	if g.RelevantSections == nil {
		g.RelevantSections = []string{}
	}
	if g.Precedents == nil {
		g.Precedents = []string{}
	}
	if g.StandardPractices == nil {
		g.StandardPractices = []string{}
	}
}

// Enrich asks the collaborator for legal grounding, translated key issues and
// a negotiation strategy. Results are cached by prompt when a cache is set.
func (c *Collaborator) Enrich(ctx context.Context, req EnrichmentRequest) (*types.EnhancedInsight, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	prompt, err := BuildEnrichmentPrompt(req)
	if err != nil {
		return nil, err
	}
	if c.cache == nil {
		return c.enrich(ctx, prompt)
	}

	var cached types.EnhancedInsight
	err = c.cache.GetOrSet(ctx, c.enrichmentKey(prompt), &cached, c.cfg.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return c.enrich(ctx, prompt)
		})
	switch {
	case err == nil:
		normalizeInsight(&cached)
		return &cached, nil
	case errors.ModuleForCode(errors.GetCode(err)) == "AI":
		return nil, err
	default:
		c.logger.Warn("enrichment cache unavailable, calling collaborator directly", logging.Err(err))
		return c.enrich(ctx, prompt)
	}
}

func (c *Collaborator) enrich(ctx context.Context, prompt string) (*types.EnhancedInsight, error) {
	reply, err := c.complete(ctx, OpEnrich, c.cfg.Enrichment, prompt)
	if err != nil {
		return nil, err
	}
	insight, err := ParseEnrichment(reply)
	if err != nil {
		c.logger.Warn("discarding enrichment reply", logging.Err(err), logging.Int("chars", len(reply)))
		return nil, err
	}
	return insight, nil
}

func (c *Collaborator) enrichmentKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.cfg.Enrichment.Model + "\x00" + prompt))
	return "enrichment:" + hex.EncodeToString(sum[:])
}
