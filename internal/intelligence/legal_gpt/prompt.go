package legal_gpt

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

//go:embed knowledge_base.md
var knowledgeBase string

// KnowledgeBase returns the legal reference text embedded in every
// enrichment prompt.
func KnowledgeBase() string { return knowledgeBase }

// Fallbacks applied while building the negotiation prompt.
const (
	DefaultPointProposal = "Request reasonable amendment"
	MaxEmailPoints       = 5
)

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var enrichmentTmpl = template.Must(template.New("enrichment").Funcs(promptFuncs).Parse(
	`You are a legal AI assistant specializing in Indian contract law for freelancers.

LEGAL KNOWLEDGE BASE:
{{.KnowledgeBase}}

DETECTED RISKS IN CONTRACT:
{{range $i, $r := .Risks}}{{if $i}}
{{end}}{{inc $i}}. {{$r.Clause}} ({{$r.Severity}}): {{or $r.Snippet "N/A"}}{{end}}

CONTRACT EXCERPT:
{{.Excerpt}}

TASK:
Provide enhanced analysis in JSON format with:
1. Legal grounding (cite specific sections from knowledge base)
2. Hindi and Telugu translations of the 3 most critical issues
3. Negotiation strategy with professional email template

Return ONLY valid JSON:
{
  "legalGrounding": {
    "relevantSections": ["Section X: explanation", "Section Y: explanation"],
    "precedents": ["Case reference or standard practice"],
    "standardPractices": ["Industry norm 1", "Industry norm 2"]
  },
  "alternativeLanguage": {
    "hindi": "मुख्य समस्या का हिंदी में विवरण",
    "telugu": "ప్రధాన సమస్య తెలుగులో వివరణ"
  },
  "negotiationStrategy": {
    "tone": "collaborative",
    "priority": 8,
    "emailTemplate": "Professional email template here"
  }
}`))

var negotiationTmpl = template.Must(template.New("negotiation").Funcs(promptFuncs).Parse(
	`You are drafting a professional contract negotiation email for an Indian freelancer.

LEGAL CONTEXT:
- Use respectful but firm tone
- Reference Indian Contract Act and Copyright Act where relevant
- Maintain collaborative business relationship
- Be specific about requested changes

RISKS TO ADDRESS:
{{range $i, $p := .Points}}{{if $i}}

{{end}}{{inc $i}}. {{$p.Issue}}
   Suggested change: {{$p.Proposal}}{{end}}{{if .Goals}}

User's specific goals:
{{range $i, $g := .Goals}}{{if $i}}
{{end}}{{inc $i}}. {{$g}}{{end}}{{end}}

Write a complete email with:
- Professional subject line
- Courteous opening
- Clear enumeration of issues with proposed solutions
- Emphasis on mutual benefit
- Closing that invites discussion

Return ONLY the email text (no JSON wrapper).`))

var translationTmpl = template.Must(template.New("translation").Parse(
	`Translate this plain-English contract summary into {{.Language}}. Keep it simple and clear for non-legal readers.

TEXT TO TRANSLATE:
{{.Text}}

Return ONLY the {{.Language}} translation, no additional text.`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "render prompt").WithDetail(t.Name())
	}
	return buf.String(), nil
}

// BuildEnrichmentPrompt renders the enrichment prompt. The excerpt is used as
// given; callers bound it beforehand.
func BuildEnrichmentPrompt(req EnrichmentRequest) (string, error) {
	return render(enrichmentTmpl, struct {
		KnowledgeBase string
		Risks         []RiskDigest
		Excerpt       string
	}{
		KnowledgeBase: strings.TrimRight(knowledgeBase, "\n"),
		Risks:         req.Risks,
		Excerpt:       req.ContractText,
	})
}

// BuildNegotiationPrompt renders the e-mail drafting prompt from at most
// MaxEmailPoints points. Missing issue text falls back to the clause name and
// a missing proposal to DefaultPointProposal.
func BuildNegotiationPrompt(req EmailRequest) (string, error) {
	points := make([]NegotiationPoint, 0, min(len(req.Points), MaxEmailPoints))
	for _, p := range req.Points {
		if len(points) == MaxEmailPoints {
			break
		}
		if strings.TrimSpace(p.Issue) == "" {
			p.Issue = p.Clause
		}
		if strings.TrimSpace(p.Proposal) == "" {
			p.Proposal = DefaultPointProposal
		}
		points = append(points, p)
	}
	return render(negotiationTmpl, struct {
		Points []NegotiationPoint
		Goals  []string
	}{Points: points, Goals: req.Goals})
}

// BuildTranslationPrompt renders the translation prompt for one language.
func BuildTranslationPrompt(text, languageName string) (string, error) {
	return render(translationTmpl, struct {
		Text     string
		Language string
	}{Text: text, Language: languageName})
}
