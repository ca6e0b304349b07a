package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// Pattern identifiers of the built-in catalog.
const (
	PatternIPTransfer           = "ip_transfer"
	PatternNetPayment           = "net_payment"
	PatternUnlimitedLiability   = "unlimited_liability"
	PatternForeignJurisdiction  = "foreign_jurisdiction"
	PatternNonCompete           = "non_compete"
	PatternTerminationImbalance = "termination_imbalance"
	PatternConfidentiality      = "confidentiality_indefinite"
)

// Metadata keys emitted by the custom detectors.
const (
	MetaDays           = "days"
	MetaClientDays     = "clientDays"
	MetaFreelancerDays = "freelancerDays"
)

func keywords(exprs ...string) KeywordDetection {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		res = append(res, regexp.MustCompile(`(?i)`+e))
	}
	return KeywordDetection{Patterns: res}
}

func fixedIssue(s string) func(RiskContext) string {
	return func(RiskContext) string { return s }
}

// builtinPatterns returns the catalog entries in declaration order.
func builtinPatterns(opts CatalogOptions) []*RiskPattern {
	return []*RiskPattern{
		{
			ID:              PatternIPTransfer,
			Clause:          "Perpetual IP Transfer",
			DefaultSeverity: types.SeverityHigh,
			LegalReference:  "Section 19(5), Copyright Act 1957",
			Detection: keywords(
				`assigns?\s+all\s+(?:intellectual\s+)?property`,
				`in\s+perpetuity`,
				`perpetual\s+(?:license|licence|rights)`,
			),
			Explain: func(ctx RiskContext) string {
				return "The agreement permanently assigns all intellectual property and moral rights to the client, leaving you with no portfolio or reuse rights." +
					quotedFragment("The clause includes", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "All intellectual property is permanently assigned to the client; you lose future reuse or portfolio rights.",
				HI: "आप सभी बौद्धिक संपदा अधिकार स्थायी रूप से क्लाइंट को दे रहे हैं; आप इसे भविष्य में दोबारा उपयोग या पोर्टफोलियो में नहीं दिखा पाएंगे।",
				TE: "మీరు సమస్త మేధోసంపత్తి హక్కులను శాశ్వతంగా క్లయింట్‌కు ఇస్తున్నారు; భవిష్యత్తులో మళ్లీ ఉపయోగించడానికి లేదా పోర్ట్‌ఫోలియోలో చూపడానికి వీలుండదు.",
			},
			Negotiation: NegotiationTemplate{
				Issue:    fixedIssue("The contract transfers all intellectual property to the client in perpetuity without extra compensation."),
				Goal:     "Retain portfolio rights or grant only a limited-use licence.",
				Proposal: "Grant the client an exclusive licence for the project deliverables while retaining creator portfolio and future reuse rights.",
			},
		},
		{
			ID:              PatternNetPayment,
			Clause:          "Delayed Payment Terms",
			DefaultSeverity: types.SeverityMedium,
			LegalReference:  "Section 73, Indian Contract Act 1872",
			Detection:       CustomDetection{Detect: paymentDetector(opts.Thresholds)},
			Explain: func(ctx RiskContext) string {
				fragment := " The payment delay exposes you to cash-flow gaps and non-payment risk."
				if days, ok := ctx.Meta.Int(MetaDays); ok && days > 0 {
					fragment = fmt.Sprintf(" Payment is scheduled %d days after invoice, which is risky for cash flow.", days)
				}
				return "The payment timeline is heavily deferred in favour of the client." + fragment +
					quotedFragment("Clause excerpt", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "Payment is pushed far out, creating a cash-flow gap and higher non-payment risk.",
				HI: "भुगतान बहुत देर से तय किया गया है, जिससे नकदी प्रवाह पर दबाव और न मिलने का जोखिम बढ़ जाता है।",
				TE: "చెల్లింపు చాలా ఆలస్యంగా ఉంది, దాంతో నగదు ప్రవాహంపై ఒత్తిడి మరియు చెల్లించకపోవడం వంటి ప్రమాదం పెరుగుతుంది.",
			},
			Negotiation: NegotiationTemplate{
				Issue: func(ctx RiskContext) string {
					if days, ok := ctx.Meta.Int(MetaDays); ok {
						return fmt.Sprintf("The contract sets payment %d days after invoicing, which is unsustainable for a freelancer.", days)
					}
					return "The contract delays payment significantly after delivery, which strains freelancer cash flow."
				},
				Goal:     "Secure upfront or milestone-based payments within 30 days.",
				Proposal: "Request 50% upfront, 25% on first milestone and the balance within 30 days of delivery.",
			},
		},
		{
			ID:              PatternUnlimitedLiability,
			Clause:          "Unlimited Liability & Broad Indemnity",
			DefaultSeverity: types.SeverityHigh,
			LegalReference:  "Section 124, Indian Contract Act 1872",
			Detection: keywords(
				`unlimited\s+liability`,
				`without\s+limit\s+of\s+liability`,
				`indemnify\s+and\s+hold\s+harmless`,
				`all\s+losses\s+and\s+expenses`,
			),
			Explain: func(ctx RiskContext) string {
				return "You agree to indemnify the client for every loss without any monetary cap or fault threshold, exposing you to unlimited financial risk." +
					quotedFragment("Example", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "An unlimited indemnity makes you financially responsible for every loss, even beyond your fees.",
				HI: "असीमित क्षतिपूर्ति आपको हर नुकसान के लिए जिम्मेदार बनाती है, जो आपकी फीस से भी अधिक हो सकता है।",
				TE: "అపరిమిత పరిహార ధనం అన్ని నష్టాలకు మీరు బాధ్యత వహించాల్సిందేనని చెబుతుంది, ఇది మీ ఫీజును మించిపోగలదు.",
			},
			Negotiation: NegotiationTemplate{
				Issue:    fixedIssue("The indemnity clause has no financial cap and covers all losses, including indirect damages."),
				Goal:     "Cap liability to the project value and limit indemnity to direct losses caused by proven negligence.",
				Proposal: "Limit liability to the total fees paid and restrict indemnity to direct damages resulting from proven misconduct.",
			},
		},
		{
			ID:              PatternForeignJurisdiction,
			Clause:          "Foreign Governing Law",
			DefaultSeverity: types.SeverityMedium,
			LegalReference:  "Section 28, Indian Contract Act 1872",
			Detection: keywords(
				`courts?\s+of\s+(?:delaware|new\s+york|california|united\s+states|singapore|england|wales|london)`,
				`laws\s+of\s+(?:delaware|new\s+york|california|united\s+states|england|wales)`,
				`\b(?:delaware|new\s+york|california|singapore|english|london)\s+courts?\b`,
			),
			Explain: func(ctx RiskContext) string {
				return "Any disputes must be resolved in a foreign jurisdiction, making enforcement costly and impractical for an Indian freelancer." +
					quotedFragment("Quoted text", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "Disputes are forced into a foreign court, raising legal costs if conflict arises.",
				HI: "विवाद विदेशी अदालत में ही निपटाने होंगे, जिससे कानूनी खर्च बहुत बढ़ जाएगा।",
				TE: "వివాదం వస్తే విదేశీ కోర్టులోనే తీర్మానించాలని ఉండటం వలన న్యాయ ఖర్చులు పెరుగుతాయి.",
			},
			Negotiation: NegotiationTemplate{
				Issue:    fixedIssue("The governing law and jurisdiction are set outside India, increasing legal costs and barriers."),
				Goal:     "Move jurisdiction to India or use neutral online arbitration.",
				Proposal: "Propose Indian law with Mumbai or Bengaluru jurisdiction, or adopt a neutral online arbitration forum.",
			},
		},
		{
			ID:              PatternNonCompete,
			Clause:          "Broad Non-Compete Restriction",
			DefaultSeverity: types.SeverityMedium,
			LegalReference:  "Section 27, Indian Contract Act 1872",
			Detection: keywords(
				`non[-\s]?compete`,
				`shall\s+not\s+engage\s+in\s+similar\s+work`,
				`any\s+competitor`,
			),
			Explain: func(ctx RiskContext) string {
				return "The non-compete clause blocks you from working with other clients or in your own niche for an extended period, which is unenforceable under Indian law." +
					quotedFragment("Restrictive text", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "The non-compete clause locks you out of similar work for months or years after this project.",
				HI: "नॉन-कम्पीट शर्त आपको इस प्रोजेक्ट के बाद भी लंबे समय तक समान काम से दूर रखती है।",
				TE: "ఈ నాన్-కంపీట్ నిబంధన ప్రాజెక్ట్ తరువాత కూడా సమానమైన పనిని చేయకుండా నిలుపుతుంది.",
			},
			Negotiation: NegotiationTemplate{
				Issue:    fixedIssue("The non-compete language is broad enough to block future freelance opportunities."),
				Goal:     "Limit restrictions to direct client leads during the project only.",
				Proposal: "Replace with a simple non-solicitation clause limited to active project contacts for 3 months.",
			},
		},
		{
			ID:              PatternTerminationImbalance,
			Clause:          "Unbalanced Termination Notice",
			DefaultSeverity: types.SeverityMedium,
			LegalReference:  "Section 23, Indian Contract Act 1872",
			Detection:       CustomDetection{Detect: terminationDetector(opts.TerminationAnchors, opts.Thresholds)},
			Explain: func(ctx RiskContext) string {
				imbalance := ""
				client, okC := ctx.Meta.Int(MetaClientDays)
				provider, okP := ctx.Meta.Int(MetaFreelancerDays)
				if okC && okP && client > 0 && provider > 0 {
					imbalance = fmt.Sprintf(" The client needs only %d days notice but you must give %d days.", client, provider)
				}
				return "Termination notice periods are one-sided and let the client exit faster than you can." + imbalance +
					quotedFragment("Highlight", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "Termination timelines favour the client, meaning they can exit quickly while you stay locked in.",
				HI: "समाप्ति की समयसीमा क्लाइंट के पक्ष में है, यानी वे जल्दी निकल सकते हैं लेकिन आप फंस जाते हैं।",
				TE: "రద్దు టైమ్‌లైన్ క్లయింట్‌కు అనుకూలంగా ఉండడంతో, వారు వేగంగా బయటకు రావచ్చు కానీ మీరు ఇరుక్కోవాల్సి వస్తుంది.",
			},
			Negotiation: NegotiationTemplate{
				Issue: func(ctx RiskContext) string {
					client, okC := ctx.Meta.Int(MetaClientDays)
					provider, okP := ctx.Meta.Int(MetaFreelancerDays)
					if okC && okP && client > 0 && provider > 0 {
						return fmt.Sprintf("Termination notice is %d days for the client but %d days for me, which is uneven.", client, provider)
					}
					return "Termination notice periods are uneven and place more risk on the freelancer."
				},
				Goal:     "Make termination notice periods mutual and balanced.",
				Proposal: "Set a mutual 14-day notice or require payment for work completed if termination is early.",
			},
		},
		{
			ID:              PatternConfidentiality,
			Clause:          "Indefinite Confidentiality Obligation",
			DefaultSeverity: types.SeverityLow,
			LegalReference:  "Rule 8, SPDI Rules under IT Act 2000",
			Detection: keywords(
				`confidentiality[^.]{0,100}survives?\s+termination`,
				`in\s+perpetuity\s+confidential`,
				`indefinite\s+confidentiality`,
			),
			Explain: func(ctx RiskContext) string {
				return "Confidentiality survives forever without a practical time-limit, which is uncommon for freelance projects." +
					quotedFragment("Wording seen", ctx.Snippet)
			},
			Summary: types.LocalizedSummary{
				EN: "Confidentiality obligations last forever, so you must seek permission even years later.",
				HI: "गोपनीयता की जिम्मेदारी हमेशा के लिए चलती है, इसलिए आपको वर्षों बाद भी अनुमति लेनी होगी।",
				TE: "రహస్యత్వ బాధ్యత శాశ్వతంగా కొనసాగుతుంది, కాబట్టి సంవత్సరాల తరువాత కూడా అనుమతి తీసుకోవాలి.",
			},
			Negotiation: NegotiationTemplate{
				Issue:    fixedIssue("The confidentiality clause has no end-date, which is impractical for long-term careers."),
				Goal:     "Limit confidentiality obligations to a reasonable 2-3 year window.",
				Proposal: "Cap confidentiality obligations to 3 years after project completion, with standard exceptions.",
			},
		},
	}
}

// quotedFragment renders ` Label: "snippet".` or nothing for an empty snippet.
// The snippet is embedded verbatim, not Go-escaped.
func quotedFragment(label, snippet string) string {
	if snippet == "" {
		return ""
	}
	return " " + label + ": \"" + snippet + "\"."
}

// ─────────────────────────────────────────────────────────────────────────────
// Payment delay
// ─────────────────────────────────────────────────────────────────────────────

var (
	netDaysPattern    = regexp.MustCompile(`(?i)\bnet[-\s]?(\d{2,3})\b`)
	withinDaysPattern = regexp.MustCompile(`(?i)\bwithin\s+(thirty|forty|fifty|sixty|seventy|eighty|ninety|\d{2,3})(?:\s*\(\d{2,3}\))?\s+days\b`)
)

var spelledDays = map[string]int{
	"thirty":  30,
	"forty":   40,
	"fifty":   50,
	"sixty":   60,
	"seventy": 70,
	"eighty":  80,
	"ninety":  90,
}

// ParseDayCount converts "ninety" or "90" into a day count.
func ParseDayCount(raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, ok := spelledDays[raw]; ok {
		return n, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PaymentSeverity grades a payment delay against the thresholds.
func PaymentSeverity(days int, t Thresholds) types.Severity {
	switch {
	case days >= t.PaymentHighDays:
		return types.SeverityHigh
	case days >= t.PaymentMediumDays:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}

// paymentDetector looks for "net-N" first and only then "within N days".
func paymentDetector(t Thresholds) func(string) (DetectionOutcome, bool) {
	return func(text string) (DetectionOutcome, bool) {
		for _, re := range []*regexp.Regexp{netDaysPattern, withinDaysPattern} {
			m := re.FindStringSubmatchIndex(text)
			if m == nil {
				continue
			}
			days, ok := ParseDayCount(text[m[2]:m[3]])
			if !ok {
				continue
			}
			return DetectionOutcome{
				Severity: PaymentSeverity(days, t),
				Snippet:  ExtractSnippet(text, m[0]),
				Meta:     Metadata{MetaDays: days},
			}, true
		}
		return DetectionOutcome{}, false
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Termination notice imbalance
// ─────────────────────────────────────────────────────────────────────────────

// noticeWithin is how far past an anchor the day count may appear, without
// crossing a sentence boundary.
const noticeWithin = 80

// anchorPattern compiles `anchor ... N days` for a set of anchor phrases.
func anchorPattern(anchors []string) *regexp.Regexp {
	alts := make([]string, 0, len(anchors))
	for _, a := range anchors {
		words := strings.Fields(a)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	expr := fmt.Sprintf(`(?i)(?:%s)[^.]{0,%d}?\b(\d{1,2})\)?\s*days?\b`, strings.Join(alts, "|"), noticeWithin)
	return regexp.MustCompile(expr)
}

func terminationDetector(anchors TerminationAnchors, t Thresholds) func(string) (DetectionOutcome, bool) {
	clientRe := anchorPattern(anchors.Client)
	providerRe := anchorPattern(anchors.Provider)

	return func(text string) (DetectionOutcome, bool) {
		cm := clientRe.FindStringSubmatchIndex(text)
		pm := providerRe.FindStringSubmatchIndex(text)
		if cm == nil || pm == nil {
			return DetectionOutcome{}, false
		}
		clientDays, err1 := strconv.Atoi(text[cm[2]:cm[3]])
		providerDays, err2 := strconv.Atoi(text[pm[2]:pm[3]])
		if err1 != nil || err2 != nil || clientDays >= providerDays {
			return DetectionOutcome{}, false
		}

		severity := types.SeverityLow
		if providerDays-clientDays >= t.TerminationGapDays {
			severity = types.SeverityMedium
		}
		return DetectionOutcome{
			Severity: severity,
			Snippet:  ExtractSnippet(text, min(cm[0], pm[0])),
			Meta:     Metadata{MetaClientDays: clientDays, MetaFreelancerDays: providerDays},
		}, true
	}
}
