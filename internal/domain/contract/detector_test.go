package contract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

func findRisk(t *testing.T, risks []types.RiskInsight, id string) types.RiskInsight {
	t.Helper()
	for _, r := range risks {
		if r.ID == id {
			return r
		}
	}
	require.Failf(t, "risk not found", "expected %q in %v", id, ids(risks))
	return types.RiskInsight{}
}

func ids(risks []types.RiskInsight) []string {
	out := make([]string, 0, len(risks))
	for _, r := range risks {
		out = append(out, r.ID)
	}
	return out
}

func TestDetect_SampleAgreement(t *testing.T) {
	risks := NewDetector(nil).Detect(MaskSensitiveData(strings.TrimSpace(testContract)))

	assert.Equal(t, []string{
		PatternIPTransfer,
		PatternNetPayment,
		PatternUnlimitedLiability,
		PatternForeignJurisdiction,
	}, ids(risks))

	ip := findRisk(t, risks, PatternIPTransfer)
	assert.Equal(t, types.SeverityHigh, ip.Severity)
	assert.Equal(t, "Section 19(5), Copyright Act 1957", ip.LegalReference)
	assert.Contains(t, ip.Explanation, `The clause includes: "`)
	require.NotNil(t, ip.Summary)
	require.NotNil(t, ip.Negotiation)
	assert.Equal(t, "Retain portfolio rights or grant only a limited-use licence.", ip.Negotiation.Goal)

	liability := findRisk(t, risks, PatternUnlimitedLiability)
	assert.Equal(t, types.SeverityHigh, liability.Severity)

	assert.Equal(t, 100, Score(risks))
}

func TestDetect_CleanText(t *testing.T) {
	risks := NewDetector(nil).Detect("This agreement covers website design with payment on delivery.")
	assert.NotNil(t, risks)
	assert.Empty(t, risks)
	assert.Equal(t, BaselineScore, Score(risks))
}

func TestDetect_PaymentTerms(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		days     int
		severity types.Severity
	}{
		{"net hyphen", "Payment terms are Net-90 from the date of invoice.", 90, types.SeverityHigh},
		{"net space", "Invoices are settled net 45.", 45, types.SeverityMedium},
		{"net short", "Terms: NET30.", 30, types.SeverityLow},
		{"spelled", "Fees are payable within ninety days of acceptance.", 90, types.SeverityHigh},
		{"spelled with digits", "Payment shall be made within sixty (60) days of invoice.", 60, types.SeverityHigh},
		{"digits", "Client pays within 50 days.", 50, types.SeverityMedium},
	}
	d := NewDetector(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			risk := findRisk(t, d.Detect(tc.text), PatternNetPayment)
			assert.Equal(t, tc.severity, risk.Severity)
			assert.Equal(t, tc.days, risk.Meta[MetaDays])
			require.NotNil(t, risk.Negotiation)
			assert.Contains(t, risk.Negotiation.Issue, "payment "+itoa(tc.days)+" days after invoicing")
			assert.Contains(t, risk.Explanation, "Payment is scheduled "+itoa(tc.days)+" days after invoice")
		})
	}
}

func TestDetect_PaymentNotFooledByWords(t *testing.T) {
	risks := NewDetector(nil).Detect("The office internet 100 Mbps line is provided by the client.")
	assert.NotContains(t, ids(risks), PatternNetPayment)
}

func TestDetect_NetPreferredOverWithin(t *testing.T) {
	risk := findRisk(t, NewDetector(nil).Detect("Pay within thirty days. Final balance Net-75."), PatternNetPayment)
	assert.Equal(t, 75, risk.Meta[MetaDays])
}

func TestDetect_TerminationImbalance(t *testing.T) {
	text := "Client may terminate this Agreement at any time with seven (7) days written notice. " +
		"Service Provider may terminate this Agreement with thirty (30) days written notice."

	risk := findRisk(t, NewDetector(nil).Detect(text), PatternTerminationImbalance)
	assert.Equal(t, types.SeverityMedium, risk.Severity)
	assert.Equal(t, 7, risk.Meta[MetaClientDays])
	assert.Equal(t, 30, risk.Meta[MetaFreelancerDays])
	assert.True(t, strings.HasPrefix(risk.Snippet, "Client may terminate"))
	assert.Contains(t, risk.Explanation, "The client needs only 7 days notice but you must give 30 days.")
	assert.Equal(t, "Termination notice is 7 days for the client but 30 days for me, which is uneven.", risk.Negotiation.Issue)
}

func TestDetect_TerminationSmallGapIsLow(t *testing.T) {
	text := "Either party may terminate with 10 days notice. The service provider must give 15 days notice."
	risk := findRisk(t, NewDetector(nil).Detect(text), PatternTerminationImbalance)
	assert.Equal(t, types.SeverityLow, risk.Severity)
}

func TestDetect_TerminationBalancedIsIgnored(t *testing.T) {
	text := "The client may terminate with 30 days notice. The service provider may terminate with 30 days notice."
	assert.NotContains(t, ids(NewDetector(nil).Detect(text)), PatternTerminationImbalance)
}

func TestDetect_TerminationCustomAnchors(t *testing.T) {
	text := "Client can end this engagement with 5 days notice. Contractor must give 30 days notice."

	assert.NotContains(t, ids(NewDetector(nil).Detect(text)), PatternTerminationImbalance)

	opts := DefaultCatalogOptions()
	opts.TerminationAnchors = TerminationAnchors{Client: []string{"can  end"}, Provider: []string{"contractor"}}
	cat, err := NewCatalog(opts)
	require.NoError(t, err)

	risk := findRisk(t, NewDetector(cat).Detect(text), PatternTerminationImbalance)
	assert.Equal(t, 5, risk.Meta[MetaClientDays])
	assert.Equal(t, 30, risk.Meta[MetaFreelancerDays])
}

func TestDetect_KeywordOrderWins(t *testing.T) {
	text := "Rights granted in perpetuity. " + strings.Repeat("filler ", 60) + "The designer assigns all property to the client."
	risk := findRisk(t, NewDetector(nil).Detect(text), PatternIPTransfer)
	assert.Contains(t, risk.Snippet, "assigns all property")
	assert.NotContains(t, risk.Snippet, "perpetuity")
}

func TestDetect_SeverityOrdering(t *testing.T) {
	text := "Confidentiality obligations survive termination. The freelancer shall not engage in similar work. Rights are granted in perpetuity."
	assert.Equal(t, []string{PatternIPTransfer, PatternNonCompete, PatternConfidentiality}, ids(NewDetector(nil).Detect(text)))
}

func TestDetect_AtMostOnePerPattern(t *testing.T) {
	text := strings.Repeat("Unlimited liability applies. Net-90. ", 5)
	seen := map[string]int{}
	for _, r := range NewDetector(nil).Detect(text) {
		seen[r.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestDetect_SnippetsAreNormalised(t *testing.T) {
	for _, r := range NewDetector(nil).Detect(testContract) {
		assert.NotEmpty(t, r.Snippet, r.ID)
		assert.Equal(t, CollapseWhitespace(r.Snippet), r.Snippet)
		assert.LessOrEqual(t, utf8.RuneCountInString(r.Snippet), SnippetWindow)
		assert.True(t, r.Severity.IsValid())
	}
}

func TestSortBySeverity_Stable(t *testing.T) {
	risks := []types.RiskInsight{
		{ID: "a", Severity: types.SeverityLow},
		{ID: "b", Severity: types.SeverityHigh},
		{ID: "c", Severity: types.SeverityMedium},
		{ID: "d", Severity: types.SeverityHigh},
		{ID: "e", Severity: types.Severity("critical")},
		{ID: "f", Severity: types.SeverityLow},
	}
	SortBySeverity(risks)
	assert.Equal(t, []string{"b", "d", "c", "a", "e", "f"}, ids(risks))
}
