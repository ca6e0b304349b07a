package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Rank(t *testing.T) {
	assert.Equal(t, 0, SeverityHigh.Rank())
	assert.Equal(t, 1, SeverityMedium.Rank())
	assert.Equal(t, 2, SeverityLow.Rank())
	assert.Equal(t, 2, Severity("critical").Rank())
}

func TestSeverity_IsValid(t *testing.T) {
	assert.True(t, SeverityLow.IsValid())
	assert.False(t, Severity("HIGH").IsValid())
	assert.False(t, Severity("").IsValid())
}

func TestLocalizedSummary_Get(t *testing.T) {
	s := LocalizedSummary{EN: "e", HI: "h", TE: "t"}
	assert.Equal(t, "e", s.Get(LangEnglish))
	assert.Equal(t, "h", s.Get(LangHindi))
	assert.Equal(t, "t", s.Get(LangTelugu))
	assert.Equal(t, "e", s.Get("fr"))
}

func TestAnalysisResult_NullEnrichment(t *testing.T) {
	res := AnalysisResult{RiskScore: 10, Risks: []RiskInsight{}}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ragInsights":null`)
	assert.Contains(t, string(data), `"riskScore":10`)
}

func TestAnalyzeResponse_FlattensResult(t *testing.T) {
	resp := AnalyzeResponse{
		AnalysisID:     "a-1",
		AnalysisResult: AnalysisResult{RiskScore: 45, Risks: []RiskInsight{{ID: "ip_transfer"}}},
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "a-1", flat["analysisId"])
	assert.EqualValues(t, 45, flat["riskScore"])
	assert.Equal(t, []string{"ip_transfer"}, resp.ClauseIDs())
}

func TestSeverityCounts(t *testing.T) {
	counts := SeverityCounts([]RiskInsight{
		{Severity: SeverityHigh}, {Severity: SeverityHigh}, {Severity: SeverityLow},
	})
	assert.Equal(t, map[string]int{"high": 2, "low": 1}, counts)
	assert.Empty(t, SeverityCounts(nil))
}

func TestRiskBand(t *testing.T) {
	assert.Equal(t, SeverityLow, RiskBand(0))
	assert.Equal(t, SeverityLow, RiskBand(39))
	assert.Equal(t, SeverityMedium, RiskBand(40))
	assert.Equal(t, SeverityMedium, RiskBand(69))
	assert.Equal(t, SeverityHigh, RiskBand(70))
	assert.Equal(t, SeverityHigh, RiskBand(100))
}
