package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

func risksOf(sev ...types.Severity) []types.RiskInsight {
	out := make([]types.RiskInsight, 0, len(sev))
	for _, s := range sev {
		out = append(out, types.RiskInsight{Severity: s})
	}
	return out
}

func TestScore(t *testing.T) {
	cases := []struct {
		name string
		in   []types.RiskInsight
		want int
	}{
		{"none", nil, BaselineScore},
		{"one of each", risksOf(types.SeverityHigh, types.SeverityMedium, types.SeverityLow), 50},
		{"capped", risksOf(types.SeverityHigh, types.SeverityHigh, types.SeverityHigh, types.SeverityHigh), MaxScore},
		{"unknown weighs nothing", risksOf(types.Severity("critical")), 0},
		{"single low", risksOf(types.SeverityLow), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.in))
		})
	}
}

func TestScore_AlwaysBounded(t *testing.T) {
	all := []types.Severity{types.SeverityHigh, types.SeverityMedium, types.SeverityLow, "other"}
	for n := 0; n < 12; n++ {
		sev := make([]types.Severity, 0, n)
		for i := 0; i < n; i++ {
			sev = append(sev, all[(i*7+n)%len(all)])
		}
		score := Score(risksOf(sev...))
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, MaxScore)
	}
}
