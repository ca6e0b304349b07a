package contract

import types "github.com/turtacn/SynthLaw/pkg/types/contract"

const (
	// BaselineScore is reported when nothing was detected. It is not zero
	// because a clean scan does not prove a contract safe.
	BaselineScore = 10
	MaxScore      = 100
)

// Weight is the score contribution of one risk of severity s.
func Weight(s types.Severity) int {
	switch s {
	case types.SeverityHigh:
		return 30
	case types.SeverityMedium:
		return 15
	case types.SeverityLow:
		return 5
	default:
		return 0
	}
}

// Score sums severity weights across risks, capped at MaxScore. Unknown
// severities weigh nothing. An empty list scores BaselineScore.
func Score(risks []types.RiskInsight) int {
	if len(risks) == 0 {
		return BaselineScore
	}
	total := 0
	for _, r := range risks {
		total += Weight(r.Severity)
	}
	if total > MaxScore {
		return MaxScore
	}
	return total
}
