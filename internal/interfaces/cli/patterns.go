package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// NewPatternsCmd creates the patterns command.
func NewPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the risk patterns the analyzer checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			var resp *types.PatternsResponse
			if cliCtx.Remote() {
				if resp, err = cliCtx.Client.Patterns(ctx); err != nil {
					return err
				}
			} else {
				var svc *analysis.Service
				if svc, err = localService(ctx, cliCtx); err != nil {
					return err
				}
				p := svc.Patterns()
				resp = &p
			}
			return PrintResult(cmd, patternList{resp})
		},
	}
}

type patternList struct {
	*types.PatternsResponse
}

func (p patternList) TableHeaders() []string {
	return []string{"ID", "SEVERITY", "DETECTION", "CLAUSE"}
}

func (p patternList) TableRows() [][]string {
	rows := make([][]string, 0, len(p.Patterns))
	for _, info := range p.Patterns {
		rows = append(rows, []string{info.ID, string(info.DefaultSeverity), info.Detection, info.Clause})
	}
	return rows
}

func (p patternList) String() string {
	var sb strings.Builder
	for _, info := range p.Patterns {
		fmt.Fprintf(&sb, "%-22s %-6s %s (%s)\n", info.ID, info.DefaultSeverity, info.Clause, info.LegalReference)
	}
	fmt.Fprintf(&sb, "\nSummaries: %s", p.Languages)
	return sb.String()
}
