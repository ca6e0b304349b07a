package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// NewTranslateCmd creates the translate command. Without a configured
// generative backend every language gets a fixed placeholder.
func NewTranslateCmd() *cobra.Command {
	var languages []string

	cmd := &cobra.Command{
		Use:   "translate <text|->",
		Short: "Translate a plain-language summary into Hindi and Telugu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			text := args[0]
			if text == "-" {
				if text, err = readSource(cmd, "-", 20000); err != nil {
					return err
				}
			}
			req := types.TranslateRequest{Text: strings.TrimSpace(text), Languages: languages}
			if err := validate.Struct(req); err != nil {
				return errors.InvalidParam("invalid translate request").WithDetail(err.Error())
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			var resp *types.TranslateResponse
			if cliCtx.Remote() {
				resp, err = cliCtx.Client.Translate(ctx, req)
			} else {
				var svc *analysis.Service
				if svc, err = localService(ctx, cliCtx); err != nil {
					return err
				}
				resp, err = svc.Translate(ctx, req)
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, translation{resp})
		},
	}
	cmd.Flags().StringSliceVar(&languages, "to", nil, "target languages (hindi, telugu); default both")
	return cmd
}

type translation struct {
	*types.TranslateResponse
}

func (t translation) keys() []string {
	keys := make([]string, 0, len(t.Translations))
	for k := range t.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t translation) TableHeaders() []string { return []string{"LANGUAGE", "TEXT"} }

func (t translation) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Translations))
	for _, k := range t.keys() {
		rows = append(rows, []string{k, t.Translations[k]})
	}
	return rows
}

func (t translation) String() string {
	var sb strings.Builder
	for _, k := range t.keys() {
		fmt.Fprintf(&sb, "%s:\n%s\n\n", k, t.Translations[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}
