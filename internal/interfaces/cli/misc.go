package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// NewSampleCmd prints the bundled one-sided sample agreement.
func NewSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample contract that trips most risk patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), analysis.SampleContract)
			return err
		},
	}
}

// NewLanguagesCmd lists the summary languages.
func NewLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages summaries are written in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return PrintResult(cmd, languageList(analysis.Languages))
		},
	}
}

type languageList []analysis.Language

func (l languageList) TableHeaders() []string { return []string{"KEY", "LABEL", "TRANSLATION KEY"} }

func (l languageList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, lang := range l {
		rows = append(rows, []string{lang.Key, lang.Label, lang.TranslationKey})
	}
	return rows
}

func (l languageList) String() string { return analysis.DescribeLanguages() }

// NewShowCmd fetches an archived analysis by id.
func NewShowCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Show an archived analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if !isSupportedLanguage(lang) {
				return errors.InvalidParam(fmt.Sprintf("unsupported language %q; expected %s", lang, DescribeLanguageKeys()))
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			var resp *types.AnalyzeResponse
			if cliCtx.Remote() {
				resp, err = cliCtx.Client.GetAnalysis(ctx, args[0])
			} else {
				var svc *analysis.Service
				if svc, err = localService(ctx, cliCtx); err != nil {
					return err
				}
				resp, err = svc.GetAnalysis(ctx, args[0])
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, &analysisReport{resp: resp, lang: lang, showEmail: true})
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "summary language (en, hi, te)")
	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return PrintResult(cmd, buildInfo{
				Version:   Version,
				Commit:    GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
			})
		},
	}
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

func (b buildInfo) String() string {
	return fmt.Sprintf("synthlaw %s (commit: %s, built: %s, %s)", b.Version, b.Commit, b.BuildDate, b.GoVersion)
}
