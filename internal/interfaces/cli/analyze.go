package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type analyzeOptions struct {
	goals     []string
	fileName  string
	language  string
	showEmail bool
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Analyze a contract for one-sided clauses",
		Long: "Reads a plain-text contract from a file, or from stdin when the argument\n" +
			"is \"-\", and prints the risk score, the flagged clauses, a plain-language\n" +
			"summary and a negotiation e-mail.",
		Example: `  synthlaw analyze agreement.txt
  synthlaw sample | synthlaw analyze - --goal "Net-30 payment" -o json
  synthlaw analyze agreement.txt --lang hi -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.goals, "goal", "g", nil, "negotiation goal (repeatable)")
	f.StringVar(&opts.fileName, "file-name", "", "file name recorded with the analysis (default: base name of the input)")
	f.StringVarP(&opts.language, "lang", "l", "en", "summary language (en, hi, te)")
	f.BoolVar(&opts.showEmail, "email", true, "include the negotiation e-mail in text output")
	return cmd
}

func runAnalyze(cmd *cobra.Command, source string, opts *analyzeOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if !isSupportedLanguage(opts.language) {
		return errors.InvalidParam(fmt.Sprintf("unsupported language %q; expected %s", opts.language, DescribeLanguageKeys()))
	}

	text, err := readSource(cmd, source, int64(cliCtx.Config.Analysis.MaxTextBytes))
	if err != nil {
		return err
	}
	name := opts.fileName
	if name == "" && source != "-" {
		name = filepath.Base(source)
	}

	req := types.AnalyzeRequest{Text: text, FileName: name, UserGoals: opts.goals}
	if strings.TrimSpace(text) != "" {
		if err := validate.Struct(req); err != nil {
			return errors.InvalidParam("invalid analyze request").WithDetail(err.Error())
		}
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	var resp *types.AnalyzeResponse
	if cliCtx.Remote() {
		resp, err = cliCtx.Client.AnalyzeFile(ctx, nameOr(name, "contract.txt"), strings.NewReader(text), opts.goals)
	} else {
		var svc *analysis.Service
		if svc, err = localService(ctx, cliCtx); err != nil {
			return err
		}
		resp, err = svc.AnalyzeDocument(ctx, req)
	}
	if err != nil {
		return err
	}
	return PrintResult(cmd, &analysisReport{resp: resp, lang: opts.language, showEmail: opts.showEmail})
}

// readSource reads a file, or stdin for "-", refusing inputs above limit.
func readSource(cmd *cobra.Command, source string, limit int64) (string, error) {
	var r io.Reader
	if source == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(source)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInvalidParam, "cannot open contract").WithDetail(source)
		}
		defer f.Close()
		r = f
	}
	if limit <= 0 {
		limit = int64(analysis.DefaultConfig().MaxTextBytes)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidParam, "cannot read contract")
	}
	if int64(len(data)) > limit {
		return "", errors.New(errors.ErrCodeContractTooLarge, "contract exceeds the size limit").
			WithDetail(fmt.Sprintf("limit %d bytes", limit))
	}
	return string(data), nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func isSupportedLanguage(key string) bool {
	for _, l := range analysis.Languages {
		if l.Key == key {
			return true
		}
	}
	return false
}

// DescribeLanguageKeys renders "en|hi|te".
func DescribeLanguageKeys() string {
	keys := make([]string, 0, len(analysis.Languages))
	for _, l := range analysis.Languages {
		keys = append(keys, l.Key)
	}
	return strings.Join(keys, "|")
}

// analysisReport renders an analysis for every output format.
type analysisReport struct {
	resp      *types.AnalyzeResponse
	lang      string
	showEmail bool
}

func (r *analysisReport) MarshalJSON() ([]byte, error) { return json.Marshal(r.resp) }

func (r *analysisReport) TableHeaders() []string {
	return []string{"ID", "SEVERITY", "CLAUSE", "REFERENCE"}
}

func (r *analysisReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.resp.Risks))
	for _, risk := range r.resp.Risks {
		rows = append(rows, []string{risk.ID, strings.ToUpper(string(risk.Severity)), risk.Clause, risk.LegalReference})
	}
	return rows
}

// summary returns the simplified text in the report language.
func (r *analysisReport) summary() string {
	s := r.resp.Simplification
	for _, l := range analysis.Languages {
		if l.Key != r.lang || l.TranslationKey == "" {
			continue
		}
		if t, ok := s.Translations[l.TranslationKey]; ok && t != "" {
			return t
		}
	}
	return s.SimplifiedText
}

func (r *analysisReport) String() string {
	var sb strings.Builder
	resp := r.resp

	if resp.FileName != "" {
		fmt.Fprintf(&sb, "File:       %s\n", resp.FileName)
	}
	if resp.AnalysisID != "" {
		fmt.Fprintf(&sb, "Analysis:   %s\n", resp.AnalysisID)
	}
	fmt.Fprintf(&sb, "Risk score: %d/100 (%s)\n", resp.RiskScore, strings.ToUpper(string(types.RiskBand(resp.RiskScore))))
	counts := types.SeverityCounts(resp.Risks)
	fmt.Fprintf(&sb, "Flags:      %d high, %d medium, %d low\n",
		counts[string(types.SeverityHigh)], counts[string(types.SeverityMedium)], counts[string(types.SeverityLow)])

	if len(resp.Risks) > 0 {
		sb.WriteString("\nFlagged clauses:\n")
		for i, risk := range resp.Risks {
			fmt.Fprintf(&sb, "%d. [%s] %s (%s)\n", i+1, strings.ToUpper(string(risk.Severity)), risk.Clause, risk.LegalReference)
			explanation := risk.Explanation
			if risk.Summary != nil && r.lang != types.LangEnglish {
				if s := risk.Summary.Get(r.lang); s != "" {
					explanation = s
				}
			}
			fmt.Fprintf(&sb, "   %s\n", explanation)
			if risk.Snippet != "" {
				fmt.Fprintf(&sb, "   > %s\n", risk.Snippet)
			}
		}
	}

	sb.WriteString("\nSummary:\n")
	sb.WriteString(r.summary())
	sb.WriteString("\n")

	if rem := resp.Negotiation.CalendarReminder; rem != nil {
		fmt.Fprintf(&sb, "\nReminder: %s on %s\n", rem.Title, rem.Date)
	}
	if r.showEmail && resp.Negotiation.DraftEmail != "" {
		sb.WriteString("\nDraft e-mail:\n")
		sb.WriteString(resp.Negotiation.DraftEmail)
		sb.WriteString("\n")
	}
	if resp.Enrichment != nil && len(resp.Enrichment.LegalGrounding.RelevantSections) > 0 {
		sb.WriteString("\nRelevant sections: ")
		sb.WriteString(strings.Join(resp.Enrichment.LegalGrounding.RelevantSections, "; "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
