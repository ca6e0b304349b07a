package analysis

import (
	"strings"

	"github.com/turtacn/SynthLaw/internal/domain/contract"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// OriginalTextLimit caps the excerpt shown next to the simplified summary.
const OriginalTextLimit = 800

var (
	introRisky = types.LocalizedSummary{
		EN: "Synth-Law reviewed the agreement and spotted the following red flags for a freelancer.",
		HI: "Synth-Law ने अनुबंध की समीक्षा की और एक फ्रीलांसर के लिए ये खतरे पहचाने।",
		TE: "Synth-Law ఒప్పందాన్ని పరిశీలించి ఫ్రీలాన్సర్‌కు ఈ ప్రమాదాలను గుర్తించింది.",
	}
	introSafe = types.LocalizedSummary{
		EN: "Good news: no severe red flags were detected, but document the scope and payment milestones before signing.",
		HI: "अच्छी खबर: कोई बड़ा खतरा नहीं मिला, फिर भी हस्ताक्षर से पहले स्कोप और भुगतान माइलस्टोन लिखित में रखें।",
		TE: "మంచి వార్త: పెద్ద ప్రమాదాలు కనిపించలేదు, అయినప్పటికీ సంతకం చేసే ముందు పని పరిధి మరియు చెల్లింపు దశలను లిఖితపూర్వకంగా ఉంచండి.",
	}
	closing = types.LocalizedSummary{
		EN: "Ask for revisions before signing so that payment, liability and IP stay balanced.",
		HI: "हस्ताक्षर करने से पहले इन शर्तों में संशोधन का अनुरोध करें ताकि भुगतान, दायित्व और आईपी संतुलित रहें।",
		TE: "సంతకం చేసే ముందు ఈ నిబంధనలను సరిచేయమని అడగండి, తద్వారా చెల్లింపు, బాధ్యత, ఐపీ సంతులితం అవుతాయి.",
	}
)

// Language describes one supported summary language.
type Language struct {
	Key   string
	Label string
	// TranslationKey is the key under SimplificationInsight.Translations,
	// empty for the primary language.
	TranslationKey string
}

// Languages lists the summary languages, primary first.
var Languages = []Language{
	{Key: types.LangEnglish, Label: "English"},
	{Key: types.LangHindi, Label: "हिंदी", TranslationKey: types.TranslationHindi},
	{Key: types.LangTelugu, Label: "తెలుగు", TranslationKey: types.TranslationTelugu},
}

// DescribeLanguages renders "English (EN), हिंदी (HI), తెలుగు (TE)".
func DescribeLanguages() string {
	parts := make([]string, 0, len(Languages))
	for _, l := range Languages {
		parts = append(parts, l.Label+" ("+strings.ToUpper(l.Key)+")")
	}
	return strings.Join(parts, ", ")
}

// BuildSimplification assembles one plain-language paragraph per language
// from the detected risks.
func BuildSimplification(maskedText string, risks []types.RiskInsight) types.SimplificationInsight {
	intro := introSafe
	if len(risks) > 0 {
		intro = introRisky
	}

	paragraph := func(lang string) string {
		lines := make([]string, 0, len(risks)+2)
		lines = append(lines, intro.Get(lang))
		for _, r := range risks {
			if r.Summary == nil {
				continue
			}
			lines = append(lines, r.Summary.Get(lang))
		}
		if len(risks) > 0 {
			lines = append(lines, closing.Get(lang))
		}
		return strings.Join(dedupeLines(lines), " ")
	}

	out := types.SimplificationInsight{
		OriginalText:   contract.Excerpt(maskedText, OriginalTextLimit),
		SimplifiedText: paragraph(types.LangEnglish),
		Translations:   make(map[string]string, len(Languages)-1),
	}
	for _, l := range Languages {
		if l.TranslationKey != "" {
			out.Translations[l.TranslationKey] = paragraph(l.Key)
		}
	}
	return out
}

// dedupeLines trims each line and drops blanks and exact repeats, keeping
// the first occurrence.
func dedupeLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
