package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

func TestDescribeLanguages(t *testing.T) {
	assert.Equal(t, "English (EN), हिंदी (HI), తెలుగు (TE)", DescribeLanguages())
}

func TestBuildSimplification_NoRisks(t *testing.T) {
	out := BuildSimplification("Plain   agreement\n text.", nil)

	assert.Equal(t, introSafe.EN, out.SimplifiedText)
	assert.Equal(t, introSafe.HI, out.Translations[types.TranslationHindi])
	assert.Equal(t, introSafe.TE, out.Translations[types.TranslationTelugu])
	assert.Equal(t, "Plain agreement text.", out.OriginalText)
	assert.Len(t, out.Translations, 2)
}

func TestBuildSimplification_WithRisks(t *testing.T) {
	ip := &types.LocalizedSummary{EN: "IP moves forever.", HI: "आईपी", TE: "ఐపీ"}
	risks := []types.RiskInsight{
		{ID: "ip_transfer", Summary: ip},
		{ID: "custom"},
		{ID: "dup", Summary: &types.LocalizedSummary{EN: "  IP moves forever.  ", HI: "आईपी", TE: "ఐపీ"}},
	}
	out := BuildSimplification("text", risks)

	assert.Equal(t, introRisky.EN+" IP moves forever. "+closing.EN, out.SimplifiedText)
	assert.Equal(t, introRisky.HI+" आईपी "+closing.HI, out.Translations[types.TranslationHindi])
	assert.Equal(t, introRisky.TE+" ఐపీ "+closing.TE, out.Translations[types.TranslationTelugu])
}

func TestBuildSimplification_OriginalTextBounded(t *testing.T) {
	long := strings.Repeat("अ", 1000)
	out := BuildSimplification(long, nil)
	assert.Equal(t, OriginalTextLimit, utf8.RuneCountInString(out.OriginalText))
	assert.True(t, strings.HasPrefix(long, out.OriginalText))
}

func TestDedupeLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupeLines([]string{" a ", "", "b", "a", "  "}))
}
