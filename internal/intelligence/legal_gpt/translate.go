package legal_gpt

import (
	"context"
	"strings"

	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

type translationTarget struct {
	name        string
	unavailable string
	failed      string
}

var translationTargets = map[string]translationTarget{
	types.TranslationHindi: {
		name:        "Hindi",
		unavailable: "अनुवाद उपलब्ध नहीं है (कोई API कुंजी नहीं)",
		failed:      "अनुवाद त्रुटि",
	},
	types.TranslationTelugu: {
		name:        "Telugu",
		unavailable: "అనువాదం అందుబాటులో లేదు (API కీ లేదు)",
		failed:      "అనువాద లోపం",
	},
}

// DefaultTranslationLanguages is used when a caller names no language.
var DefaultTranslationLanguages = []string{types.TranslationHindi, types.TranslationTelugu}

// SupportsTranslation reports whether lang is a known translation key.
func SupportsTranslation(lang string) bool {
	_, ok := translationTargets[lang]
	return ok
}

// Translate renders text into each requested language, one call per
// language. A language whose call fails gets a fixed fallback string, so the
// result always has one entry per language. Only invalid input is an error.
func (c *Collaborator) Translate(ctx context.Context, text string, languages []string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.InvalidParam("text to translate is empty")
	}
	if len(languages) == 0 {
		languages = DefaultTranslationLanguages
	}
	for _, lang := range languages {
		if !SupportsTranslation(lang) {
			return nil, errors.InvalidParam("unsupported translation language").WithDetail(lang)
		}
	}

	out := make(map[string]string, len(languages))
	if err := c.ready(); err != nil {
		for _, lang := range languages {
			out[lang] = translationTargets[lang].unavailable
		}
		return out, nil
	}

	for _, lang := range languages {
		target := translationTargets[lang]
		if _, done := out[lang]; done {
			continue
		}
		prompt, err := BuildTranslationPrompt(text, target.name)
		if err == nil {
			var reply string
			reply, err = c.complete(ctx, OpTranslate, c.cfg.Translation, prompt)
			if reply = strings.TrimSpace(reply); err == nil && reply != "" {
				out[lang] = reply
				continue
			}
		}
		c.logger.Warn("translation fell back", logging.String("language", lang), logging.Err(err))
		out[lang] = target.failed
	}
	return out, nil
}
