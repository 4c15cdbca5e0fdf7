package azure

import (
	"fmt"
	"strings"

	"github.com/jaya855/voicepipe/internal/errors"
	"github.com/jaya855/voicepipe/internal/ssml"
)

// Voice is one entry from the Azure voices catalog.
type Voice struct {
	Name      string `json:"Name"`
	ShortName string `json:"ShortName"`
	Gender    string `json:"Gender"`
	Locale    string `json:"Locale"`
}

// FilterByLocale returns the voices whose Locale matches exactly.
func FilterByLocale(voices []Voice, locale string) []Voice {
	var matched []Voice
	for _, v := range voices {
		if v.Locale == locale {
			matched = append(matched, v)
		}
	}
	return matched
}

// ResolveVoicePair picks the first male and first female voice for a locale.
// No matching voices means the locale is unsupported; a missing gender is
// reported separately so the caller can name what the catalog lacks.
func ResolveVoicePair(voices []Voice, locale string) (ssml.VoicePair, error) {
	matched := FilterByLocale(voices, locale)
	if len(matched) == 0 {
		return ssml.VoicePair{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedLocale, locale)
	}

	var pair ssml.VoicePair
	for _, v := range matched {
		switch {
		case pair.Male == "" && strings.Contains(v.Gender, "Male") && !strings.Contains(v.Gender, "Female"):
			pair.Male = v.ShortName
		case pair.Female == "" && strings.Contains(v.Gender, "Female"):
			pair.Female = v.ShortName
		}
	}

	if pair.Male == "" || pair.Female == "" {
		return ssml.VoicePair{}, fmt.Errorf("missing male or female voice for %s", locale)
	}

	return pair, nil
}
