package transcript

import (
	"fmt"

	"github.com/abadojack/whatlanggo"
)

// expectedLanguages maps locales to the ISO 639-3 language code their
// transcriptions are expected to be written in. Locales not listed here
// skip the sanity check.
var expectedLanguages = map[string]struct {
	code string
	name string
}{
	"hi-IN": {code: "hin", name: "Hindi"},
	"ta-IN": {code: "tam", name: "Tamil"},
	"te-IN": {code: "tel", name: "Telugu"},
	"bn-IN": {code: "ben", name: "Bengali"},
	"mr-IN": {code: "mar", name: "Marathi"},
	"en-US": {code: "eng", name: "English"},
	"en-GB": {code: "eng", name: "English"},
	"es-ES": {code: "spa", name: "Spanish"},
	"fr-FR": {code: "fra", name: "French"},
	"de-DE": {code: "deu", name: "German"},
	"ja-JP": {code: "jpn", name: "Japanese"},
}

// DetectLanguage returns the ISO 639-3 code of the detected language,
// or "unknown" when detection fails.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if info.Lang == -1 {
		return "unknown"
	}
	return whatlanggo.LangToString(info.Lang)
}

// VerifyLanguage checks sample text from the locale's transcription column
// against the language that locale implies. Locales without a known
// expected language pass unconditionally, as does empty sample text.
func VerifyLanguage(locale, sample string) error {
	expected, ok := expectedLanguages[locale]
	if !ok || sample == "" {
		return nil
	}

	detected := DetectLanguage(sample)
	if detected == "unknown" || detected == expected.code {
		return nil
	}

	return fmt.Errorf("expected %s but detected %s in the %s transcription column",
		expected.name, detected, CountryCode(locale))
}
