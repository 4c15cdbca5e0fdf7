// Package ssml renders speech synthesis markup for the Azure Speech API.
package ssml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jaya855/voicepipe/internal/transcript"
)

// VoicePair holds the two voices a rendered document alternates between.
// Speaker spk_0 gets the male voice; every other speaker gets the female one.
type VoicePair struct {
	Male   string
	Female string
}

// EnglishVoices is the fixed pair used for the English rendering pass.
var EnglishVoices = VoicePair{
	Male:   "en-US-GuyNeural",
	Female: "en-US-JennyNeural",
}

// Voice selects the voice for a speaker id.
func (p VoicePair) Voice(speaker string) string {
	if speaker == transcript.DefaultSpeaker {
		return p.Male
	}
	return p.Female
}

// Render builds an SSML document from utterances in row order. Gaps between
// consecutive time markers become <break> elements so the synthesized audio
// keeps the original pacing.
func Render(utterances []transcript.Utterance, voices VoicePair, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'>\n", lang)

	lastOffset := 0
	for _, u := range utterances {
		delay := u.OffsetSeconds - lastOffset
		if delay < 0 {
			delay = 0
		}
		lastOffset = u.OffsetSeconds

		if delay > 0 {
			fmt.Fprintf(&b, "<break time='%ds' />\n", delay)
		}
		fmt.Fprintf(&b, "<voice name='%s'>%s</voice>\n", voices.Voice(u.Speaker), escape(u.Text))
	}

	b.WriteString("</speak>")
	return b.String()
}

func escape(text string) string {
	var b strings.Builder
	// xml.EscapeText only fails on writer errors, which strings.Builder
	// never returns.
	_ = xml.EscapeText(&b, []byte(text))
	return b.String()
}
