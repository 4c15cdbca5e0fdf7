package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
)

const bilingualCSV = `Speaker,Time Markers,EN--Transcription,IN--Transcription
spk_0,0:00,Hello and welcome,नमस्ते और स्वागत है
spk_1,0:05,Thanks for having me,मुझे बुलाने के लिए धन्यवाद
`

const hindiOnlyCSV = `Speaker,Time Markers,IN--Transcription
spk_0,0:00,नमस्ते और स्वागत है
`

type fakeStore struct {
	objects map[string][]byte
	puts    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, folder, filename string, data []byte, _ string) (string, error) {
	uri := "s3://test-bucket/" + folder + filename
	f.objects[uri] = data
	f.puts = append(f.puts, uri)
	return uri, nil
}

func (f *fakeStore) Get(_ context.Context, uri string) ([]byte, error) {
	data, ok := f.objects[uri]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", uri)
	}
	return data, nil
}

type fakeSpeech struct {
	voices     []azure.Voice
	voicesErr  error
	synthErr   error
	synthCalls []string
}

func (f *fakeSpeech) ListVoices(context.Context) ([]azure.Voice, error) {
	return f.voices, f.voicesErr
}

func (f *fakeSpeech) Synthesize(_ context.Context, ssmlDoc string) ([]byte, error) {
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	f.synthCalls = append(f.synthCalls, ssmlDoc)
	return []byte("RIFF" + ssmlDoc[:20]), nil
}

type fakeTracker struct {
	created []jobdao.CreateInput
	updates []jobdao.UpdateInput
}

func (f *fakeTracker) Create(_ context.Context, input jobdao.CreateInput) (jobdao.Record, error) {
	f.created = append(f.created, input)
	return jobdao.Record{PK: jobdao.NewPK(input.Locale, input.Env), SK: input.SK}, nil
}

func (f *fakeTracker) UpdateStatus(_ context.Context, input jobdao.UpdateInput) error {
	f.updates = append(f.updates, input)
	return nil
}

func hindiCatalog() []azure.Voice {
	return []azure.Voice{
		{ShortName: "hi-IN-MadhurNeural", Gender: "Male", Locale: "hi-IN"},
		{ShortName: "hi-IN-SwaraNeural", Gender: "Female", Locale: "hi-IN"},
		{ShortName: "en-US-GuyNeural", Gender: "Male", Locale: "en-US"},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("FullBilingualJob", func(t *testing.T) {
		store := newFakeStore()
		speech := &fakeSpeech{voices: hindiCatalog()}
		tracker := &fakeTracker{}
		p := New(store, speech, tracker, "dev")

		result, err := p.Run(ctx, RunInput{
			Locale:     "hi-IN",
			SourceFile: "episode.csv",
			CSV:        []byte(bilingualCSV),
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.JobID)
		assert.True(t, strings.HasPrefix(result.JobID, "hi-IN/dev:"))
		assert.Contains(t, result.InputURI, "input/")
		assert.Contains(t, result.EnglishAudioURI, "audio/")
		assert.Contains(t, result.EnglishAudioURI, "-en.wav")
		assert.Contains(t, result.AudioURI, "audio/")

		// input CSV + 2 SSML + 2 WAV
		assert.Len(t, store.puts, 5)

		// English pass uses the fixed pair, locale pass the resolved one.
		require.Len(t, speech.synthCalls, 2)
		assert.Contains(t, speech.synthCalls[0], "en-US-GuyNeural")
		assert.Contains(t, speech.synthCalls[1], "hi-IN-MadhurNeural")
		assert.Contains(t, speech.synthCalls[1], "hi-IN-SwaraNeural")

		// PENDING record, then IN_PROGRESS and SUCCESS updates.
		require.Len(t, tracker.created, 1)
		assert.Equal(t, "episode.csv", tracker.created[0].SourceFile)
		require.Len(t, tracker.updates, 2)
		assert.Equal(t, jobdao.JobStatusInProgress, *tracker.updates[0].Status)
		assert.Equal(t, jobdao.JobStatusSuccess, *tracker.updates[1].Status)
		assert.Equal(t, result.AudioURI, *tracker.updates[1].AudioURI)
	})

	t.Run("NoEnglishColumnSkipsEnglishPass", func(t *testing.T) {
		store := newFakeStore()
		speech := &fakeSpeech{voices: hindiCatalog()}
		p := New(store, speech, nil, "dev")

		result, err := p.Run(ctx, RunInput{
			Locale: "hi-IN",
			CSV:    []byte(hindiOnlyCSV),
		})
		require.NoError(t, err)

		assert.Empty(t, result.EnglishAudioURI)
		assert.NotEmpty(t, result.AudioURI)
		assert.Len(t, speech.synthCalls, 1)
	})

	t.Run("BadEncoding", func(t *testing.T) {
		p := New(newFakeStore(), &fakeSpeech{voices: hindiCatalog()}, nil, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "hi-IN", CSV: []byte{0xff, 0xfe}})
		require.Error(t, err)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)
	})

	t.Run("UnsupportedLocale", func(t *testing.T) {
		tracker := &fakeTracker{}
		p := New(newFakeStore(), &fakeSpeech{voices: hindiCatalog()}, tracker, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "xx-YY", CSV: []byte(bilingualCSV)})
		require.Error(t, err)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)

		// Job must be marked FAILED with the error message.
		require.Len(t, tracker.updates, 2)
		assert.Equal(t, jobdao.JobStatusFailed, *tracker.updates[1].Status)
		require.NotNil(t, tracker.updates[1].ErrorMsg)
		assert.Contains(t, *tracker.updates[1].ErrorMsg, "locale")
	})

	t.Run("MissingLocaleColumn", func(t *testing.T) {
		catalog := append(hindiCatalog(),
			azure.Voice{ShortName: "fr-FR-HenriNeural", Gender: "Male", Locale: "fr-FR"},
			azure.Voice{ShortName: "fr-FR-DeniseNeural", Gender: "Female", Locale: "fr-FR"},
		)
		p := New(newFakeStore(), &fakeSpeech{voices: catalog}, nil, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "fr-FR", CSV: []byte(hindiOnlyCSV)})
		require.Error(t, err)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)
		assert.Contains(t, err.Error(), "FR--Transcription")
	})

	t.Run("LanguageMismatch", func(t *testing.T) {
		csv := "Speaker,Time Markers,IN--Transcription\nspk_0,0:00,This is English text where Hindi belongs in this file.\n"
		p := New(newFakeStore(), &fakeSpeech{voices: hindiCatalog()}, nil, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "hi-IN", CSV: []byte(csv)})
		require.Error(t, err)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)
		assert.Contains(t, err.Error(), "Hindi")
	})

	t.Run("SynthesisFailureIsNotInputError", func(t *testing.T) {
		tracker := &fakeTracker{}
		speech := &fakeSpeech{
			voices:   hindiCatalog(),
			synthErr: &azure.APIError{StatusCode: 500, Body: "boom"},
		}
		p := New(newFakeStore(), speech, tracker, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "hi-IN", CSV: []byte(hindiOnlyCSV)})
		require.Error(t, err)

		var inputErr *InputError
		assert.False(t, errors.As(err, &inputErr))

		var apiErr *azure.APIError
		assert.ErrorAs(t, err, &apiErr)

		require.Len(t, tracker.updates, 2)
		assert.Equal(t, jobdao.JobStatusFailed, *tracker.updates[1].Status)
	})

	t.Run("VoiceCatalogFailure", func(t *testing.T) {
		speech := &fakeSpeech{voicesErr: &azure.APIError{StatusCode: 401, Body: "denied"}}
		p := New(newFakeStore(), speech, nil, "dev")

		_, err := p.Run(ctx, RunInput{Locale: "hi-IN", CSV: []byte(hindiOnlyCSV)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supported voices")
	})
}
