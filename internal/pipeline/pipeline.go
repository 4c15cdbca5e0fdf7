// Package pipeline runs the end-to-end synthesis job: transcript CSV in,
// voiceover audio in S3 out.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/services"
	"github.com/jaya855/voicepipe/internal/ssml"
	"github.com/jaya855/voicepipe/internal/transcript"
)

// ObjectStore stores pipeline artifacts and returns their URIs.
type ObjectStore interface {
	Put(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, uri string) ([]byte, error)
}

// SpeechClient is the Azure Speech surface the pipeline needs.
type SpeechClient interface {
	ListVoices(ctx context.Context) ([]azure.Voice, error)
	Synthesize(ctx context.Context, ssmlDoc string) ([]byte, error)
}

// Tracker records job history. A nil Tracker disables tracking.
type Tracker interface {
	Create(ctx context.Context, input jobdao.CreateInput) (jobdao.Record, error)
	UpdateStatus(ctx context.Context, input jobdao.UpdateInput) error
}

// InputError marks failures caused by the uploaded file or locale, as opposed
// to upstream or internal failures.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

func badInput(err error) error {
	return &InputError{Err: err}
}

// RunInput is one upload to process.
type RunInput struct {
	Locale     string // cleaned locale code, e.g. hi-IN
	SourceFile string // original upload filename
	CSV        []byte
}

// Result holds the artifacts of a successful run. EnglishAudioURI is empty
// when the transcript has no English column.
type Result struct {
	JobID           string
	InputURI        string
	EnglishAudioURI string
	AudioURI        string
}

// Pipeline orchestrates a synthesis job.
type Pipeline struct {
	store   ObjectStore
	speech  SpeechClient
	tracker Tracker
	env     string
}

// New creates a Pipeline. tracker may be nil to disable job history.
func New(store ObjectStore, speech SpeechClient, tracker Tracker, env string) *Pipeline {
	return &Pipeline{
		store:   store,
		speech:  speech,
		tracker: tracker,
		env:     env,
	}
}

// Run processes one upload end to end.
func (p *Pipeline) Run(ctx context.Context, input RunInput) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := transcript.Parse(input.CSV)
	if err != nil {
		return nil, badInput(err)
	}

	sk := ksuid.New().String()
	pk := jobdao.NewPK(input.Locale, p.env)
	jobID := jobdao.NewID(pk, sk).String()

	inputURI, err := p.store.Put(ctx, services.InputFolder, sk+".csv", input.CSV, "text/csv")
	if err != nil {
		return nil, err
	}

	p.trackCreate(ctx, jobdao.CreateInput{
		Locale:     input.Locale,
		Env:        p.env,
		SK:         sk,
		SourceFile: input.SourceFile,
		InputURI:   inputURI,
	})
	p.trackStatus(ctx, pk, sk, jobdao.JobStatusInProgress, nil, nil, nil)

	result, err := p.synthesize(ctx, doc, input.Locale, sk)
	if err != nil {
		msg := err.Error()
		p.trackStatus(ctx, pk, sk, jobdao.JobStatusFailed, &msg, nil, nil)
		return nil, err
	}

	result.JobID = jobID
	result.InputURI = inputURI
	p.trackStatus(ctx, pk, sk, jobdao.JobStatusSuccess, nil, &result.EnglishAudioURI, &result.AudioURI)

	logger.Info().
		Str("job_id", jobID).
		Str("locale", input.Locale).
		Str("audio_uri", result.AudioURI).
		Str("english_audio_uri", result.EnglishAudioURI).
		Msg("Synthesis job completed")

	return result, nil
}

func (p *Pipeline) synthesize(ctx context.Context, doc *transcript.Document, locale, sk string) (*Result, error) {
	catalog, err := p.speech.ListVoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve supported voices: %w", err)
	}

	voices, err := azure.ResolveVoicePair(catalog, locale)
	if err != nil {
		return nil, badInput(err)
	}

	var result Result

	// English pass with the fixed voice pair. Transcripts without an
	// English column skip it rather than failing the job.
	if doc.HasColumn(transcript.EnglishColumn) {
		utterances, err := doc.Utterances(transcript.EnglishColumn)
		if err != nil {
			return nil, badInput(err)
		}
		result.EnglishAudioURI, err = p.renderAndSynthesize(ctx, sk+"-en", utterances, ssml.EnglishVoices, "en-US")
		if err != nil {
			return nil, err
		}
	}

	code := transcript.CountryCode(locale)
	column, ok := doc.FindTranscriptionColumn(code)
	if !ok {
		return nil, badInput(fmt.Errorf("CSV missing column '%s--Transcription'", code))
	}

	if err := transcript.VerifyLanguage(locale, doc.FirstTranscription(column)); err != nil {
		return nil, badInput(err)
	}

	utterances, err := doc.Utterances(column)
	if err != nil {
		return nil, badInput(err)
	}

	result.AudioURI, err = p.renderAndSynthesize(ctx, sk, utterances, voices, locale)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// renderAndSynthesize stores the rendered SSML, reads the archived copy back,
// and synthesizes from it, so Azure always receives exactly what was archived.
func (p *Pipeline) renderAndSynthesize(ctx context.Context, name string, utterances []transcript.Utterance, voices ssml.VoicePair, lang string) (string, error) {
	doc := ssml.Render(utterances, voices, lang)

	ssmlURI, err := p.store.Put(ctx, services.SSMLFolder, name+".ssml", []byte(doc), "application/ssml+xml")
	if err != nil {
		return "", err
	}

	stored, err := p.store.Get(ctx, ssmlURI)
	if err != nil {
		return "", err
	}

	audio, err := p.speech.Synthesize(ctx, string(stored))
	if err != nil {
		return "", err
	}

	return p.store.Put(ctx, services.AudioFolder, name+".wav", audio, "audio/wav")
}

// Tracking is best-effort: a broken jobs table must never fail a synthesis
// that otherwise succeeded.
func (p *Pipeline) trackCreate(ctx context.Context, input jobdao.CreateInput) {
	if p.tracker == nil {
		return
	}
	if _, err := p.tracker.Create(ctx, input); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("sk", input.SK).Msg("Failed to create job record")
	}
}

func (p *Pipeline) trackStatus(ctx context.Context, pk jobdao.PK, sk string, status jobdao.JobStatus, errMsg, englishURI, audioURI *string) {
	if p.tracker == nil {
		return
	}
	err := p.tracker.UpdateStatus(ctx, jobdao.UpdateInput{
		PK:              pk,
		SK:              sk,
		Status:          &status,
		ErrorMsg:        errMsg,
		EnglishAudioURI: englishURI,
		AudioURI:        audioURI,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("sk", sk).Str("status", string(status)).Msg("Failed to update job record")
	}
}
