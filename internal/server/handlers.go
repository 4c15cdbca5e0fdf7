package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/pipeline"
	"github.com/jaya855/voicepipe/internal/transcript"
)

// uploads larger than this are rejected during multipart parsing
const maxUploadBytes = 32 << 20

// handleUploadCSV accepts a multipart transcript upload and runs the
// synthesis pipeline synchronously.
func (h *Handler) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	locale := transcript.CleanLocale(r.FormValue("source"))
	if locale == "" {
		h.errorResponse(w, http.StatusBadRequest, "source locale is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	contents, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	result, err := h.pipeline.Run(r.Context(), pipeline.RunInput{
		Locale:     locale,
		SourceFile: header.Filename,
		CSV:        contents,
	})
	if err != nil {
		logger.Error().Err(err).Str("locale", locale).Str("filename", header.Filename).Msg("Error processing file")
		h.errorResponse(w, statusFor(err), err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, UploadResponse{
		Message:           "Audio files generated successfully",
		JobID:             result.JobID,
		EnglishAudioLink:  result.EnglishAudioURI,
		LanguageAudioLink: result.AudioURI,
	})
}

// statusFor maps pipeline failures onto HTTP status codes: the caller's
// fault is 400, Azure's fault is 502, everything else 500.
func statusFor(err error) int {
	var inputErr *pipeline.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}

	var apiErr *azure.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// VoicesResponse is the body for GET /voices.
type VoicesResponse struct {
	Locale string        `json:"locale"`
	Voices []azure.Voice `json:"voices"`
	Male   string        `json:"male,omitempty"`
	Female string        `json:"female,omitempty"`
}

// handleVoices reports the catalog entries and the resolved pair for a locale.
func (h *Handler) handleVoices(w http.ResponseWriter, r *http.Request) {
	locale := transcript.CleanLocale(r.URL.Query().Get("locale"))
	if locale == "" {
		h.errorResponse(w, http.StatusBadRequest, "locale query parameter is required")
		return
	}

	catalog, err := h.speech.ListVoices(r.Context())
	if err != nil {
		h.errorResponse(w, statusFor(err), err.Error())
		return
	}

	matched := azure.FilterByLocale(catalog, locale)
	if len(matched) == 0 {
		h.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no voices found for locale %s", locale))
		return
	}

	response := VoicesResponse{
		Locale: locale,
		Voices: matched,
	}
	if pair, err := azure.ResolveVoicePair(catalog, locale); err == nil {
		response.Male = pair.Male
		response.Female = pair.Female
	}

	h.jsonResponse(w, http.StatusOK, response)
}

// handleListJobs lists job history for a locale, or the latest job per
// locale when no locale is given.
func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "job tracking is not configured")
		return
	}

	env := r.URL.Query().Get("env")
	if env == "" {
		env = h.env
	}

	var (
		records []jobdao.Record
		err     error
	)
	if locale := transcript.CleanLocale(r.URL.Query().Get("locale")); locale != "" {
		records, err = h.jobs.QueryByLocaleEnv(r.Context(), locale, env)
	} else {
		records, err = h.jobs.QueryLatest(r.Context(), env)
	}
	if err != nil {
		h.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, records)
}

// handleGetJob fetches a single job record by its full id
// ({locale}/{env}:{ksuid}), which is why the route uses a trailing wildcard.
func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "job tracking is not configured")
		return
	}

	id := jobdao.ID(r.PathValue("id"))
	record, err := h.jobs.Find(r.Context(), id)
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, record)
}
