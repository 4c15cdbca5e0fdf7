// Package server exposes the voicepipe HTTP surface: CSV upload, voice
// diagnostics, job history, and a minimal upload homepage.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"

	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/pipeline"
)

//go:embed docroot
var docroot embed.FS

// Runner runs a synthesis job. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, input pipeline.RunInput) (*pipeline.Result, error)
}

// VoiceLister exposes the Azure voice catalog for the diagnostics endpoint.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]azure.Voice, error)
}

// JobStore reads job history. nil when tracking is disabled.
type JobStore interface {
	Find(ctx context.Context, id jobdao.ID) (jobdao.Record, error)
	QueryByLocaleEnv(ctx context.Context, locale, env string) ([]jobdao.Record, error)
	QueryLatest(ctx context.Context, env string) ([]jobdao.Record, error)
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	pipeline Runner
	speech   VoiceLister
	jobs     JobStore
	env      string
}

// NewHandler creates a Handler. jobs may be nil to disable the history endpoints.
func NewHandler(p Runner, speech VoiceLister, jobs JobStore, env string) *Handler {
	return &Handler{
		pipeline: p,
		speech:   speech,
		jobs:     jobs,
		env:      env,
	}
}

// ErrorResponse is the error body shape shared by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadResponse is the success body for POST /upload-csv/.
type UploadResponse struct {
	Message           string `json:"message"`
	JobID             string `json:"job_id,omitempty"`
	EnglishAudioLink  string `json:"english_audio_link,omitempty"`
	LanguageAudioLink string `json:"language_audio_link"`
}

// SetupRouter configures all HTTP routes.
func (h *Handler) SetupRouter() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload-csv/", h.handleUploadCSV)
	mux.HandleFunc("GET /voices", h.handleVoices)
	mux.HandleFunc("GET /jobs", h.handleListJobs)
	mux.HandleFunc("GET /jobs/{id...}", h.handleGetJob)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /", h.handleHome)

	return mux
}

// handleHealth answers load balancer health checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHome serves the embedded upload page.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, err := docroot.ReadFile("docroot/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// jsonResponse writes a JSON response
func (h *Handler) jsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// errorResponse writes an error JSON response
func (h *Handler) errorResponse(w http.ResponseWriter, statusCode int, message string) {
	h.jsonResponse(w, statusCode, ErrorResponse{Error: message})
}
