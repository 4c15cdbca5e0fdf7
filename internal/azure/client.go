// Package azure is a client for the Azure Speech REST API: listing neural
// voices and synthesizing SSML to audio.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const outputFormat = "riff-24khz-16bit-mono-pcm"

// Credentials hold the Azure Speech subscription key and region. The JSON
// field names match the secret payload stored in AWS Secrets Manager.
type Credentials struct {
	APIKey string `json:"AZURE_API_KEY"`
	Region string `json:"AZURE_REGION"`
}

// Endpoint returns the regional TTS endpoint for the credentials.
func (c Credentials) Endpoint() string {
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com", c.Region)
}

// CredentialsProvider supplies Azure credentials on demand so the client can
// be constructed before the secret has been fetched.
type CredentialsProvider interface {
	AzureCredentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials is a CredentialsProvider for fixed credentials.
type StaticCredentials Credentials

func (s StaticCredentials) AzureCredentials(context.Context) (Credentials, error) {
	return Credentials(s), nil
}

// APIError is a non-2xx response from the Azure Speech API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azure speech api returned %d: %s", e.StatusCode, e.Body)
}

// Client calls the Azure Speech REST API with retries on transient failures.
type Client struct {
	credentials CredentialsProvider
	httpClient  *retryablehttp.Client
	endpoint    string // overrides the regional endpoint when non-empty
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the regional endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryWaitMin = min
		c.httpClient.RetryWaitMax = max
	}
}

// New creates a Client.
func New(credentials CredentialsProvider, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil

	client := &Client{
		credentials: credentials,
		httpClient:  httpClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) resolveEndpoint(creds Credentials) string {
	if c.endpoint != "" {
		return c.endpoint
	}
	return creds.Endpoint()
}

// ListVoices fetches the full catalog of supported voices.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	creds, err := c.credentials.AzureCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load azure credentials: %w", err)
	}

	url := c.resolveEndpoint(creds) + "/cognitiveservices/voices/list"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build voices request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch azure voices: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voices response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var voices []Voice
	if err := json.Unmarshal(body, &voices); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	return voices, nil
}

// Synthesize renders an SSML document to RIFF 24kHz 16-bit mono PCM audio.
func (c *Client) Synthesize(ctx context.Context, ssmlDoc string) ([]byte, error) {
	creds, err := c.credentials.AzureCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load azure credentials: %w", err)
	}

	url := c.resolveEndpoint(creds) + "/cognitiveservices/v1"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, []byte(ssmlDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", creds.APIKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call azure synthesis api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
