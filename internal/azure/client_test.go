package azure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = StaticCredentials{APIKey: "test-key", Region: "centralindia"}

func TestEndpoint(t *testing.T) {
	creds := Credentials{Region: "centralindia"}
	assert.Equal(t, "https://centralindia.tts.speech.microsoft.com", creds.Endpoint())
}

func TestListVoices(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/cognitiveservices/voices/list", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))

			_ = json.NewEncoder(w).Encode([]Voice{
				{Name: "Microsoft Server Speech (hi-IN, MadhurNeural)", ShortName: "hi-IN-MadhurNeural", Gender: "Male", Locale: "hi-IN"},
				{Name: "Microsoft Server Speech (hi-IN, SwaraNeural)", ShortName: "hi-IN-SwaraNeural", Gender: "Female", Locale: "hi-IN"},
			})
		}))
		defer server.Close()

		client := New(testCreds, WithEndpoint(server.URL))
		voices, err := client.ListVoices(context.Background())
		require.NoError(t, err)
		require.Len(t, voices, 2)
		assert.Equal(t, "hi-IN-MadhurNeural", voices[0].ShortName)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid subscription key", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := New(testCreds, WithEndpoint(server.URL))
		_, err := client.ListVoices(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}

func TestSynthesize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		wav := []byte("RIFF-fake-wav-bytes")
		var gotBody string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/cognitiveservices/v1", r.URL.Path)
			assert.Equal(t, "application/ssml+xml", r.Header.Get("Content-Type"))
			assert.Equal(t, "riff-24khz-16bit-mono-pcm", r.Header.Get("X-Microsoft-OutputFormat"))

			buf, _ := io.ReadAll(r.Body)
			gotBody = string(buf)

			_, _ = w.Write(wav)
		}))
		defer server.Close()

		client := New(testCreds, WithEndpoint(server.URL))
		audio, err := client.Synthesize(context.Background(), "<speak>hello</speak>")
		require.NoError(t, err)
		assert.Equal(t, wav, audio)
		assert.Equal(t, "<speak>hello</speak>", gotBody)
	})

	t.Run("BadRequest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "malformed ssml", http.StatusBadRequest)
		}))
		defer server.Close()

		client := New(testCreds, WithEndpoint(server.URL))
		_, err := client.Synthesize(context.Background(), "not ssml")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "malformed ssml")
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				http.Error(w, "transient", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := New(testCreds, WithEndpoint(server.URL), WithRetryWait(time.Millisecond, 5*time.Millisecond))
		audio, err := client.Synthesize(context.Background(), "<speak/>")
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), audio)
		assert.Equal(t, 3, attempts)
	})
}

func TestResolveVoicePair(t *testing.T) {
	catalog := []Voice{
		{ShortName: "en-US-GuyNeural", Gender: "Male", Locale: "en-US"},
		{ShortName: "hi-IN-MadhurNeural", Gender: "Male", Locale: "hi-IN"},
		{ShortName: "hi-IN-ArjunNeural", Gender: "Male", Locale: "hi-IN"},
		{ShortName: "hi-IN-SwaraNeural", Gender: "Female", Locale: "hi-IN"},
		{ShortName: "ta-IN-ValluvarNeural", Gender: "Male", Locale: "ta-IN"},
	}

	t.Run("PicksFirstOfEachGender", func(t *testing.T) {
		pair, err := ResolveVoicePair(catalog, "hi-IN")
		require.NoError(t, err)
		assert.Equal(t, "hi-IN-MadhurNeural", pair.Male)
		assert.Equal(t, "hi-IN-SwaraNeural", pair.Female)
	})

	t.Run("UnsupportedLocale", func(t *testing.T) {
		_, err := ResolveVoicePair(catalog, "xx-YY")
		assert.Error(t, err)
	})

	t.Run("MissingGender", func(t *testing.T) {
		_, err := ResolveVoicePair(catalog, "ta-IN")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ta-IN")
	})
}

func TestFilterByLocale(t *testing.T) {
	catalog := []Voice{
		{ShortName: "a", Locale: "hi-IN"},
		{ShortName: "b", Locale: "en-US"},
		{ShortName: "c", Locale: "hi-IN"},
	}

	matched := FilterByLocale(catalog, "hi-IN")
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].ShortName)
	assert.Equal(t, "c", matched[1].ShortName)
}
