package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunu2009/socials/internal/catalog"
	"github.com/kunu2009/socials/internal/models"
)

func geminiTextResponse(text string) string {
	body := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestGeminiClient_GeneratePosts(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(geminiTextResponse(`[{"platformName":"LinkedIn","postText":"caption","imagePrompt":"sunset"}]`)))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", GeminiModels{})
	client.SetBaseURL(server.URL)

	drafts, err := client.GeneratePosts(context.Background(), "remote work", models.ToneProfessional,
		catalog.Resolve([]string{models.PlatformLinkedIn}))

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "caption", drafts[0].PostText)
	assert.Equal(t, "/models/gemini-2.5-pro:generateContent", gotPath)

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.NotNil(t, cfg["responseSchema"])
}

func TestGeminiClient_ErrorStatusIsHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("bad-key", GeminiModels{})
	client.SetBaseURL(server.URL)

	_, err := client.GeneratePosts(context.Background(), "remote work", models.ToneProfessional,
		catalog.Resolve([]string{models.PlatformLinkedIn}))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGeminiClient_GenerateProTip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		w.Write([]byte(geminiTextResponse("  Post on Tuesdays.  ")))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", GeminiModels{})
	client.SetBaseURL(server.URL)

	tip, err := client.GenerateProTip(context.Background(), models.PlatformLinkedIn)

	require.NoError(t, err)
	assert.Equal(t, "Post on Tuesdays.", tip)
}

func TestGeminiClient_GenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/imagen-4.0-generate-001:predict", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		params := body["parameters"].(map[string]any)
		assert.Equal(t, "16:9", params["aspectRatio"])

		w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"aGVsbG8="}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", GeminiModels{})
	client.SetBaseURL(server.URL)

	url, err := client.GenerateImage(context.Background(), "a calm office", "16:9")

	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", url)
}

func TestGeminiClient_GenerateImage_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", GeminiModels{})
	client.SetBaseURL(server.URL)

	_, err := client.GenerateImage(context.Background(), "a calm office", "16:9")
	assert.Error(t, err)
}
