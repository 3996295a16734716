package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kunu2009/socials/internal/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient talks to the Google Generative Language REST API.
type GeminiClient struct {
	apiKey     string
	client     *resty.Client
	textModel  string
	tipModel   string
	imageModel string
}

var _ ContentClient = (*GeminiClient)(nil)

// GeminiModels selects the models used for each operation.
type GeminiModels struct {
	Text  string
	Tip   string
	Image string
}

// NewGeminiClient creates a Gemini-backed content client for the credential.
func NewGeminiClient(apiKey string, m GeminiModels) *GeminiClient {
	if m.Text == "" {
		m.Text = "gemini-2.5-pro"
	}
	if m.Tip == "" {
		m.Tip = "gemini-2.5-flash"
	}
	if m.Image == "" {
		m.Image = "imagen-4.0-generate-001"
	}
	return &GeminiClient{
		apiKey:     apiKey,
		client:     resty.New().SetTimeout(120 * time.Second).SetBaseURL(geminiBaseURL),
		textModel:  m.Text,
		tipModel:   m.Tip,
		imageModel: m.Image,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (g *GeminiClient) SetBaseURL(baseURL string) {
	g.client.SetBaseURL(baseURL)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
	Temperature      float64        `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) generateText(ctx context.Context, model, prompt string, cfg *geminiGenerationConfig) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(geminiRequest{
			Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
			GenerationConfig: cfg,
		}).
		Post(fmt.Sprintf("/models/%s:generateContent", model))

	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

func draftProperties() map[string]any {
	return map[string]any{
		"platformName": map[string]any{
			"type":        "STRING",
			"description": "The name of the social media platform.",
		},
		"postText": map[string]any{
			"type":        "STRING",
			"description": "The text content for the social media post, tailored for the specific platform. Use markdown for formatting.",
		},
		"imagePrompt": map[string]any{
			"type":        "STRING",
			"description": "A detailed, creative prompt for an AI image generator. Only for image-based posts.",
		},
		"videoPrompt": map[string]any{
			"type":        "STRING",
			"description": "A detailed prompt for an AI video generator. Only for video-based posts.",
		},
		"script": map[string]any{
			"type":        "STRING",
			"description": "A brief script or storyboard for a video post. Only for video-based posts.",
		},
	}
}

// GeneratePosts issues the bulk content call with a structured JSON
// response schema constraining platform names to the requested set.
func (g *GeminiClient) GeneratePosts(ctx context.Context, topic string, tone models.Tone, platforms []models.Platform) ([]models.GeneratedDraft, error) {
	props := draftProperties()
	props["platformName"].(map[string]any)["enum"] = platformNames(platforms)

	cfg := &geminiGenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type":       "OBJECT",
				"properties": props,
				"required":   []string{"platformName", "postText"},
			},
		},
		Temperature: 0.7,
	}

	raw, err := g.generateText(ctx, g.textModel, GeneratePrompt(topic, tone, platforms), cfg)
	if err != nil {
		return nil, err
	}
	return ParseDrafts(raw, platforms)
}

// RefinePost rewrites one draft following the instruction.
func (g *GeminiClient) RefinePost(ctx context.Context, prior models.GeneratedDraft, instruction string, platform models.Platform) (models.GeneratedDraft, error) {
	props := draftProperties()
	props["platformName"].(map[string]any)["enum"] = []string{platform.Name}

	required := []string{"platformName", "postText"}
	if platform.IsVideo() {
		required = append(required, "videoPrompt", "script")
	} else {
		required = append(required, "imagePrompt")
	}

	cfg := &geminiGenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: map[string]any{
			"type":       "OBJECT",
			"properties": props,
			"required":   required,
		},
		Temperature: 0.7,
	}

	raw, err := g.generateText(ctx, g.textModel, RefinePrompt(prior, instruction, platform), cfg)
	if err != nil {
		return models.GeneratedDraft{}, err
	}
	return ParseDraft(raw, platform)
}

// GenerateProTip asks the lighter model for a one-sentence tip.
func (g *GeminiClient) GenerateProTip(ctx context.Context, platformName string) (string, error) {
	return g.generateText(ctx, g.tipModel, TipPrompt(platformName), nil)
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio"`
	OutputMIMEType string `json:"outputMimeType"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

// GenerateImage synthesizes a single JPEG and returns it as a data URL.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(imagenRequest{
			Instances: []imagenInstance{{Prompt: prompt}},
			Parameters: imagenParameters{
				SampleCount:    1,
				AspectRatio:    aspectRatio,
				OutputMIMEType: "image/jpeg",
			},
		}).
		Post(fmt.Sprintf("/models/%s:predict", g.imageModel))

	if err != nil {
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("image API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var parsed imagenResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse image response: %w", err)
	}
	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return "", fmt.Errorf("image API did not return image data")
	}
	return "data:image/jpeg;base64," + parsed.Predictions[0].BytesBase64Encoded, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
