package genai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kunu2009/socials/internal/models"
)

const systemPrompt = "You are a social media marketing expert. Reply with exactly the JSON or text requested, without markdown code fences."

// OpenAIClient implements the content contract on top of the official
// openai-go SDK, for OpenAI-compatible deployments.
type OpenAIClient struct {
	client     openai.Client
	textModel  string
	tipModel   string
	imageModel string
}

var _ ContentClient = (*OpenAIClient)(nil)

// OpenAIModels selects the models used for each operation.
type OpenAIModels struct {
	Text  string
	Tip   string
	Image string
}

// NewOpenAIClient creates an OpenAI-backed content client for the
// credential. baseURL may be empty for the default endpoint.
func NewOpenAIClient(apiKey, baseURL string, m OpenAIModels) *OpenAIClient {
	if m.Text == "" {
		m.Text = "gpt-4o"
	}
	if m.Tip == "" {
		m.Tip = "gpt-4o-mini"
	}
	if m.Image == "" {
		m.Image = "dall-e-3"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client:     openai.NewClient(opts...),
		textModel:  m.Text,
		tipModel:   m.Tip,
		imageModel: m.Image,
	}
}

func (o *OpenAIClient) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GeneratePosts issues the bulk content call.
func (o *OpenAIClient) GeneratePosts(ctx context.Context, topic string, tone models.Tone, platforms []models.Platform) ([]models.GeneratedDraft, error) {
	raw, err := o.complete(ctx, o.textModel, GeneratePrompt(topic, tone, platforms))
	if err != nil {
		return nil, err
	}
	return ParseDrafts(raw, platforms)
}

// RefinePost rewrites one draft following the instruction.
func (o *OpenAIClient) RefinePost(ctx context.Context, prior models.GeneratedDraft, instruction string, platform models.Platform) (models.GeneratedDraft, error) {
	raw, err := o.complete(ctx, o.textModel, RefinePrompt(prior, instruction, platform))
	if err != nil {
		return models.GeneratedDraft{}, err
	}
	return ParseDraft(raw, platform)
}

// GenerateProTip asks the lighter model for a one-sentence tip.
func (o *OpenAIClient) GenerateProTip(ctx context.Context, platformName string) (string, error) {
	return o.complete(ctx, o.tipModel, TipPrompt(platformName))
}

func imageSize(aspectRatio string) openai.ImageGenerateParamsSize {
	switch aspectRatio {
	case "1:1":
		return openai.ImageGenerateParamsSize1024x1024
	case "9:16", "2:3", "3:4":
		return openai.ImageGenerateParamsSize1024x1792
	default:
		return openai.ImageGenerateParamsSize1792x1024
	}
}

// GenerateImage synthesizes a single image and returns it as a data URL.
// The aspect ratio is mapped to the closest size the API supports.
func (o *OpenAIClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(o.imageModel),
		Size:           imageSize(aspectRatio),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		N:              openai.Int(1),
	})
	if err != nil {
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("image API did not return image data")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}
