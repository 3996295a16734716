package genai

import (
	"context"
	"errors"

	"github.com/kunu2009/socials/internal/models"
)

// ContentClient defines the contract for the generative provider. One
// implementation exists per provider; all of them speak the same structured
// draft contract.
type ContentClient interface {
	// GeneratePosts produces one draft per requested platform in a single
	// call. The response is unordered and best effort: a requested platform
	// may be missing, and unknown platform names are discarded. A
	// malformed response is a hard failure.
	GeneratePosts(ctx context.Context, topic string, tone models.Tone, platforms []models.Platform) ([]models.GeneratedDraft, error)

	// RefinePost rewrites an existing draft following a free-text
	// instruction, returning a full replacement draft of the same shape.
	RefinePost(ctx context.Context, prior models.GeneratedDraft, instruction string, platform models.Platform) (models.GeneratedDraft, error)

	// GenerateProTip returns a one-sentence posting tip for the platform.
	GenerateProTip(ctx context.Context, platformName string) (string, error)

	// GenerateImage synthesizes an image for the prompt and returns it as a
	// data URL.
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error)
}

// Factory hands out a ContentClient bound to the current credential. The
// credential may be rotated by the user at any time between calls, so every
// workflow asks the factory rather than holding a client.
type Factory interface {
	ClientFor() (ContentClient, error)
}

// ErrNoAPIKey is returned when neither the settings store nor the
// environment provides a credential.
var ErrNoAPIKey = errors.New("API key not found; provide one in settings or set GENAI_API_KEY")

// FallbackProTip is substituted whenever a tip request fails. Tip failures
// never surface as errors.
const FallbackProTip = "Engage with your audience by responding to comments and messages promptly to build a strong community."
