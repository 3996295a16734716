package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kunu2009/socials/internal/models"
	"github.com/sirupsen/logrus"
)

func platformNames(platforms []models.Platform) []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}

// GeneratePrompt builds the bulk-generation prompt. The provider is asked
// for a JSON array with one draft object per platform.
func GeneratePrompt(topic string, tone models.Tone, platforms []models.Platform) string {
	return fmt.Sprintf(`You are a social media marketing expert. Your task is to generate engaging social media content based on a given topic, tone, and list of platforms.

Topic: %q
Tone: %s
Platforms: %s

For each platform, provide a JSON object with the appropriate fields:
- For standard image-based platforms, provide: "platformName", "postText" (the caption, using markdown for formatting), and "imagePrompt" (a creative prompt for an AI image generator).
- For video-based platforms like TikTok or Pinterest Video, provide: "platformName", "postText" (the caption), "videoPrompt" (a prompt for an AI video generator), and "script" (a brief script or storyboard outline).

Return the response as a valid JSON array of these objects, with one object for each requested platform.`,
		topic, tone, strings.Join(platformNames(platforms), ", "))
}

// RefinePrompt builds the single-post refinement prompt. The shape of the
// requested reply depends on the platform kind.
func RefinePrompt(prior models.GeneratedDraft, instruction string, platform models.Platform) string {
	var original, required, fields string
	if platform.IsVideo() {
		original = fmt.Sprintf("Original Post Text: %q\nOriginal Video Prompt: %q\nOriginal Script: %q",
			prior.PostText, prior.VideoPrompt, prior.Script)
		required = "generate a new, improved post text, video prompt, and script."
		fields = `"videoPrompt", "script"`
	} else {
		original = fmt.Sprintf("Original Post Text: %q\nOriginal Image Prompt: %q",
			prior.PostText, prior.ImagePrompt)
		required = "generate a new, improved post text and a corresponding new image prompt."
		fields = `"imagePrompt"`
	}

	return fmt.Sprintf(`You are a social media marketing expert. Your task is to refine an existing social media post based on a specific instruction.

Platform: %s
%s

Refinement Instruction: %q

Based on the instruction, %s
The tone and style should remain appropriate for the platform.

Return the response as a single valid JSON object. You must include "platformName", "postText", and the other relevant fields (%s).`,
		platform.Name, original, instruction, required, fields)
}

// TipPrompt asks for a single-sentence posting tip.
func TipPrompt(platformName string) string {
	return fmt.Sprintf("Provide a single, concise pro-tip for posting on %s. "+
		"Focus on either the best content formats (e.g., carousels, short-form video) or optimal posting times for maximum engagement. "+
		"The tip should be a single sentence.", platformName)
}

// StripCodeFence removes a surrounding markdown code fence, which some
// providers wrap around JSON replies even when asked not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseDrafts decodes a bulk-generation reply. Drafts whose platform name is
// not among the requested platforms are discarded, matching the catalog
// validation contract. A reply that cannot be decoded is a hard failure.
func ParseDrafts(raw string, requested []models.Platform) ([]models.GeneratedDraft, error) {
	raw = StripCodeFence(raw)

	var drafts []models.GeneratedDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		// Some providers can only emit a top-level object; accept a
		// {"posts": [...]} wrapper as well.
		var wrapper struct {
			Posts []models.GeneratedDraft `json:"posts"`
		}
		if werr := json.Unmarshal([]byte(raw), &wrapper); werr != nil || wrapper.Posts == nil {
			return nil, fmt.Errorf("failed to parse generated content: %w", err)
		}
		drafts = wrapper.Posts
	}

	known := make(map[string]bool, len(requested))
	for _, p := range requested {
		known[p.Name] = true
	}

	var valid []models.GeneratedDraft
	for _, d := range drafts {
		if !known[d.PlatformName] {
			logrus.Warnf("Discarding draft for unknown platform %q", d.PlatformName)
			continue
		}
		if strings.TrimSpace(d.PostText) == "" {
			logrus.Warnf("Discarding draft with empty post text for %s", d.PlatformName)
			continue
		}
		valid = append(valid, d)
	}
	return valid, nil
}

// ParseDraft decodes a refinement reply and enforces the shape rules for the
// platform kind: video platforms require a video prompt and script, image
// platforms require an image prompt.
func ParseDraft(raw string, platform models.Platform) (models.GeneratedDraft, error) {
	raw = StripCodeFence(raw)

	var draft models.GeneratedDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return models.GeneratedDraft{}, fmt.Errorf("failed to parse refined post: %w", err)
	}
	if strings.TrimSpace(draft.PostText) == "" {
		return models.GeneratedDraft{}, fmt.Errorf("refined post is missing post text")
	}
	if platform.IsVideo() {
		if draft.VideoPrompt == "" || draft.Script == "" {
			return models.GeneratedDraft{}, fmt.Errorf("refined post for %s is missing video prompt or script", platform.Name)
		}
	} else if draft.ImagePrompt == "" {
		return models.GeneratedDraft{}, fmt.Errorf("refined post for %s is missing image prompt", platform.Name)
	}
	draft.PlatformName = platform.Name
	return draft, nil
}
