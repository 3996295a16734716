package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunu2009/socials/internal/catalog"
	"github.com/kunu2009/socials/internal/models"
)

func requested(names ...string) []models.Platform {
	return catalog.Resolve(names)
}

func TestGeneratePrompt(t *testing.T) {
	prompt := GeneratePrompt("remote work benefits", models.ToneProfessional,
		requested(models.PlatformLinkedIn, models.PlatformTikTok))

	assert.Contains(t, prompt, `"remote work benefits"`)
	assert.Contains(t, prompt, "Professional")
	assert.Contains(t, prompt, "LinkedIn, TikTok")
	assert.Contains(t, prompt, "imagePrompt")
	assert.Contains(t, prompt, "videoPrompt")
}

func TestRefinePrompt_ShapeFollowsPlatformKind(t *testing.T) {
	imageDraft := models.GeneratedDraft{PostText: "caption", ImagePrompt: "sunset"}
	videoDraft := models.GeneratedDraft{PostText: "caption", VideoPrompt: "fast cuts", Script: "hook"}

	linkedIn, _ := catalog.ByName(models.PlatformLinkedIn)
	tikTok, _ := catalog.ByName(models.PlatformTikTok)

	imagePrompt := RefinePrompt(imageDraft, "make it shorter", linkedIn)
	assert.Contains(t, imagePrompt, "Original Image Prompt")
	assert.Contains(t, imagePrompt, `"imagePrompt"`)
	assert.NotContains(t, imagePrompt, "Original Script")

	videoPrompt := RefinePrompt(videoDraft, "make it shorter", tikTok)
	assert.Contains(t, videoPrompt, "Original Video Prompt")
	assert.Contains(t, videoPrompt, "Original Script")
	assert.Contains(t, videoPrompt, `"videoPrompt", "script"`)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"No fence", `[{"a":1}]`, `[{"a":1}]`},
		{"Json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"Bare fence", "```\n[1]\n```", "[1]"},
		{"Surrounding whitespace", "  [1]  ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.input))
		})
	}
}

func TestParseDrafts(t *testing.T) {
	raw := `[
		{"platformName":"LinkedIn","postText":"caption","imagePrompt":"sunset"},
		{"platformName":"Myspace","postText":"caption"},
		{"platformName":"TikTok","postText":""}
	]`

	drafts, err := ParseDrafts(raw, requested(models.PlatformLinkedIn, models.PlatformTikTok))

	require.NoError(t, err)
	require.Len(t, drafts, 1, "unknown platforms and empty captions are discarded")
	assert.Equal(t, models.PlatformLinkedIn, drafts[0].PlatformName)
	assert.Equal(t, "sunset", drafts[0].ImagePrompt)
}

func TestParseDrafts_AcceptsWrapperObject(t *testing.T) {
	raw := `{"posts":[{"platformName":"LinkedIn","postText":"caption"}]}`

	drafts, err := ParseDrafts(raw, requested(models.PlatformLinkedIn))

	require.NoError(t, err)
	require.Len(t, drafts, 1)
}

func TestParseDrafts_MalformedIsHardFailure(t *testing.T) {
	_, err := ParseDrafts("the model had a bad day", requested(models.PlatformLinkedIn))
	assert.Error(t, err)
}

func TestParseDraft(t *testing.T) {
	linkedIn, _ := catalog.ByName(models.PlatformLinkedIn)
	tikTok, _ := catalog.ByName(models.PlatformTikTok)

	tests := []struct {
		name     string
		raw      string
		platform models.Platform
		wantErr  bool
	}{
		{
			name:     "Valid image draft",
			raw:      `{"platformName":"LinkedIn","postText":"caption","imagePrompt":"sunset"}`,
			platform: linkedIn,
		},
		{
			name:     "Valid video draft",
			raw:      `{"postText":"caption","videoPrompt":"cuts","script":"hook"}`,
			platform: tikTok,
		},
		{
			name:     "Image draft missing prompt",
			raw:      `{"postText":"caption"}`,
			platform: linkedIn,
			wantErr:  true,
		},
		{
			name:     "Video draft missing script",
			raw:      `{"postText":"caption","videoPrompt":"cuts"}`,
			platform: tikTok,
			wantErr:  true,
		},
		{
			name:     "Empty post text",
			raw:      `{"postText":"","imagePrompt":"sunset"}`,
			platform: linkedIn,
			wantErr:  true,
		},
		{
			name:     "Malformed",
			raw:      `nope`,
			platform: linkedIn,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := ParseDraft(tt.raw, tt.platform)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.platform.Name, draft.PlatformName, "platform name is pinned to the target")
		})
	}
}
