package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tone is the writing style applied to every generated caption.
type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneWitty         Tone = "Witty"
	ToneUrgent        Tone = "Urgent"
	ToneCasual        Tone = "Casual"
	ToneInspirational Tone = "Inspirational"
)

// Tones lists every supported tone in display order.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneWitty, ToneUrgent, ToneCasual, ToneInspirational}
}

// ImageMode selects the image acquisition strategy for a generation run.
type ImageMode string

const (
	ImageModeAI    ImageMode = "ai"
	ImageModeStock ImageMode = "stock"
)

// PlatformKind determines which media fields a draft carries.
type PlatformKind string

const (
	KindImage PlatformKind = "image"
	KindVideo PlatformKind = "video"
)

// Platform names as they appear in provider requests and responses.
const (
	PlatformLinkedIn       = "LinkedIn"
	PlatformTwitter        = "X (Twitter)"
	PlatformInstagram      = "Instagram"
	PlatformPinterest      = "Pinterest"
	PlatformPinterestVideo = "Pinterest Video"
	PlatformFacebook       = "Facebook"
	PlatformTikTok         = "TikTok"
)

// Platform describes one supported destination. Platforms are defined once
// in the catalog and referenced by name everywhere else.
type Platform struct {
	Name        string       `json:"name"`
	AspectRatio string       `json:"aspectRatio"` // "16:9", "1:1", "2:3", "9:16"
	Icon        string       `json:"icon"`
	Kind        PlatformKind `json:"kind"`
}

// IsVideo reports whether drafts for this platform carry a video prompt and
// script instead of an image prompt.
func (p Platform) IsVideo() bool {
	return p.Kind == KindVideo
}

// GeneratedDraft is the provider-produced text bundle for one platform,
// prior to image and tip enrichment. JSON field names match the structured
// response contract of the generative provider.
type GeneratedDraft struct {
	PlatformName string `json:"platformName"`
	PostText     string `json:"postText"`
	ImagePrompt  string `json:"imagePrompt,omitempty"`
	VideoPrompt  string `json:"videoPrompt,omitempty"`
	Script       string `json:"script,omitempty"`
}

// SocialPost is a draft enriched with a resolved image, provenance flag and
// advisory tip. This is the unit rendered to the user.
type SocialPost struct {
	GeneratedDraft
	ImageURL  string   `json:"imageUrl,omitempty"`
	IsAIImage bool     `json:"isAiImage"`
	Platform  Platform `json:"platform"`
	ProTip    string   `json:"proTip,omitempty"`
}

// GenerationRequest is the bulk-generation input. It is transient and never
// persisted.
type GenerationRequest struct {
	Topic     string    `json:"topic" validate:"required"`
	Tone      Tone      `json:"tone" validate:"required,oneof=Professional Witty Urgent Casual Inspirational"`
	Platforms []string  `json:"platforms" validate:"required,min=1,unique"`
	ImageMode ImageMode `json:"imageMode" validate:"omitempty,oneof=ai stock"`
}

// ErrValidation marks failures that must be rejected before any external
// call is made.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

// Normalize trims the topic and applies defaults. Call before Validate.
func (r *GenerationRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.ImageMode == "" {
		r.ImageMode = ImageModeAI
	}
}

// Validate checks the request invariants: trimmed non-empty topic, a known
// tone and at least one distinct platform.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: please provide a topic", ErrValidation)
	}
	if len(r.Platforms) == 0 {
		return fmt.Errorf("%w: please select at least one platform", ErrValidation)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// StockQuery is the free-text query used for stock photo lookup. It is built
// from the topic and tone of the generation, never from the image prompt.
func StockQuery(topic string, tone Tone) string {
	return topic + " " + string(tone)
}
