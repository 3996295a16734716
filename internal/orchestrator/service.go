package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunu2009/socials/internal/catalog"
	"github.com/kunu2009/socials/internal/genai"
	"github.com/kunu2009/socials/internal/models"
	"github.com/kunu2009/socials/internal/stock"
)

var (
	// ErrNoPost is returned when refine or swap targets a platform with no
	// post in the current result set.
	ErrNoPost = errors.New("no post exists for this platform")

	// ErrNoImage is returned when swap targets a post without an image.
	ErrNoImage = errors.New("post has no image to swap")

	// ErrEmptyInstruction rejects refinement with a blank instruction
	// before any external call.
	ErrEmptyInstruction = errors.New("refinement instruction must not be empty")

	// ErrSuperseded marks a bulk generation whose results arrived after a
	// newer generation had already replaced the result set.
	ErrSuperseded = errors.New("generation superseded by a newer request")
)

// Service is the orchestration core. It owns the current result set, the
// per-platform refining/swapping flags, and the three user workflows: bulk
// generation, single-post refinement and image swap.
type Service struct {
	clients genai.Factory
	stock   stock.Client

	mu           sync.RWMutex
	posts        []models.SocialPost
	refining     map[string]bool
	swapping     map[string]bool
	topic        string
	tone         models.Tone
	generation   uint64
	lastActivity time.Time
}

// NewService creates the orchestration core.
func NewService(clients genai.Factory, stockClient stock.Client) *Service {
	return &Service{
		clients:  clients,
		stock:    stockClient,
		refining: make(map[string]bool),
		swapping: make(map[string]bool),
	}
}

// Generate runs the bulk workflow: one content call, concurrent per-platform
// image and tip enrichment, then a canonical-order sort. Only a failure of
// the bulk content call aborts; per-platform sub-failures degrade to safe
// defaults and never cross platform boundaries.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) ([]models.SocialPost, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client, err := s.clients.ClientFor()
	if err != nil {
		return nil, err
	}

	// A new generation supersedes the previous result set and any of its
	// still-outstanding work.
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.posts = nil
	s.refining = make(map[string]bool)
	s.swapping = make(map[string]bool)
	s.topic = req.Topic
	s.tone = req.Tone
	s.lastActivity = time.Now()
	s.mu.Unlock()

	platforms := catalog.Resolve(req.Platforms)
	logrus.Infof("Generating posts for %d platforms (topic %q, tone %s)", len(platforms), req.Topic, req.Tone)

	drafts, err := client.GeneratePosts(ctx, req.Topic, req.Tone, platforms)
	if err != nil {
		return nil, fmt.Errorf("failed to generate social media content: %w", err)
	}
	if len(drafts) < len(platforms) {
		logrus.Warnf("Content response covered %d of %d requested platforms", len(drafts), len(platforms))
	}

	var wg sync.WaitGroup
	postsChan := make(chan models.SocialPost, len(drafts))

	for _, draft := range drafts {
		platform, ok := catalog.ByName(draft.PlatformName)
		if !ok {
			logrus.Warnf("Dropping draft for unresolvable platform %q", draft.PlatformName)
			continue
		}

		wg.Add(1)
		go func(draft models.GeneratedDraft, platform models.Platform) {
			defer wg.Done()
			postsChan <- s.enrich(ctx, client, draft, platform, req)
		}(draft, platform)
	}

	wg.Wait()
	close(postsChan)

	posts := make([]models.SocialPost, 0, len(drafts))
	for post := range postsChan {
		posts = append(posts, post)
	}

	// Arrival order is nondeterministic; canonical order is restored here
	// and only here.
	sort.SliceStable(posts, func(i, j int) bool {
		return catalog.IndexOf(posts[i].Platform.Name) < catalog.IndexOf(posts[j].Platform.Name)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		logrus.Infof("Discarding stale results for generation %d (current %d)", gen, s.generation)
		return nil, ErrSuperseded
	}
	s.posts = posts
	s.lastActivity = time.Now()

	logrus.Infof("Generation complete: %d posts", len(posts))
	return clonePosts(posts), nil
}

// enrich runs the per-platform fan-out: image acquisition (when the draft
// carries an image prompt) and the pro tip, fetched concurrently. Failures
// here resolve to safe defaults and never abort other platforms.
func (s *Service) enrich(ctx context.Context, client genai.ContentClient, draft models.GeneratedDraft, platform models.Platform, req models.GenerationRequest) models.SocialPost {
	var (
		wg       sync.WaitGroup
		imageURL string
		proTip   string
	)

	if draft.ImagePrompt != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var (
				url string
				err error
			)
			if req.ImageMode == models.ImageModeAI {
				url, err = client.GenerateImage(ctx, draft.ImagePrompt, platform.AspectRatio)
			} else {
				url, err = s.stock.FetchImage(ctx, models.StockQuery(req.Topic, req.Tone), platform.AspectRatio)
			}
			if err != nil {
				logrus.Errorf("Failed to acquire image for %s: %v", platform.Name, err)
				return
			}
			imageURL = url
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		tip, err := client.GenerateProTip(ctx, platform.Name)
		if err != nil || strings.TrimSpace(tip) == "" {
			logrus.Warnf("Could not generate pro tip for %s: %v", platform.Name, err)
			tip = genai.FallbackProTip
		}
		proTip = tip
	}()

	wg.Wait()

	return models.SocialPost{
		GeneratedDraft: draft,
		ImageURL:       imageURL,
		IsAIImage:      req.ImageMode == models.ImageModeAI,
		Platform:       platform,
		ProTip:         proTip,
	}
}

// Refine rewrites the post for one platform following a free-text
// instruction. Only that platform's entry is mutated; a failure preserves
// its previous content.
func (s *Service) Refine(ctx context.Context, platformName, instruction string) (models.SocialPost, error) {
	if strings.TrimSpace(instruction) == "" {
		return models.SocialPost{}, ErrEmptyInstruction
	}

	s.mu.Lock()
	idx := s.indexOfLocked(platformName)
	if idx < 0 {
		s.mu.Unlock()
		return models.SocialPost{}, ErrNoPost
	}
	prior := s.posts[idx]
	gen := s.generation
	s.refining[platformName] = true
	s.lastActivity = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.refining, platformName)
		s.mu.Unlock()
	}()

	client, err := s.clients.ClientFor()
	if err != nil {
		return models.SocialPost{}, fmt.Errorf("failed to refine post for %s: %w", platformName, err)
	}

	refined, err := client.RefinePost(ctx, prior.GeneratedDraft, instruction, prior.Platform)
	if err != nil {
		return models.SocialPost{}, fmt.Errorf("failed to refine post for %s: %w", platformName, err)
	}

	// A changed image prompt on an AI-sourced post triggers a regeneration;
	// if that fails the previous image stays.
	imageURL := prior.ImageURL
	if refined.ImagePrompt != "" && refined.ImagePrompt != prior.ImagePrompt && prior.IsAIImage {
		if url, err := client.GenerateImage(ctx, refined.ImagePrompt, prior.Platform.AspectRatio); err != nil {
			logrus.Errorf("Failed to regenerate image for %s, keeping previous: %v", platformName, err)
		} else {
			imageURL = url
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return models.SocialPost{}, ErrSuperseded
	}
	idx = s.indexOfLocked(platformName)
	if idx < 0 {
		return models.SocialPost{}, ErrNoPost
	}
	updated := s.posts[idx]
	updated.GeneratedDraft = refined
	updated.ImageURL = imageURL
	s.posts[idx] = updated
	s.lastActivity = time.Now()
	return updated, nil
}

// SwapImage replaces only the image of one post. AI-sourced posts re-roll
// the existing prompt verbatim; stock-sourced posts re-query with the
// generation's topic and tone. On failure the old image stays in place.
func (s *Service) SwapImage(ctx context.Context, platformName string) (models.SocialPost, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(platformName)
	if idx < 0 {
		s.mu.Unlock()
		return models.SocialPost{}, ErrNoPost
	}
	prior := s.posts[idx]
	if prior.ImageURL == "" {
		s.mu.Unlock()
		return models.SocialPost{}, ErrNoImage
	}
	topic, tone := s.topic, s.tone
	gen := s.generation
	s.swapping[platformName] = true
	s.lastActivity = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.swapping, platformName)
		s.mu.Unlock()
	}()

	var (
		url string
		err error
	)
	if prior.IsAIImage && prior.ImagePrompt != "" {
		var client genai.ContentClient
		client, err = s.clients.ClientFor()
		if err == nil {
			url, err = client.GenerateImage(ctx, prior.ImagePrompt, prior.Platform.AspectRatio)
		}
	} else {
		url, err = s.stock.FetchImage(ctx, models.StockQuery(topic, tone), prior.Platform.AspectRatio)
	}
	if err != nil {
		return models.SocialPost{}, fmt.Errorf("failed to swap image for %s: %w", platformName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return models.SocialPost{}, ErrSuperseded
	}
	idx = s.indexOfLocked(platformName)
	if idx < 0 {
		return models.SocialPost{}, ErrNoPost
	}
	updated := s.posts[idx]
	updated.ImageURL = url
	s.posts[idx] = updated
	s.lastActivity = time.Now()
	return updated, nil
}

// Snapshot is the orchestration state handed to the presentation layer.
type Snapshot struct {
	Posts    []models.SocialPost `json:"posts"`
	Refining map[string]bool     `json:"refining"`
	Swapping map[string]bool     `json:"swapping"`
}

// State returns a copy of the current posts and per-platform flags.
func (s *Service) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Posts:    clonePosts(s.posts),
		Refining: cloneFlags(s.refining),
		Swapping: cloneFlags(s.swapping),
	}
}

// ExpireIfIdle discards the result set once it has been untouched for ttl.
// Generated content must not outlive the active session.
func (s *Service) ExpireIfIdle(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.posts) == 0 || time.Since(s.lastActivity) < ttl {
		return false
	}

	logrus.Infof("Expiring idle session: discarding %d posts", len(s.posts))
	s.generation++
	s.posts = nil
	s.refining = make(map[string]bool)
	s.swapping = make(map[string]bool)
	return true
}

func (s *Service) indexOfLocked(platformName string) int {
	for i, p := range s.posts {
		if p.Platform.Name == platformName {
			return i
		}
	}
	return -1
}

func clonePosts(posts []models.SocialPost) []models.SocialPost {
	out := make([]models.SocialPost, len(posts))
	copy(out, posts)
	return out
}

func cloneFlags(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for k, v := range flags {
		out[k] = v
	}
	return out
}
