package genai

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kunu2009/socials/internal/config"
	"github.com/kunu2009/socials/internal/storage"
)

// ClientFactory builds content clients bound to the current credential. A
// client is cached per credential value, so rotating the key in settings
// takes effect on the next call without restarting anything.
type ClientFactory struct {
	cfg   *config.Config
	store storage.Interface

	mu        sync.Mutex
	cachedKey string
	cached    ContentClient
}

var _ Factory = (*ClientFactory)(nil)

// NewClientFactory creates a factory reading credentials from the settings
// store, falling back to the configured environment key.
func NewClientFactory(cfg *config.Config, store storage.Interface) *ClientFactory {
	return &ClientFactory{cfg: cfg, store: store}
}

// ClientFor returns a content client for the latest credential.
func (f *ClientFactory) ClientFor() (ContentClient, error) {
	key, err := f.store.LoadAPIKey()
	if err != nil {
		logrus.Errorf("Failed to read stored API key: %v", err)
	}
	if key == "" {
		key = f.cfg.APIKey
	}
	if key == "" {
		return nil, ErrNoAPIKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && f.cachedKey == key {
		return f.cached, nil
	}

	client, err := f.build(key)
	if err != nil {
		return nil, err
	}
	f.cached = client
	f.cachedKey = key
	return client, nil
}

func (f *ClientFactory) build(key string) (ContentClient, error) {
	switch f.cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(key, GeminiModels{
			Text:  f.cfg.TextModel,
			Tip:   f.cfg.TipModel,
			Image: f.cfg.ImageModel,
		}), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(key, f.cfg.OpenAIBaseURL, OpenAIModels{
			Text:  f.cfg.TextModel,
			Tip:   f.cfg.TipModel,
			Image: f.cfg.ImageModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown content provider %q", f.cfg.Provider)
	}
}
