package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunu2009/socials/internal/config"
	"github.com/kunu2009/socials/internal/storage"
)

func newTestFactory(t *testing.T) (*ClientFactory, storage.Interface) {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{Provider: config.ProviderGemini}
	return NewClientFactory(cfg, store), store
}

func TestClientFactory_NoCredential(t *testing.T) {
	factory, _ := newTestFactory(t)

	_, err := factory.ClientFor()
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClientFactory_CachesPerCredential(t *testing.T) {
	factory, store := newTestFactory(t)
	require.NoError(t, store.SaveAPIKey("key-one"))

	first, err := factory.ClientFor()
	require.NoError(t, err)
	second, err := factory.ClientFor()
	require.NoError(t, err)
	assert.Same(t, first, second, "client reused while the credential is unchanged")

	// Rotating the key takes effect on the next call.
	require.NoError(t, store.SaveAPIKey("key-two"))
	third, err := factory.ClientFor()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestClientFactory_EnvironmentFallback(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{Provider: config.ProviderOpenAI, APIKey: "env-key"}
	factory := NewClientFactory(cfg, store)

	client, err := factory.ClientFor()
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
}
