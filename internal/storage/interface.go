package storage

// Interface defines the contract for the persisted user settings. The only
// value carried across sessions is the generative-AI API key; generated
// content never outlives the active session.
type Interface interface {
	SaveAPIKey(key string) error
	LoadAPIKey() (string, error)
}
