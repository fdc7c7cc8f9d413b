package config

import "time"

// ClientConfig configures the API client used by the spacesearch tool.
type ClientConfig struct {
	BaseURL  string        // ADORA_API_URL
	Debounce time.Duration // SEARCH_DEBOUNCE, quiet period before a search fires
	Timeout  time.Duration // CLIENT_TIMEOUT, per request
}

// DefaultDebounce is the quiet period after the last filter change before a
// search is sent.
const DefaultDebounce = 300 * time.Millisecond

// LoadClientConfig reads client settings.  Unlike Load it never exits: every
// value has a default.
func LoadClientConfig() ClientConfig {
	loadDotEnv()
	return ClientConfig{
		BaseURL:  envStr("ADORA_API_URL", "http://localhost:8080"),
		Debounce: envDur("SEARCH_DEBOUNCE", DefaultDebounce),
		Timeout:  envDur("CLIENT_TIMEOUT", 10*time.Second),
	}
}
