package models

// APIKey holds the static configuration attached to one opaque key string.
// The key table is seeded at startup and never mutated.
type APIKey struct {
	Tier       string `json:"tier"`
	DailyLimit int    `json:"daily_limit"`
}

// MaskKey returns a display-safe form of an API key: the first 8
// characters followed by "...".
func MaskKey(key string) string {
	if len(key) > 8 {
		key = key[:8]
	}
	return key + "..."
}
