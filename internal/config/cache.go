package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of the guest search
// and detail routes.  Listing writes purge every entry under Prefix, so TTL
// only bounds how long an unchanged page is reused.
type CacheConfig struct {
	Enabled      bool            // CACHE_ENABLED
	Methods      map[string]bool // CACHE_METHODS, upper-cased, e.g. GET,HEAD
	TTL          time.Duration   // CACHE_TTL
	KeyStrategy  string          // CACHE_KEY_STRATEGY: route | method_route | route_query | method_route_query
	Prefix       string          // CACHE_PREFIX
	MaxBodyBytes int             // CACHE_MAX_BODY_BYTES; larger responses are not stored
}

// LoadCacheConfig reads CACHE_* with defaults suited to search pages.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "adora:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := make(map[string]bool)
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
