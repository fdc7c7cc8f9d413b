package config

import (
	"strings"
	"time"
)

// RateLimitConfig drives the Redis token bucket applied to the API.  Search
// traffic is bursty while users type, so the default capacity allows a
// short burst and refills one token per second.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size, the largest burst
	RefillTokens   int           // tokens added per RefillInterval
	RefillInterval time.Duration
	TTL            time.Duration // idle buckets expire after TTL
	KeyStrategy    string        // ip | user | route | ip_user | ip_route | user_route | ip_user_route
	Prefix         string
	Debug          bool          // log decisions and expose X-RateLimit-Key
}

// LoadRateLimitConfig reads RATE_LIMIT_* and clamps the values into a
// usable range.  RATE_LIMIT_BURST and RATE_LIMIT_REFILL_EVERY are accepted
// as shorthands for capacity and a one-token refill period.
func LoadRateLimitConfig() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "adora:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if burst := envInt("RATE_LIMIT_BURST", 0); burst > 0 {
		rl.Capacity = burst
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		rl.RefillTokens, rl.RefillInterval = 1, every
	}
	return rl.clamp()
}

// Scoped derives the limiter of one route group.  It gets its own key
// prefix, so its buckets never drain the general one, and its capacity can
// be tuned with RATE_LIMIT_<NAME>_CAPACITY.
func (rl RateLimitConfig) Scoped(name string, capacity int) RateLimitConfig {
	env := "RATE_LIMIT_" + strings.ToUpper(name) + "_CAPACITY"
	rl.Capacity = envInt(env, capacity)
	rl.Prefix = rl.Prefix + ":" + name
	rl.KeyStrategy = "ip"
	return rl.clamp()
}

func (rl RateLimitConfig) clamp() RateLimitConfig {
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	return rl
}
