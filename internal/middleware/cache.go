package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/adora-ads/adora-api/internal/config"
)

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

// captureWriter copies the body into buf while forwarding it.  Once more
// than limit bytes were written the copy is abandoned and overflow is set.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes the parts of the request named by cfg.KeyStrategy.
// The query is re-encoded with sorted keys, so the same filters in a
// different order share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	query := r.URL.Query().Encode()

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", query}
	default: // route_query
		parts = []string{"route", c.Path(), "q", query}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:])
}

// NewRedisCache caches successful guest responses (status, headers and body)
// in Redis for cfg.TTL.  Responses carry X-Cache: HIT or MISS.  Requests
// with an Authorization header always reach the handler.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[strings.ToUpper(req.Method)] || req.Header.Get(echo.HeaderAuthorization) != "" {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c)

			if raw, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil {
					h := c.Response().Header()
					for k, vals := range hit.Header {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						h[k] = vals
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(hit.Status)
					_, err := c.Response().Write(hit.Body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflow {
				return nil
			}

			entry := cachedResponse{Status: cw.status, Header: c.Response().Header().Clone(), Body: cw.buf.Bytes()}
			entry.Header.Del("X-Cache")
			if payload, err := json.Marshal(entry); err == nil {
				// the request context may already be done once the body is written
				_ = rdb.Set(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}

// PurgeCache removes every cached response under the configured prefix.
// Listing writes call it so a search never serves a page older than the
// last write.
func PurgeCache(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client) error {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 200).Iterator()
	batch := make([]string, 0, 64)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// CachePurger adapts PurgeCache to the handler.Invalidator interface.
type CachePurger struct {
	Cfg config.CacheConfig
	RDB *redis.Client
}

func (p CachePurger) Invalidate(ctx context.Context) error { return PurgeCache(ctx, p.Cfg, p.RDB) }
