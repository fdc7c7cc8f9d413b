package config

// Redis backs the rate limiter, the guest response cache and the admin stats
// snapshot.  It is optional: when the server cannot be reached the API runs
// without any of the three.

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings.
type RedisConfig struct {
	Addr     string // REDIS_ADDR, or REDIS_HOST + REDIS_PORT
	Password string // REDIS_PASSWORD
	DB       int    // REDIS_DB
	TLS      bool   // REDIS_TLS
}

// LoadRedisConfig reads the Redis variables.  REDIS_HOST and REDIS_PORT win
// over REDIS_ADDR when both are set.
func LoadRedisConfig() RedisConfig {
	rc := RedisConfig{
		Addr:     envStr("REDIS_ADDR", "localhost:6379"),
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		TLS:      envBool("REDIS_TLS", false),
	}
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		rc.Addr = net.JoinHostPort(host, port)
	}
	return rc
}

// Options converts rc into go-redis options.
func (rc RedisConfig) Options() *redis.Options {
	opt := &redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB}
	if rc.TLS {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt
}

// NewRedisClient connects with LoadRedisConfig and returns nil when the
// server does not answer a ping within two seconds.
func NewRedisClient() *redis.Client {
	rc := LoadRedisConfig()
	client := redis.NewClient(rc.Options())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable: %v", rc.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
