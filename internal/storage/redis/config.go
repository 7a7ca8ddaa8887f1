package redis

import (
	"time"

	"github.com/mcoot/crackthecode/internal/config"
)

const defaultKeyPrefix = "ctc"

// Config selects the Redis server and the key namespace
type Config struct {
	URL       string
	KeyPrefix string
	PoolSize  int
	// PingTimeout bounds the connectivity check in New
	PingTimeout time.Duration
}

// ConfigFrom maps the storage section of the server configuration
func ConfigFrom(c config.StorageConfig) Config {
	return Config{
		URL:         c.RedisURL,
		KeyPrefix:   c.RedisKeyPrefix,
		PoolSize:    c.RedisPoolSize,
		PingTimeout: 5 * time.Second,
	}
}
