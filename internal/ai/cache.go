package ai

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize = 256
	// sharedCallTimeout bounds an upstream call that no caller can cancel.
	sharedCallTimeout = 2 * time.Minute
)

// CachedGenerator memoizes answers per prompt and collapses concurrent
// identical prompts into one upstream call. Errors are never cached.
type CachedGenerator struct {
	next   Generator
	logger *zap.Logger

	mu    sync.Mutex
	cache *lru.Cache
	group singleflight.Group

	callTimeout time.Duration
}

// NewCachedGenerator wraps next with an LRU of the given size.
func NewCachedGenerator(next Generator, size int, logger *zap.Logger) *CachedGenerator {
	if size <= 0 {
		size = defaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGenerator{
		next:        next,
		logger:      logger,
		cache:       lru.New(size),
		callTimeout: sharedCallTimeout,
	}
}

func (c *CachedGenerator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	key := promptKey(system, message)

	if out, ok := c.get(key); ok {
		c.logger.Debug("prompt cache hit", zap.String("prompt_key", key[:12]))
		return out, nil
	}

	// The upstream call is shared, so one caller giving up must not fail the others.
	ch := c.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.callTimeout)
		defer cancel()

		out, err := c.next.GenerateContent(callCtx, system, message)
		if err != nil {
			return "", err
		}
		c.put(key, out)
		return out, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug("prompt shared with concurrent caller", zap.String("prompt_key", key[:12]))
		}
		return res.Val.(string), nil
	}
}

func (c *CachedGenerator) Model() string { return c.next.Model() }

// Len reports the number of cached prompts.
func (c *CachedGenerator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *CachedGenerator) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *CachedGenerator) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, value)
}

func promptKey(system, message string) string {
	sum := sha256.Sum256([]byte(system + "\x00" + message))
	return fmt.Sprintf("%x", sum[:])
}
