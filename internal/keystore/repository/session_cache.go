package repository

import (
	"sync"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// MemorySessionCache holds decrypted provider keys for the lifetime of an unlocked session.
//
// Values are stored as byte slices owned by the cache and zeroed when replaced, deleted or
// cleared.
type MemorySessionCache struct {
	mu     sync.RWMutex
	values map[keystoreDomain.Provider][]byte
}

// NewMemorySessionCache creates an empty cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{values: make(map[keystoreDomain.Provider][]byte)}
}

// Get returns the cached plaintext for the provider.
func (c *MemorySessionCache) Get(provider keystoreDomain.Provider) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.values[provider]
	if !ok {
		return "", false
	}
	return string(value), true
}

// Set caches plaintext for the provider.
func (c *MemorySessionCache) Set(provider keystoreDomain.Provider, plaintext string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.values[provider]; ok {
		keystoreDomain.Zero(old)
	}
	c.values[provider] = []byte(plaintext)
}

// Delete drops the cached value of the provider.
func (c *MemorySessionCache) Delete(provider keystoreDomain.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.values[provider]; ok {
		keystoreDomain.Zero(old)
		delete(c.values, provider)
	}
}

// Clear zeroes and drops every cached value.
func (c *MemorySessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for provider, value := range c.values {
		keystoreDomain.Zero(value)
		delete(c.values, provider)
	}
}
