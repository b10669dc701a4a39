package application

import (
	"sync"

	"github.com/bnema/crosspost/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CredentialCache remembers how each CredentialRef resolved during one run,
// including failures, so a ref is never looked up or prompted for twice.
type CredentialCache struct {
	mu      sync.Mutex
	entries map[domain.CredentialRef]cacheEntry
	flight  singleflight.Group
}

type cacheEntry struct {
	credential domain.Credential
	err        error
}

func NewCredentialCache() *CredentialCache {
	return &CredentialCache{entries: map[domain.CredentialRef]cacheEntry{}}
}

func (c *CredentialCache) lookup(ref domain.CredentialRef) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ref]
	return entry, ok
}

func (c *CredentialCache) store(ref domain.CredentialRef, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ref] = entry
}

func (c *CredentialCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear drops every cached credential. The next Resolve of any ref goes back
// to the secret store.
func (c *CredentialCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[domain.CredentialRef]cacheEntry{}
}

func flightKey(ref domain.CredentialRef) string {
	return ref.Service + "\x00" + ref.Key
}
