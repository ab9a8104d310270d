package market

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// catalogSnapshot is an immutable view of the bulk catalog at one refresh.
type catalogSnapshot struct {
	entries   map[int]CatalogEntry
	refreshed time.Time
}

// catalogCache holds the latest catalog snapshot behind an atomic pointer.
// Concurrent refreshes may race; the overwrite is idempotent and last write
// wins, so no locking is needed (staleness is the only risk, not correctness).
type catalogCache struct {
	snapshot atomic.Pointer[catalogSnapshot]
	ttl      time.Duration
}

func newCatalogCache(ttl time.Duration) *catalogCache {
	return &catalogCache{ttl: ttl}
}

func (cc *catalogCache) get(now time.Time) (map[int]CatalogEntry, bool) {
	snap := cc.snapshot.Load()
	if snap == nil {
		return nil, false
	}
	return snap.entries, now.Sub(snap.refreshed) < cc.ttl
}

func (cc *catalogCache) set(entries map[int]CatalogEntry, now time.Time) {
	cc.snapshot.Store(&catalogSnapshot{entries: entries, refreshed: now})
}

// catalogEntries returns the current catalog, lazily refreshing it when the
// TTL has expired. A failed refresh keeps the previous snapshot intact so
// search stays available on stale data.
func (c *Client) catalogEntries(ctx context.Context) map[int]CatalogEntry {
	entries, fresh := c.catalog.get(c.now())
	if fresh {
		return entries
	}

	fetched, err := c.fetchCatalog(ctx)
	if err != nil {
		c.logger.Warn("catalog refresh failed, keeping stale data",
			zap.Int("stale_entries", len(entries)), zap.Error(err))
		return entries
	}

	c.catalog.set(fetched, c.now())
	c.logger.Info("catalog refreshed", zap.Int("entries", len(fetched)))
	return fetched
}

// fetchCatalog pulls the full bulk catalog dump, keyed by item id.
func (c *Client) fetchCatalog(ctx context.Context) (map[int]CatalogEntry, error) {
	var raw map[int]CatalogEntry
	req := c.client.R().
		SetContext(ctx).
		SetResult(&raw)

	resp, err := c.doRequest(ctx, http.MethodGet, "/catalog", req)
	if err != nil {
		return nil, err
	}

	return *resp.Result().(*map[int]CatalogEntry), nil
}
