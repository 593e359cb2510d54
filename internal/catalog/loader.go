// internal/catalog/loader.go
//
// Last-request-wins catalog loading.
//
// Switching language mid-load must never apply a stale result: each Load
// bumps a generation counter and cancels the context of the previous
// in-flight request. A completed fetch only lands in the cache if its
// generation is still current; otherwise the result is discarded.
//
// Successful loads are cached per language, so repeated schedule lookups
// for the same language do not re-fetch.

package catalog

import (
	"context"
	"sync"
)

// Loader serializes catalog loads with last-request-wins semantics.
type Loader struct {
	fetcher *Fetcher

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	cache  map[Language][]Category
}

// NewLoader wraps a Fetcher.
func NewLoader(f *Fetcher) *Loader {
	return &Loader{fetcher: f, cache: make(map[Language][]Category)}
}

// Load returns the ordered category list for lang, fetching it if not
// cached. A Load that is superseded before its fetch completes returns
// context.Canceled; its result is never cached.
func (l *Loader) Load(ctx context.Context, lang Language) ([]Category, error) {
	l.mu.Lock()
	if cats, ok := l.cache[lang]; ok {
		l.mu.Unlock()
		return cats, nil
	}
	// Supersede any in-flight request.
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	myGen := l.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	cats, err := l.fetcher.Fetch(fetchCtx, lang)

	l.mu.Lock()
	defer l.mu.Unlock()
	if myGen != l.gen {
		// A newer request took over while we were fetching; drop this result.
		return nil, context.Canceled
	}
	l.cancel = nil
	cancel()
	if err != nil {
		return nil, err
	}
	l.cache[lang] = cats
	return cats, nil
}

// Invalidate drops the cached catalog for lang, forcing a re-fetch on the
// next Load. Used by the retry path after a load failure.
func (l *Loader) Invalidate(lang Language) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, lang)
}
