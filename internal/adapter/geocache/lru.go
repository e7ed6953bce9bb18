// Package geocache puts caches in front of a domain.Geocoder: an in-process
// LRU and a shared Redis layer. Both only store answers worth repeating, so
// empty or failed lookups are retried on the next call.
package geocache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	search  *lruCache[[]domain.Place]
	reverse *lruCache[domain.Place]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Forward and
// reverse lookups each get maxEntries slots.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		search:  newLRUCache[[]domain.Place](maxEntries),
		reverse: newLRUCache[domain.Place](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Search(ctx context.Context, text string) ([]domain.Place, error) {
	key := searchKey(text)
	if places, ok := c.search.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("memory", "forward", "hit").Inc()
		return clonePlaces(places), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("memory", "forward", "miss").Inc()

	places, err := c.inner.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(places) > 0 {
		c.search.put(key, clonePlaces(places))
	}
	return places, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := reverseKey(lat, lon)
	if place, ok := c.reverse.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("memory", "reverse", "hit").Inc()
		return place, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("memory", "reverse", "miss").Inc()

	place, err := c.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return place, err
	}
	if place.DisplayName != "" {
		c.reverse.put(key, place)
	}
	return place, nil
}

// searchKey normalizes case and whitespace so trivially different spellings
// share an entry.
func searchKey(text string) string {
	return "fwd:" + strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// reverseKey rounds to six decimals, about 0.1 m.
func reverseKey(lat, lon float64) string {
	return fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
}

func clonePlaces(places []domain.Place) []domain.Place {
	out := make([]domain.Place, len(places))
	copy(out, places)
	return out
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
