// Package cache provides a weighted LRU cache
package cache

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrKeyExists = errors.New("key already exists in cache")

// Cache holds values up to a total weight budget, evicting the least recently
// used entries once the budget is exceeded. It's safe for concurrent use.
type Cache[K comparable, V any] struct {
	log *logrus.Entry

	mu     sync.Mutex
	head   *node[K, V]
	tail   *node[K, V]
	lookup map[K]*node[K, V]
	weight int
	budget int
}

type node[K comparable, V any] struct {
	next   *node[K, V]
	prev   *node[K, V]
	key    K
	value  V
	weight int
}

func New[K comparable, V any](budget int) *Cache[K, V] {
	return &Cache[K, V]{
		log:    logrus.StandardLogger().WithField("type", "cache"),
		lookup: make(map[K]*node[K, V]),
		budget: budget,
	}
}

// Weight is the current total weight of cached entries
func (c *Cache[K, V]) Weight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weight
}

func (c *Cache[K, V]) Budget() int {
	return c.budget
}

// Insert adds a new entry. Existing keys are rejected with ErrKeyExists.
func (c *Cache[K, V]) Insert(key K, value V, weight int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.lookup[key]; found {
		return ErrKeyExists
	}

	n := &node[K, V]{
		key:    key,
		value:  value,
		weight: weight,
	}
	c.pushFront(n)
	c.lookup[key] = n
	c.weight += weight

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		c.weight -= evicted.weight
		delete(c.lookup, evicted.key)

		c.log.WithFields(logrus.Fields{
			"weight":       evicted.weight,
			"spare_weight": c.budget - c.weight,
		}).Trace("evicted cache entry")
	}

	return nil
}

// Retrieve returns the entry for key and marks it as recently used
func (c *Cache[K, V]) Retrieve(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, found := c.lookup[key]
	if !found {
		var zero V
		return zero, false
	}

	if n != c.head {
		c.unlink(n)
		c.pushFront(n)
	}
	return n.value, true
}

// GetOrCompute returns the cached entry for key, or computes, caches and
// returns it. Errors from compute aren't cached.
func (c *Cache[K, V]) GetOrCompute(key K, weight int, compute func() (V, error)) (V, error) {
	if value, ok := c.Retrieve(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	// A concurrent caller may have won the race, which is fine since values
	// for a key are expected to be identical
	if err := c.Insert(key, value, weight); err != nil && err != ErrKeyExists {
		return value, err
	}
	return value, nil
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[K]*node[K, V])
	c.weight = 0
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.next = nil
	n.prev = nil
}
