package sync

import (
	base "sync"
)

const pointsPerStripe = 200

// StripedLock maps an unbounded key space onto a fixed set of locks. Keys
// sharing a stripe contend, which bounds memory regardless of key count.
type StripedLock struct {
	locks []base.Mutex
	ring  *ring
}

// NewStripedLock returns a StripedLock with a fixed number of stripes
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		locks: make([]base.Mutex, stripes),
		ring:  newRing(int(stripes), pointsPerStripe),
	}
}

// Get returns the lock for key. The same key always maps to the same lock.
func (l *StripedLock) Get(key []byte) *base.Mutex {
	return &l.locks[l.ring.shard(key)]
}
