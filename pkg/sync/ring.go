package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping keys onto a fixed set of shard
// indexes. Each shard owns replicas points on the ring.
type ring struct {
	points *treemap.Map

	// Wraparound target, cached since treemap.Min is O(log n)
	first int
}

func newRing(shards int, replicas int) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	var seed [12]byte
	for shard := 0; shard < shards; shard++ {
		binary.LittleEndian.PutUint64(seed[:8], uint64(shard))
		for replica := 0; replica < replicas; replica++ {
			binary.LittleEndian.PutUint32(seed[8:], uint32(replica))
			points.Put(hashKey(seed[:]), shard)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// shard returns the index owning key
func (r *ring) shard(key []byte) int {
	if _, shard := r.points.Ceiling(hashKey(key)); shard != nil {
		return shard.(int)
	}
	return r.first
}

func hashKey(key []byte) int64 {
	hi, _ := murmur3.Sum128(key)
	return int64(hi)
}
