package usecase

import (
	"hash/fnv"
	"sync"
)

// pairLock serializes direct-room resolution per unordered user pair. A
// fixed shard count keeps the map from growing with the user population;
// two pairs sharing a shard merely wait on each other.
type pairLock struct {
	shards [64]sync.Mutex
}

func (l *pairLock) forKey(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &l.shards[h.Sum32()%uint32(len(l.shards))]
}
