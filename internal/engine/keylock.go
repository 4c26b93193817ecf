package engine

import (
	"sort"
	"strings"
	"sync"
)

// keyLock serializes writers on a string key (lower-cased item number).
// Locks are acquired in sorted order so operations touching two items, such
// as a transfer edit, cannot deadlock against each other.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: map[string]*sync.Mutex{}}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// acquire locks every key and returns the matching release func.
func (k *keyLock) acquire(keys ...string) func() {
	uniq := map[string]bool{}
	ordered := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || uniq[key] {
			continue
		}
		uniq[key] = true
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)
	held := make([]*sync.Mutex, 0, len(ordered))
	for _, key := range ordered {
		m := k.get(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
