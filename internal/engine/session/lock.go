package session

import "sync"

// keyedMutex serializes turns per conversation identifier. Two concurrent
// messages from the same sender race on the draft's read-modify-write; the
// lock makes each turn atomic. The entry count is bounded by the number of
// distinct senders, which is acceptable for a single-process deployment.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
