package service

import "sync"

type sessionKey struct {
	userID int64
	surah  int
}

// keyedMutex serialises work per (user, surah) session.
// Entries are reference counted and dropped once no goroutine holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[sessionKey]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[sessionKey]*refMutex)}
}

// Lock blocks until the session is free and returns its unlock function.
func (k *keyedMutex) Lock(userID int64, surah int) func() {
	key := sessionKey{userID: userID, surah: surah}

	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
