package conversation

import "sync"

// LeadLocker serializes work per lead so concurrent webhook deliveries and
// follow-up jobs never interleave message handling for the same person.
type LeadLocker interface {
	Lock(key string)
	Unlock(key string)
}

// KeyedMutex is an in-process LeadLocker. Entries are reference counted and
// removed once the last holder releases them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the key's mutex is held.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the key's mutex and drops the entry when unused.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}

// Compile-time check that KeyedMutex implements LeadLocker.
var _ LeadLocker = (*KeyedMutex)(nil)
