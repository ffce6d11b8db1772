package cache

import (
	"container/list"
	"sync"
)

// LRU is a least recently used cache safe for concurrent use. Once Cap
// entries are held, adding a new key evicts the least recently used one
type LRU struct {
	Cap   uint64
	m     sync.Mutex
	l     *list.List
	items map[any]*list.Element
}

type item struct {
	key   any
	value any
}

// NewLRUCache returns a new LRU cache with input capacity
func NewLRUCache(capacity uint64) *LRU {
	return &LRU{
		Cap:   capacity,
		l:     list.New(),
		items: make(map[any]*list.Element),
	}
}

// Add adds a value to the cache, replacing any value held for key
func (l *LRU) Add(key, value any) {
	l.m.Lock()
	defer l.m.Unlock()
	if e, ok := l.items[key]; ok {
		l.l.MoveToFront(e)
		e.Value.(*item).value = value
		return
	}
	l.items[key] = l.l.PushFront(&item{key, value})
	if uint64(l.l.Len()) > l.Cap {
		l.removeElement(l.l.Back())
	}
}

// Get returns the value held for key and marks it as recently used
func (l *LRU) Get(key any) (any, bool) {
	l.m.Lock()
	defer l.m.Unlock()
	e, ok := l.items[key]
	if !ok {
		return nil, false
	}
	l.l.MoveToFront(e)
	return e.Value.(*item).value, true
}

// Contains checks if key is in the cache without updating its recency
func (l *LRU) Contains(key any) bool {
	l.m.Lock()
	defer l.m.Unlock()
	_, ok := l.items[key]
	return ok
}

// Remove removes key from the cache, reporting whether it was present
func (l *LRU) Remove(key any) bool {
	l.m.Lock()
	defer l.m.Unlock()
	e, ok := l.items[key]
	if ok {
		l.removeElement(e)
	}
	return ok
}

// Clear empties the cache
func (l *LRU) Clear() {
	l.m.Lock()
	defer l.m.Unlock()
	clear(l.items)
	l.l.Init()
}

// Len returns the number of entries held
func (l *LRU) Len() uint64 {
	l.m.Lock()
	defer l.m.Unlock()
	return uint64(l.l.Len())
}

func (l *LRU) removeElement(e *list.Element) {
	if e == nil {
		return
	}
	l.l.Remove(e)
	delete(l.items, e.Value.(*item).key)
}
