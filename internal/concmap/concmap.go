package concmap

import "sync"

// ConcMap is a generic map safe for concurrent use. It uses a sync.RWMutex, so
// the map may be accessed by an arbitrary number of readers or a single writer.
type ConcMap[K comparable, V any] struct {
	m map[K]V
	*sync.RWMutex
}

func New[K comparable, V any]() ConcMap[K, V] {
	return ConcMap[K, V]{
		m:       map[K]V{},
		RWMutex: &sync.RWMutex{},
	}
}

func (cm ConcMap[K, V]) Set(key K, val V) {
	cm.Lock()
	defer cm.Unlock()
	cm.m[key] = val
}

func (cm ConcMap[K, V]) Delete(key K) {
	cm.Lock()
	defer cm.Unlock()
	delete(cm.m, key)
}

// Values returns a snapshot of the values in the map. Unlike iterating while holding the
// lock, the caller may modify the map while handling the values.
func (cm ConcMap[K, V]) Values() []V {
	cm.RLock()
	defer cm.RUnlock()
	vals := make([]V, 0, len(cm.m))
	for _, val := range cm.m {
		vals = append(vals, val)
	}
	return vals
}
