package state

import "sync/atomic"

// cowSlice is a reference-counted, copy-on-write slice. Clone() is O(1)
// — it only bumps a shared refcount — and the backing array is copied
// the first time either the original or a clone mutates it after that
// point.
type cowSlice[T any] struct {
	data *[]T
	refs *int32
}

func newCowSlice[T any](data []T) cowSlice[T] {
	refs := int32(1)
	return cowSlice[T]{data: &data, refs: &refs}
}

// clone returns a new handle sharing the same backing array, bumping
// the refcount so the next mutation on either handle forks it.
func (c cowSlice[T]) clone() cowSlice[T] {
	atomic.AddInt32(c.refs, 1)
	return cowSlice[T]{data: c.data, refs: c.refs}
}

// get returns the current backing slice for read-only use. Callers
// must not mutate the returned slice in place; use mutate() instead.
func (c cowSlice[T]) get() []T {
	if c.data == nil {
		return nil
	}
	return *c.data
}

func (c *cowSlice[T]) len() int {
	if c.data == nil {
		return 0
	}
	return len(*c.data)
}

// mutate forks the backing array if it is shared, then runs fn against
// a private copy. Call this around any in-place write.
func (c *cowSlice[T]) mutate(fn func(data *[]T)) {
	c.fork()
	fn(c.data)
}

func (c *cowSlice[T]) fork() {
	if c.data == nil {
		empty := make([]T, 0)
		refs := int32(1)
		c.data, c.refs = &empty, &refs
		return
	}
	if atomic.LoadInt32(c.refs) <= 1 {
		return
	}
	owned := make([]T, len(*c.data))
	copy(owned, *c.data)
	atomic.AddInt32(c.refs, -1)
	refs := int32(1)
	c.data, c.refs = &owned, &refs
}

// cowMap is cowSlice's map counterpart, used for State.TurnEffects.
type cowMap[K comparable, V any] struct {
	data *map[K]V
	refs *int32
}

func newCowMap[K comparable, V any](data map[K]V) cowMap[K, V] {
	refs := int32(1)
	return cowMap[K, V]{data: &data, refs: &refs}
}

func (c cowMap[K, V]) clone() cowMap[K, V] {
	atomic.AddInt32(c.refs, 1)
	return cowMap[K, V]{data: c.data, refs: c.refs}
}

func (c cowMap[K, V]) get() map[K]V {
	if c.data == nil {
		return nil
	}
	return *c.data
}

func (c *cowMap[K, V]) mutate(fn func(data map[K]V)) {
	c.fork()
	fn(*c.data)
}

func (c *cowMap[K, V]) fork() {
	if c.data == nil {
		empty := make(map[K]V)
		refs := int32(1)
		c.data, c.refs = &empty, &refs
		return
	}
	if atomic.LoadInt32(c.refs) <= 1 {
		return
	}
	owned := make(map[K]V, len(*c.data))
	for k, v := range *c.data {
		owned[k] = v
	}
	atomic.AddInt32(c.refs, -1)
	refs := int32(1)
	c.data, c.refs = &owned, &refs
}
