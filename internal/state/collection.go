package state

// Keyed is implemented by entities addressable in a Collection.
type Keyed interface {
	Key() string
}

// Collection is an immutable, insertion-ordered set of entities addressed
// by key. The zero value is an empty collection. Mutating operations
// return a new Collection and leave the receiver untouched.
type Collection[T Keyed] struct {
	keys  []string
	byKey map[string]T
}

// FromSlice builds a collection preserving first-seen order. A later item
// whose key is already present replaces the earlier value in place.
func FromSlice[T Keyed](items []T) Collection[T] {
	c := Collection[T]{
		keys:  make([]string, 0, len(items)),
		byKey: make(map[string]T, len(items)),
	}
	for _, item := range items {
		k := item.Key()
		if _, ok := c.byKey[k]; !ok {
			c.keys = append(c.keys, k)
		}
		c.byKey[k] = item
	}
	return c
}

// Put returns a collection with item inserted. A new key is appended at
// the end; an existing key keeps its position and takes the new value.
func (c Collection[T]) Put(item T) Collection[T] {
	k := item.Key()
	next := Collection[T]{
		keys:  make([]string, len(c.keys), len(c.keys)+1),
		byKey: make(map[string]T, len(c.byKey)+1),
	}
	copy(next.keys, c.keys)
	for key, v := range c.byKey {
		next.byKey[key] = v
	}
	if _, ok := next.byKey[k]; !ok {
		next.keys = append(next.keys, k)
	}
	next.byKey[k] = item
	return next
}

// Get returns the entity stored under key.
func (c Collection[T]) Get(key string) (T, bool) {
	v, ok := c.byKey[key]
	return v, ok
}

// All returns the entities in insertion order. The result is a fresh
// slice each call; callers may keep or mutate it freely.
func (c Collection[T]) All() []T {
	out := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.byKey[k])
	}
	return out
}

// Keys returns the keys in insertion order.
func (c Collection[T]) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len reports the number of entities in the collection.
func (c Collection[T]) Len() int {
	return len(c.keys)
}
