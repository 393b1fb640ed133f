package cache

import (
	"container/list"
	"fmt"
	"math/rand/v2"
)

// tracker records just enough about the cached keys to pick an eviction
// victim in O(1). It never holds values; those stay in the cache's index.
type tracker[K comparable] interface {
	insert(key K)
	// victim reports the key the policy would evict next without removing it.
	victim() (K, bool)
	remove(key K) bool
	len() int
	keys() []K
}

func newTracker[K comparable](p Policy, capacity int, rng *rand.Rand) (tracker[K], error) {
	switch p {
	case FIFO:
		return newQueueTracker[K](capacity, false), nil
	case LIFO:
		return newQueueTracker[K](capacity, true), nil
	case RandomReplacement:
		return newRandomTracker[K](capacity, rng), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, p)
	}
}

// queueTracker keeps keys in insertion order. FIFO and LIFO share it and
// differ only in which end the victim is read from.
type queueTracker[K comparable] struct {
	order     *list.List // front = oldest, back = newest
	elems     map[K]*list.Element
	evictBack bool
}

func newQueueTracker[K comparable](capacity int, evictBack bool) *queueTracker[K] {
	return &queueTracker[K]{
		order:     list.New(),
		elems:     make(map[K]*list.Element, capacity),
		evictBack: evictBack,
	}
}

func (q *queueTracker[K]) insert(key K) {
	if _, ok := q.elems[key]; ok {
		return
	}
	q.elems[key] = q.order.PushBack(key)
}

func (q *queueTracker[K]) victim() (key K, ok bool) {
	elem := q.order.Front()
	if q.evictBack {
		elem = q.order.Back()
	}
	if elem == nil {
		return
	}
	return elem.Value.(K), true
}

func (q *queueTracker[K]) remove(key K) bool {
	elem, ok := q.elems[key]
	if !ok {
		return false
	}
	q.order.Remove(elem)
	delete(q.elems, key)
	return true
}

func (q *queueTracker[K]) len() int {
	return q.order.Len()
}

func (q *queueTracker[K]) keys() []K {
	out := make([]K, 0, q.order.Len())
	for elem := q.order.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(K))
	}
	return out
}

// randomTracker keeps keys in an unordered slice plus each key's slot, so
// a random slot can be picked and vacated in O(1).
//
// Invariant: slots[pos[k]] == k for every tracked k.
type randomTracker[K comparable] struct {
	slots []K
	pos   map[K]int
	rng   *rand.Rand
}

func newRandomTracker[K comparable](capacity int, rng *rand.Rand) *randomTracker[K] {
	return &randomTracker[K]{
		slots: make([]K, 0, capacity),
		pos:   make(map[K]int, capacity),
		rng:   rng,
	}
}

func (r *randomTracker[K]) insert(key K) {
	if _, ok := r.pos[key]; ok {
		return
	}
	r.pos[key] = len(r.slots)
	r.slots = append(r.slots, key)
}

func (r *randomTracker[K]) victim() (key K, ok bool) {
	if len(r.slots) == 0 {
		return
	}
	return r.slots[r.rng.IntN(len(r.slots))], true
}

// remove swaps the key with the last slot, fixes the moved key's position
// and pops the tail.
func (r *randomTracker[K]) remove(key K) bool {
	i, ok := r.pos[key]
	if !ok {
		return false
	}

	last := len(r.slots) - 1
	moved := r.slots[last]
	r.slots[i] = moved
	r.pos[moved] = i

	var zero K
	r.slots[last] = zero
	r.slots = r.slots[:last]
	delete(r.pos, key)
	return true
}

func (r *randomTracker[K]) len() int {
	return len(r.slots)
}

func (r *randomTracker[K]) keys() []K {
	out := make([]K, len(r.slots))
	copy(out, r.slots)
	return out
}
