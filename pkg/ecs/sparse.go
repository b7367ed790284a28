package ecs

import (
	"fmt"
	"iter"

	"github.com/argus-labs/scene-engine/pkg/assert"
)

// Page geometry. One page of the sparse table is sized to fit a 4 KiB memory page together with its
// used counter, so elementsPerPage = (4096 - 8) / 8 = 511.
const (
	pageBytes       = 4096
	pageHeaderBytes = 8 // The used counter
	indexWidth      = 8 // A dense index stored in a page slot
	elementsPerPage = (pageBytes - pageHeaderBytes) / indexWidth
)

// page is a fixed block of the sparse table covering elementsPerPage consecutive keys. Slots are
// never cleared on removal, a slot is only trusted after checking the dense entry's key.
type page struct {
	used    int                  // Number of live keys that map into this page
	indices [elementsPerPage]int // Key offset -> dense index
}

// denseEntry pairs a key with its value in the packed dense array.
type denseEntry[T any] struct {
	key   EntityID
	value T
}

// pagedArray maps a huge, sparsely used key space to a packed dense array. The sparse side is split
// into lazily allocated pages, so memory is bounded by the number of distinct pages touched rather
// than by the largest key. Pages are freed as soon as their last key is removed.
//
// Based on the sparse sets in EnTT, see https://research.swtch.com/sparse.
type pagedArray[T any] struct {
	dense       []denseEntry[T] // Packed entries, order changes on removal
	pages       []*page         // Page table, nil slots are unallocated pages
	activePages int             // Number of non-nil pages
	iterating   int             // Number of in-progress iterations over dense
}

// newPagedArray creates an empty paged array.
func newPagedArray[T any]() pagedArray[T] {
	return pagedArray[T]{
		dense:       make([]denseEntry[T], 0),
		pages:       make([]*page, 0),
		activePages: 0,
		iterating:   0,
	}
}

// locate splits a key into its page number and the offset inside that page.
func locate(key EntityID) (int, int) {
	return int(key / elementsPerPage), int(key % elementsPerPage) //nolint:gosec // page count fits in int
}

// index returns the dense index of key and whether the key is present.
func (a *pagedArray[T]) index(key EntityID) (int, bool) {
	pageNum, offset := locate(key)
	if pageNum >= len(a.pages) || a.pages[pageNum] == nil {
		return 0, false
	}

	idx := a.pages[pageNum].indices[offset]
	if idx < 0 || idx >= len(a.dense) || a.dense[idx].key != key {
		return 0, false
	}
	return idx, true
}

// has reports whether key is present.
func (a *pagedArray[T]) has(key EntityID) bool {
	_, ok := a.index(key)
	return ok
}

// get returns a copy of the value stored for key.
func (a *pagedArray[T]) get(key EntityID) (T, bool) {
	idx, ok := a.index(key)
	if !ok {
		var zero T
		return zero, false
	}
	return a.dense[idx].value, true
}

// getPtr returns a pointer to the stored value for key, or nil. The pointer is only valid until the
// next structural mutation of the array.
func (a *pagedArray[T]) getPtr(key EntityID) *T {
	idx, ok := a.index(key)
	if !ok {
		return nil
	}
	return &a.dense[idx].value
}

// set stores value for key. An existing entry is overwritten in place, otherwise the entry is
// appended to the dense array and its page is allocated if needed.
func (a *pagedArray[T]) set(key EntityID, value T) {
	if idx, ok := a.index(key); ok {
		a.dense[idx].value = value
		return
	}

	a.checkNotIterating("set")

	pageNum, offset := locate(key)
	p := a.assure(pageNum)

	a.dense = append(a.dense, denseEntry[T]{key: key, value: value})
	p.indices[offset] = len(a.dense) - 1
	p.used++
	assert.That(p.used <= elementsPerPage, "page %d has more used slots than capacity", pageNum)
}

// assure returns the page for pageNum, growing the page table and allocating the page if needed.
func (a *pagedArray[T]) assure(pageNum int) *page {
	if pageNum >= len(a.pages) {
		grown := make([]*page, pageNum+1, max(pageNum+1, 2*len(a.pages)))
		copy(grown, a.pages)
		a.pages = grown
	}

	if a.pages[pageNum] == nil {
		a.pages[pageNum] = &page{}
		a.activePages++
	}
	return a.pages[pageNum]
}

// remove deletes key and reports whether it was present. Removing a missing key leaves the array
// untouched. The last dense entry is moved into the freed slot and its page slot is rewritten to the
// new position. A page whose last key is removed is released.
func (a *pagedArray[T]) remove(key EntityID) bool {
	idx, ok := a.index(key)
	if !ok {
		return false
	}

	a.checkNotIterating("remove")

	last := len(a.dense) - 1
	if idx != last {
		moved := a.dense[last]
		a.dense[idx] = moved

		movedPage, movedOffset := locate(moved.key)
		a.pages[movedPage].indices[movedOffset] = idx
	}

	// Zero the vacated slot so values holding references can be collected.
	var zero denseEntry[T]
	a.dense[last] = zero
	a.dense = a.dense[:last]

	pageNum, _ := locate(key)
	p := a.pages[pageNum]
	p.used--
	assert.That(p.used >= 0, "page %d used counter went negative", pageNum)
	if p.used == 0 {
		a.pages[pageNum] = nil
		a.activePages--
	}

	return true
}

// len returns the number of live keys.
func (a *pagedArray[T]) len() int {
	return len(a.dense)
}

// activePageCount returns the number of allocated pages.
func (a *pagedArray[T]) activePageCount() int {
	return a.activePages
}

// pageCapacity returns the length of the page table, allocated or not.
func (a *pagedArray[T]) pageCapacity() int {
	return len(a.pages)
}

// clear drops every entry and page.
func (a *pagedArray[T]) clear() {
	a.checkNotIterating("clear")
	*a = newPagedArray[T]()
}

// forEach calls fn with every key and a copy of its value in dense order.
func (a *pagedArray[T]) forEach(fn func(EntityID, T)) {
	a.iterating++
	defer func() { a.iterating-- }()

	for i := range a.dense {
		fn(a.dense[i].key, a.dense[i].value)
	}
}

// forEachMutable calls fn with every key and a pointer to its value in dense order. Values may be
// modified through the pointer; adding or removing keys from inside fn panics.
func (a *pagedArray[T]) forEachMutable(fn func(EntityID, *T)) {
	a.iterating++
	defer func() { a.iterating-- }()

	for i := range a.dense {
		fn(a.dense[i].key, &a.dense[i].value)
	}
}

// all returns an iterator over keys and value copies in dense order.
func (a *pagedArray[T]) all() iter.Seq2[EntityID, T] {
	return func(yield func(EntityID, T) bool) {
		a.iterating++
		defer func() { a.iterating-- }()

		for i := range a.dense {
			if !yield(a.dense[i].key, a.dense[i].value) {
				return
			}
		}
	}
}

// keys returns the keys in dense order.
func (a *pagedArray[T]) keys() []EntityID {
	keys := make([]EntityID, len(a.dense))
	for i := range a.dense {
		keys[i] = a.dense[i].key
	}
	return keys
}

// checkNotIterating panics when a structural mutation happens during an iteration. The panic is not
// an assert because it guards against caller misuse and must hold in release builds too.
func (a *pagedArray[T]) checkNotIterating(op string) {
	if a.iterating > 0 {
		panic(fmt.Sprintf("ecs: structural mutation during iteration (%s)", op))
	}
}

// equalFunc reports whether a and b hold the same key/value pairs, ignoring dense order and page
// layout. Values are compared with eq.
func equalFunc[T any](a, b *pagedArray[T], eq func(T, T) bool) bool {
	if a.len() != b.len() {
		return false
	}
	for i := range a.dense {
		other, ok := b.get(a.dense[i].key)
		if !ok || !eq(a.dense[i].value, other) {
			return false
		}
	}
	return true
}

// equalArrays is equalFunc for comparable values.
func equalArrays[T comparable](a, b *pagedArray[T]) bool {
	return equalFunc(a, b, func(x, y T) bool { return x == y })
}
