// Package registry implements the process-wide concurrent mapping from a type
// key to its counter cell.
//
// The table is a fork of the striped seqlock hash table used by
// concurrent caches, stripped down to the registry's access pattern: entries
// are inserted once and never removed, so there is no delete path and the
// table only ever grows. Reads are lock-free; insertion takes a single bucket
// mutex, which also serializes racing first-use creators of the same key so
// that exactly one cell is ever created per type.
package registry

import (
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/censuslib/census/internal/counter"
	"github.com/censuslib/census/internal/xmath"
	"github.com/censuslib/census/internal/xruntime"
)

const (
	// number of entries per bucket
	// 7 because we need to fit them into 2 cache lines (128 bytes).
	bucketSize       = 7
	maxSpinThreshold = 16
	minBucketCount   = 32
	minEntryCount    = bucketSize * minBucketCount
	minCounterLength = 8
	maxCounterLength = 32
)

// Registry is the process-wide type key to counter cell mapping.
type Registry struct {
	table unsafe.Pointer

	resizeMutex sync.Mutex
	resizeCond  sync.Cond
	resizing    atomic.Int64

	hasher func(reflect.Type) uint64
}

type table struct {
	buckets []paddedBucket
	size    []paddedCounter
	mask    uint64
}

func (t *table) addSize(bucketIdx uint64, delta int) {
	counterIdx := uint64(len(t.size)-1) & bucketIdx
	atomic.AddInt64(&t.size[counterIdx].c, int64(delta))
}

func (t *table) addSizePlain(bucketIdx uint64, delta int) {
	counterIdx := uint64(len(t.size)-1) & bucketIdx
	t.size[counterIdx].c += int64(delta)
}

func (t *table) sumSize() int64 {
	sum := int64(0)
	for i := range t.size {
		sum += atomic.LoadInt64(&t.size[i].c)
	}
	return sum
}

type sizeCounter struct {
	c int64
}

type paddedCounter struct {
	padding [xruntime.CacheLineSize - unsafe.Sizeof(sizeCounter{})]byte

	sizeCounter
}

// New creates a Registry with the given options.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	r := &Registry{
		hasher: o.hasher,
	}
	r.resizeCond = *sync.NewCond(&r.resizeMutex)
	tableLength := xmath.RoundUpPowerOf2(uint32(o.initEntryCount / bucketSize))
	atomic.StorePointer(&r.table, unsafe.Pointer(newTable(int(tableLength))))
	return r
}

func newTable(bucketCount int) *table {
	buckets := make([]paddedBucket, bucketCount)
	counterLength := bucketCount >> 10
	if counterLength < minCounterLength {
		counterLength = minCounterLength
	} else if counterLength > maxCounterLength {
		counterLength = maxCounterLength
	}
	size := make([]paddedCounter, counterLength)
	mask := uint64(len(buckets) - 1)
	t := &table{
		buckets: buckets,
		size:    size,
		mask:    mask,
	}
	return t
}

// Get returns the cell of the given key, if any. It is lock-free: slots are
// read under a bucket sequence counter and retried while an insert is in
// flight.
func (r *Registry) Get(key reflect.Type) (*counter.Cell, bool) {
	t := (*table)(atomic.LoadPointer(&r.table))
	hash := r.calcShiftHash(key)
	bucketIdx := hash & t.mask
	b := &t.buckets[bucketIdx]
	for i := 0; i < bucketSize; i++ {
		spins := 0
		for {
			spins++
			if spins > maxSpinThreshold {
				spins = 0
				runtime.Gosched()
			}

			seq := atomic.LoadUint64(&b.seq)
			if seq&1 == 1 {
				// Insert in progress.
				continue
			}

			h := atomic.LoadUint64(&b.hashes[i])
			if h == uint64(0) || h != hash {
				break
			}

			entryPtr := atomic.LoadPointer(&b.entries[i])
			if entryPtr == nil {
				// Concurrent write in this slot.
				continue
			}
			e := (*entry)(entryPtr)
			if e.key != key {
				break
			}

			return e.cell, true
		}
	}

	return nil, false
}

// GetOrCreate returns the cell of the given key, creating one named by newName
// if the key has never been seen. Racing creators of the same key serialize on
// the bucket mutex: exactly one of them inserts, every one of them, including
// the losers, returns the single inserted cell.
func (r *Registry) GetOrCreate(key reflect.Type, newName func() string) *counter.Cell {
	for {
		t := (*table)(atomic.LoadPointer(&r.table))
		hash := r.calcShiftHash(key)
		bucketIdx := hash & t.mask
		b := &t.buckets[bucketIdx]
		b.mutex.Lock()
		if r.newerTableExists(t) {
			// Someone resized the table, go for another attempt.
			b.mutex.Unlock()
			continue
		}
		if r.resizeInProgress() {
			// Resize is in progress. Wait, then go for another attempt.
			b.mutex.Unlock()
			r.waitForResize()
			continue
		}

		emptyIdx := -1
		for i := 0; i < bucketSize; i++ {
			h := b.hashes[i]
			if h == uint64(0) {
				if emptyIdx < 0 {
					emptyIdx = i
				}
				continue
			}
			if h != hash {
				continue
			}
			e := (*entry)(b.entries[i])
			if e.key == key {
				// Some other goroutine created the cell first.
				b.mutex.Unlock()
				return e.cell
			}
		}
		if emptyIdx >= 0 {
			e := &entry{
				key:  key,
				cell: counter.New(newName()),
			}

			// Insert in progress.
			atomic.AddUint64(&b.seq, 1)

			atomic.StoreUint64(&b.hashes[emptyIdx], hash)
			atomic.StorePointer(&b.entries[emptyIdx], unsafe.Pointer(e))

			// Insert done.
			atomic.AddUint64(&b.seq, 1)

			b.mutex.Unlock()
			t.addSize(bucketIdx, 1)
			return e.cell
		}

		// Need to grow the table. Then go for another attempt.
		b.mutex.Unlock()
		r.resize(t)
	}
}

// Range calls f for every cell in the registry, holding one bucket mutex at a
// time. f must not call back into the registry. Cells inserted while Range is
// running may or may not be visited.
func (r *Registry) Range(f func(c *counter.Cell) bool) {
	t := (*table)(atomic.LoadPointer(&r.table))
	for i := range t.buckets {
		b := &t.buckets[i]
		b.mutex.Lock()
		for j := 0; j < bucketSize; j++ {
			if b.entries[j] == nil {
				continue
			}
			e := (*entry)(b.entries[j])
			if !f(e.cell) {
				b.mutex.Unlock()
				return
			}
		}
		b.mutex.Unlock()
	}
}

// Size returns the number of cells ever created.
func (r *Registry) Size() int {
	t := (*table)(atomic.LoadPointer(&r.table))
	return int(t.sumSize())
}

// resize doubles the table. The registry never shrinks: cells are never
// removed.
func (r *Registry) resize(t *table) {
	if !r.resizing.CompareAndSwap(0, 1) {
		// Someone else started resize. Wait for it to finish.
		r.waitForResize()
		return
	}
	nt := newTable(len(t.buckets) << 1)
	for i := range t.buckets {
		copied := r.copyBuckets(&t.buckets[i], nt)
		nt.addSizePlain(uint64(i), copied)
	}
	// Publish the new table and wake up all waiters.
	atomic.StorePointer(&r.table, unsafe.Pointer(nt))
	r.resizeMutex.Lock()
	r.resizing.Store(0)
	r.resizeCond.Broadcast()
	r.resizeMutex.Unlock()
}

func (r *Registry) copyBuckets(b *paddedBucket, dest *table) (copied int) {
	b.mutex.Lock()
	for i := 0; i < bucketSize; i++ {
		if b.entries[i] == nil {
			continue
		}
		e := (*entry)(b.entries[i])
		hash := r.calcShiftHash(e.key)
		bucketIdx := hash & dest.mask
		dest.buckets[bucketIdx].add(hash, b.entries[i])
		copied++
	}
	b.mutex.Unlock()
	return copied
}

func (r *Registry) newerTableExists(table *table) bool {
	currentTable := atomic.LoadPointer(&r.table)
	return uintptr(currentTable) != uintptr(unsafe.Pointer(table))
}

func (r *Registry) resizeInProgress() bool {
	return r.resizing.Load() == 1
}

func (r *Registry) waitForResize() {
	r.resizeMutex.Lock()
	for r.resizeInProgress() {
		r.resizeCond.Wait()
	}
	r.resizeMutex.Unlock()
}

// calcShiftHash never returns 0, since 0 marks an empty slot.
func (r *Registry) calcShiftHash(key reflect.Type) uint64 {
	h := r.hasher(key)
	if h == uint64(0) {
		return 1
	}

	return h
}
