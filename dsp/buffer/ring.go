package buffer

import "sync/atomic"

const minRingCapacity = 2

// Ring is a fixed-size single-producer single-consumer sample FIFO.
//
// One goroutine may call the Write methods while another calls the Read
// methods; neither side blocks. Capacity is rounded up to a power of two.
type Ring struct {
	samples []float64
	mask    uint64

	// head counts samples ever written, tail samples ever read.
	head atomic.Uint64
	tail atomic.Uint64
}

// NewRing returns a ring holding at least capacity samples.
func NewRing(capacity int) *Ring {
	size := minRingCapacity
	for size < capacity {
		size <<= 1
	}

	return &Ring{
		samples: make([]float64, size),
		mask:    uint64(size - 1),
	}
}

// Cap returns the number of samples the ring can hold.
func (r *Ring) Cap() int {
	return len(r.samples)
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Write appends as many samples of src as fit and returns that count.
func (r *Ring) Write(src []float64) int {
	head := r.head.Load()
	n := min(len(src), len(r.samples)-int(head-r.tail.Load()))

	for i := range n {
		r.samples[(head+uint64(i))&r.mask] = src[i]
	}

	r.head.Store(head + uint64(n))

	return n
}

// Write32 is Write for float32 samples.
func (r *Ring) Write32(src []float32) int {
	head := r.head.Load()
	n := min(len(src), len(r.samples)-int(head-r.tail.Load()))

	for i := range n {
		r.samples[(head+uint64(i))&r.mask] = float64(src[i])
	}

	r.head.Store(head + uint64(n))

	return n
}

// Read moves up to len(dst) buffered samples into dst and returns the count.
func (r *Ring) Read(dst []float64) int {
	tail := r.tail.Load()
	n := min(len(dst), int(r.head.Load()-tail))

	for i := range n {
		dst[i] = r.samples[(tail+uint64(i))&r.mask]
	}

	r.tail.Store(tail + uint64(n))

	return n
}

// Read32 is Read for float32 samples.
func (r *Ring) Read32(dst []float32) int {
	tail := r.tail.Load()
	n := min(len(dst), int(r.head.Load()-tail))

	for i := range n {
		dst[i] = float32(r.samples[(tail+uint64(i))&r.mask])
	}

	r.tail.Store(tail + uint64(n))

	return n
}
