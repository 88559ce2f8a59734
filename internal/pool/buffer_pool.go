package pool

import (
	"sync"
)

// RowPool hands out int slices used as rows of the edit distance table.
type RowPool struct {
	pool sync.Pool
	size int
}

// NewRowPool creates a pool whose fresh rows have the given capacity.
func NewRowPool(size int) *RowPool {
	return &RowPool{
		pool: sync.Pool{
			New: func() interface{} {
				row := make([]int, 0, size)
				return &row
			},
		},
		size: size,
	}
}

// Get returns a row of exactly n elements. Contents are unspecified.
func (rp *RowPool) Get(n int) *[]int {
	row := rp.pool.Get().(*[]int)
	if cap(*row) < n {
		*row = make([]int, n)
		return row
	}
	*row = (*row)[:n]
	return row
}

// Put returns a row to the pool for reuse
func (rp *RowPool) Put(row *[]int) {
	// Oversized rows are dropped so one huge comparison does not pin memory.
	if cap(*row) > rp.size*64 {
		return
	}
	*row = (*row)[:0]
	rp.pool.Put(row)
}

// RuneBufferPool implements a pool of rune slices
type RuneBufferPool struct {
	pool sync.Pool
	size int
}

// NewRuneBufferPool creates a new pool of rune slices with the specified size
func NewRuneBufferPool(size int) *RuneBufferPool {
	return &RuneBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]rune, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get retrieves a rune buffer from the pool
func (rbp *RuneBufferPool) Get() *[]rune {
	return rbp.pool.Get().(*[]rune)
}

// Decode appends the code points of s to a pooled buffer and returns it.
func (rbp *RuneBufferPool) Decode(s string) *[]rune {
	buffer := rbp.Get()
	for _, r := range s {
		*buffer = append(*buffer, r)
	}
	return buffer
}

// Put returns a rune buffer to the pool
func (rbp *RuneBufferPool) Put(buffer *[]rune) {
	if cap(*buffer) > rbp.size*64 {
		return
	}
	*buffer = (*buffer)[:0]
	rbp.pool.Put(buffer)
}
