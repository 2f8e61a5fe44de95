package fastparser

import (
	"sync"
	"unsafe"
)

// bufferPool is a sync.Pool for []byte buffers used in quoted field parsing.
// These buffers are used to accumulate data when processing escaped quotes.
//
// There is no matching pool for []string record slices: ParseDialect builds
// one shared backing array for every field across the whole input and
// returns records as live slices into it, so nothing is ever safe to
// recycle until the caller is done with every record.
var bufferPool = sync.Pool{
	New: func() interface{} {
		// Pre-allocate with capacity for typical quoted field content
		b := make([]byte, 0, 64)
		return &b
	},
}

// getBuffer gets a []byte buffer from the pool.
// The buffer is returned with length 0 but may have capacity.
func getBuffer() []byte {
	p := bufferPool.Get().(*[]byte)
	buf := *p
	// Clear the buffer but keep the capacity
	buf = buf[:0]
	return buf
}

// putBuffer returns a []byte buffer to the pool.
// The buffer will be cleared before reuse.
func putBuffer(buf []byte) {
	// Only return to pool if capacity is reasonable (avoid keeping huge buffers)
	const maxCapacity = 4096
	if cap(buf) > maxCapacity {
		return
	}

	// Clear the buffer
	buf = buf[:0]

	// Return to pool
	bufferPool.Put(&buf)
}

// unsafeString converts a []byte to a string without allocation.
//
// This uses unsafe.String() which is available in Go 1.20+.
// The conversion creates a string that shares the underlying byte array,
// so the byte slice MUST NOT be modified after conversion.
//
// In our parser, we only use this on subslices of the immutable input data,
// so this is safe.
//
// Performance: This eliminates string allocations for unquoted fields,
// which typically make up the majority of CSV data.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
