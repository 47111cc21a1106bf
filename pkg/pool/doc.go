// Package pool provides the bounded resources shared by concurrent content comparisons.
//
// A BufferPool hands out pre-allocated buffer pairs, one pair per in-flight
// comparison. A FileDescriptorQueue caps the number of file handles open at
// once and serves waiting open requests in FIFO order.
//
// Both are sized by the caller. The pool never grows: allocating from an
// exhausted pool is a sizing error and reported as ErrPoolExhausted.
package pool
