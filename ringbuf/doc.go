/*
Package ringbuf implements a fixed-capacity, overwriting ring buffer with
contiguous-slice semantics.

The buffer stores a generic element type at a fixed capacity set at
construction. Writes never fail: once the buffer is full, the oldest
element is silently overwritten. Unlike a naive ring implementation, a
window of the most recent N writes (N <= capacity) can always be read
out as a single contiguous slice, because the backing storage is twice
the requested capacity and every write is mirrored to both halves.
*/
package ringbuf
