// Package handle narrows a *queue.SharedByteQueue into write-only and
// read-only capability views. WriteHandle and ReadHandle are cheap,
// copyable value types that share the underlying queue by pointer; a
// WriteHandle and the ReadHandle derived from it (or vice versa) are
// peers that observe the same bytes.
package handle

import "github.com/jbvmio/bytestream/queue"

// WriteHandle is a write-only view over a shared byte queue.
type WriteHandle struct {
	q *queue.SharedByteQueue
}

// NewWriteHandle returns a WriteHandle owning a fresh, empty queue.
func NewWriteHandle() WriteHandle {
	return WriteHandle{q: queue.NewSharedByteQueue()}
}

// NewWriteHandleFromConsumer builds a WriteHandle over the same queue a
// ReadHandle already points at, letting a new producer feed an existing
// queue. The pipeline's pass-through wiring uses this.
func NewWriteHandleFromConsumer(r ReadHandle) WriteHandle {
	return WriteHandle{q: r.q}
}

// Consumer returns a peer ReadHandle sharing this WriteHandle's queue.
func (w WriteHandle) Consumer() ReadHandle {
	return ReadHandle{q: w.q}
}

// Write appends data, returning false if the queue is not writable or data
// is empty.
func (w WriteHandle) Write(data []byte) bool {
	return w.q.Write(data)
}

// WriteString is a convenience wrapper over Write for string data.
func (w WriteHandle) WriteString(data string) bool {
	return w.q.WriteString(data)
}

// Close announces end-of-stream: no more writes will be accepted, but
// readers may continue to drain what is already buffered.
func (w WriteHandle) Close() {
	w.q.Close()
}

// SetError marks the queue as failed: further writes are ignored and
// blocked/future reads fail.
func (w WriteHandle) SetError() {
	w.q.SetError()
}

// IsWritable reports whether the queue currently accepts writes.
func (w WriteHandle) IsWritable() bool {
	return w.q.IsWritable()
}
