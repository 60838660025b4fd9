package handle

import "github.com/jbvmio/bytestream/queue"

// ReadHandle is a read-only view over a shared byte queue.
type ReadHandle struct {
	q *queue.SharedByteQueue
}

// Read performs a non-destructive blocking read; see
// queue.SharedByteQueue.Read for exact semantics.
func (r ReadHandle) Read(count int) ([]byte, error) {
	return r.q.Read(count)
}

// Extract performs a destructive blocking read; see
// queue.SharedByteQueue.Extract for exact semantics.
func (r ReadHandle) Extract(count int) ([]byte, error) {
	return r.q.Extract(count)
}

// AvailableBytes returns bytes readable from the cursor without blocking.
func (r ReadHandle) AvailableBytes() int {
	return r.q.AvailableBytes()
}

// Size returns the total number of bytes currently stored.
func (r ReadHandle) Size() int {
	return r.q.Size()
}

// Empty reports whether the queue holds no bytes.
func (r ReadHandle) Empty() bool {
	return r.q.Empty()
}

// IsReadable reports whether reads/extracts can still succeed.
func (r ReadHandle) IsReadable() bool {
	return r.q.IsReadable()
}

// IsWritable reports whether a producer could still feed this queue,
// letting a consumer distinguish "more may arrive" from "done for good".
func (r ReadHandle) IsWritable() bool {
	return r.q.IsWritable()
}

// EoF reports the end-of-stream condition: no more data can be written
// (the queue is closed or errored) and nothing is left at the cursor.
func (r ReadHandle) EoF() bool {
	return r.q.EoF()
}

// Seek repositions the non-destructive read cursor.
func (r ReadHandle) Seek(delta int, mode queue.SeekOrigin) {
	r.q.Seek(delta, mode)
}

// Clear empties the queue and resets the read cursor.
func (r ReadHandle) Clear() {
	r.q.Clear()
}

// Clean discards bytes strictly before the read cursor, reclaiming storage
// on a long-lived queue drained via Read rather than Extract.
func (r ReadHandle) Clean() {
	r.q.Clean()
}
