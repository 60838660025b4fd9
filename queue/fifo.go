// Package queue implements the byte-oriented FIFO that everything else in
// this module is built on: an unsynchronized ring buffer (ByteQueue) and a
// mutex/condition-variable wrapper around it (SharedByteQueue) that adds
// blocking read semantics for concurrent producers and consumers.
package queue

const initialCapacity = 64

// ByteQueue is an unsynchronized byte ring buffer with grow-on-demand
// capacity, a non-destructive read cursor, and terminal closed/errored
// flags. Callers that share a ByteQueue across goroutines must provide
// their own synchronization; SharedByteQueue does this.
type ByteQueue struct {
	buf     []byte
	head    int
	tail    int
	size    int
	readPos int
	closed  bool
	errored bool
}

// NewByteQueue returns an empty, writable, readable ByteQueue.
func NewByteQueue() *ByteQueue {
	return &ByteQueue{}
}

// Size returns the number of bytes currently stored.
func (q *ByteQueue) Size() int { return q.size }

// Empty reports whether the queue holds no bytes.
func (q *ByteQueue) Empty() bool { return q.size == 0 }

// Capacity returns the number of bytes the underlying buffer can currently
// hold before it must grow.
func (q *ByteQueue) Capacity() int { return len(q.buf) }

// AvailableBytes returns the number of bytes readable from the current
// cursor position without blocking.
func (q *ByteQueue) AvailableBytes() int {
	if q.readPos >= q.size {
		return 0
	}
	return q.size - q.readPos
}

// IsWritable reports whether the queue currently accepts writes.
func (q *ByteQueue) IsWritable() bool { return !q.closed && !q.errored }

// IsReadable reports whether reads/extracts can still succeed.
func (q *ByteQueue) IsReadable() bool { return !q.errored }

// IsClosed reports whether Close has been called.
func (q *ByteQueue) IsClosed() bool { return q.closed }

// IsErrored reports whether SetError has been called.
func (q *ByteQueue) IsErrored() bool { return q.errored }

// EoF reports the standard end-of-stream condition: no more data can ever
// be produced (the queue is closed or errored) AND there is nothing left at
// the cursor.
func (q *ByteQueue) EoF() bool { return !q.IsWritable() && q.AvailableBytes() == 0 }

// Write appends data to the tail of the queue. It fails without mutating
// state if the queue is not writable or data is empty.
func (q *ByteQueue) Write(data []byte) bool {
	if !q.IsWritable() || len(data) == 0 {
		return false
	}
	q.growToFit(q.size + len(data))
	capacity := len(q.buf)
	first := min(len(data), capacity-q.tail)
	copy(q.buf[q.tail:], data[:first])
	second := len(data) - first
	if second > 0 {
		copy(q.buf, data[first:])
	}
	q.tail = (q.tail + len(data)) % capacity
	q.size += len(data)
	return true
}

// WriteString is a convenience wrapper over Write for string data.
func (q *ByteQueue) WriteString(data string) bool {
	if data == "" {
		return false
	}
	return q.Write([]byte(data))
}

// Read returns count bytes starting at the current read cursor without
// removing them from the queue, advancing the cursor by the number of bytes
// returned. count == 0 reads everything available from the cursor onward.
// If fewer than count bytes are available it fails with InsufficientData.
func (q *ByteQueue) Read(count int) ([]byte, error) {
	if !q.IsReadable() {
		return nil, errNotReadable
	}
	available := q.AvailableBytes()
	if count > 0 && count > available {
		return nil, errInsufficientDataRead
	}
	toRead := count
	if count == 0 {
		toRead = available
	}
	if toRead == 0 {
		return []byte{}, nil
	}
	out := make([]byte, toRead)
	capacity := len(q.buf)
	actualPos := (q.head + q.readPos) % capacity
	first := min(toRead, capacity-actualPos)
	copy(out, q.buf[actualPos:actualPos+first])
	second := toRead - first
	if second > 0 {
		copy(out[first:], q.buf[:second])
	}
	q.readPos += toRead
	return out, nil
}

// Extract removes count bytes from the head of the queue and returns them.
// count == 0 extracts everything currently stored. If fewer than count bytes
// are stored it fails with InsufficientData. The read cursor is adjusted
// down by the number of bytes removed, floored at 0.
func (q *ByteQueue) Extract(count int) ([]byte, error) {
	if !q.IsReadable() {
		return nil, errNotReadable
	}
	if count > 0 && count > q.size {
		return nil, errInsufficientDataExtract
	}
	toRead := count
	if count == 0 {
		toRead = q.size
	}
	if toRead == 0 {
		return []byte{}, nil
	}
	out := make([]byte, toRead)
	capacity := len(q.buf)
	first := min(toRead, capacity-q.head)
	copy(out, q.buf[q.head:q.head+first])
	second := toRead - first
	if second > 0 {
		copy(out[first:], q.buf[:second])
	}
	q.head = (q.head + toRead) % capacity
	q.size -= toRead
	if q.readPos >= toRead {
		q.readPos -= toRead
	} else {
		q.readPos = 0
	}
	return out, nil
}

// Close marks the queue closed for further writes. Idempotent.
func (q *ByteQueue) Close() { q.closed = true }

// SetError marks the queue neither writable nor readable. Idempotent.
func (q *ByteQueue) SetError() { q.errored = true }

// Clear empties the queue and resets the read cursor, without touching the
// closed/errored flags.
func (q *ByteQueue) Clear() {
	q.head, q.tail, q.size, q.readPos = 0, 0, 0, 0
}

// Clean discards bytes strictly before the read cursor, shifting the
// cursor back to 0 without losing unread data. Useful for a long-lived
// queue drained with Read rather than Extract.
func (q *ByteQueue) Clean() {
	if q.readPos == 0 {
		return
	}
	_, _ = q.Extract(q.readPos)
	q.readPos = 0
}

// Reserve ensures the underlying buffer can hold at least newCapacity bytes
// without growing again, relinearizing the ring in the process.
func (q *ByteQueue) Reserve(newCapacity int) {
	if newCapacity <= len(q.buf) {
		return
	}
	dst := make([]byte, newCapacity)
	q.relinearizeInto(dst)
	q.buf = dst
	q.head = 0
	q.tail = q.size
}

// Seek repositions the non-destructive read cursor. SeekAbsolute takes a
// non-negative offset from the head; SeekRelative adjusts the current
// cursor by a signed delta. Both clamp to [0, Size()].
func (q *ByteQueue) Seek(delta int, mode SeekOrigin) {
	switch mode {
	case SeekAbsolute:
		if delta < 0 {
			return
		}
		q.readPos = clamp(delta, 0, q.size)
	case SeekRelative:
		q.readPos = clamp(q.readPos+delta, 0, q.size)
	}
}

func (q *ByteQueue) growToFit(required int) {
	if required <= len(q.buf) {
		return
	}
	newCap := len(q.buf)
	if newCap == 0 {
		newCap = initialCapacity
	}
	for newCap < required {
		newCap *= 2
	}
	q.Reserve(newCap)
}

func (q *ByteQueue) relinearizeInto(dst []byte) {
	if q.size == 0 {
		return
	}
	capacity := len(q.buf)
	first := min(q.size, capacity-q.head)
	copy(dst, q.buf[q.head:q.head+first])
	second := q.size - first
	if second > 0 {
		copy(dst[first:], q.buf[:second])
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
