package queue

import "sync"

// SharedByteQueue makes a ByteQueue safe for concurrent producer/consumer
// use and upgrades Read/Extract with blocking semantics: a call for count
// > 0 bytes waits on an internal condition variable until count bytes are
// available, the queue closes (draining whatever is left, which may be
// less than count), or the queue errors (failing the call outright).
//
// SharedByteQueue is not copyable; share it via a pointer, the way the
// handle package's WriteHandle/ReadHandle do.
type SharedByteQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	q    *ByteQueue
}

// NewSharedByteQueue returns a fresh, empty, writable SharedByteQueue.
func NewSharedByteQueue() *SharedByteQueue {
	s := &SharedByteQueue{q: NewByteQueue()}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Size returns the current number of stored bytes.
func (s *SharedByteQueue) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Size()
}

// Empty reports whether the queue holds no bytes.
func (s *SharedByteQueue) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Empty()
}

// AvailableBytes returns bytes readable from the cursor without blocking.
func (s *SharedByteQueue) AvailableBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.AvailableBytes()
}

// IsWritable reports whether the queue currently accepts writes.
func (s *SharedByteQueue) IsWritable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.IsWritable()
}

// IsReadable reports whether reads/extracts can still succeed.
func (s *SharedByteQueue) IsReadable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.IsReadable()
}

// IsClosed reports whether Close has been called.
func (s *SharedByteQueue) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.IsClosed()
}

// IsErrored reports whether SetError has been called.
func (s *SharedByteQueue) IsErrored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.IsErrored()
}

// EoF reports the end-of-stream condition for this queue.
func (s *SharedByteQueue) EoF() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.EoF()
}

// Write appends data to the queue, waking any blocked readers.
func (s *SharedByteQueue) Write(data []byte) bool {
	s.mu.Lock()
	ok := s.q.Write(data)
	s.mu.Unlock()
	if ok {
		s.cond.Broadcast()
	}
	return ok
}

// WriteString is a convenience wrapper over Write for string data.
func (s *SharedByteQueue) WriteString(data string) bool {
	s.mu.Lock()
	ok := s.q.WriteString(data)
	s.mu.Unlock()
	if ok {
		s.cond.Broadcast()
	}
	return ok
}

// Read performs a non-destructive read. count == 0 returns immediately with
// whatever is available at the cursor. count > 0 blocks until count bytes
// are available, the queue closes (returning a short drain as success), or
// the queue errors (returning InsufficientData).
func (s *SharedByteQueue) Read(count int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count <= 0 {
		return s.q.Read(0)
	}
	for s.q.AvailableBytes() < count && s.q.IsReadable() && !s.q.IsClosed() {
		s.cond.Wait()
	}
	switch {
	case s.q.IsErrored():
		return nil, errInsufficientDataRead
	case s.q.IsClosed() && s.q.AvailableBytes() < count:
		return s.q.Read(0)
	default:
		return s.q.Read(count)
	}
}

// Extract performs a destructive read. count == 0 drains and returns
// everything currently stored. count > 0 blocks until count bytes exist,
// the queue closes (draining whatever is left as success), or the queue
// errors (returning InsufficientData).
func (s *SharedByteQueue) Extract(count int) ([]byte, error) {
	s.mu.Lock()
	if count <= 0 {
		data, err := s.q.Extract(0)
		s.mu.Unlock()
		if err == nil && len(data) > 0 {
			s.cond.Broadcast()
		}
		return data, err
	}
	for s.q.Size() < count && s.q.IsReadable() && !s.q.IsClosed() {
		s.cond.Wait()
	}
	var (
		data []byte
		err  error
	)
	switch {
	case s.q.IsErrored():
		err = errInsufficientDataExtract
	case s.q.IsClosed() && s.q.Size() < count:
		data, _ = s.q.Extract(0)
	default:
		data, err = s.q.Extract(count)
	}
	s.mu.Unlock()
	if err == nil && len(data) > 0 {
		s.cond.Broadcast()
	}
	return data, err
}

// Close marks the queue closed for further writes and wakes every waiter
// so they can re-evaluate their predicate against the drain-on-close rule.
func (s *SharedByteQueue) Close() {
	s.mu.Lock()
	s.q.Close()
	s.mu.Unlock()
	s.cond.Broadcast()
}

// SetError marks the queue neither writable nor readable and wakes every
// waiter, which will observe the error and fail.
func (s *SharedByteQueue) SetError() {
	s.mu.Lock()
	s.q.SetError()
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Clear empties the queue and resets the read cursor, waking waiters.
func (s *SharedByteQueue) Clear() {
	s.mu.Lock()
	s.q.Clear()
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Clean discards bytes strictly before the read cursor without disturbing
// unread data, reclaiming storage on a long-lived queue drained via Read.
func (s *SharedByteQueue) Clean() {
	s.mu.Lock()
	s.q.Clean()
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Reserve pre-allocates capacity ahead of a known write burst.
func (s *SharedByteQueue) Reserve(newCapacity int) {
	s.mu.Lock()
	s.q.Reserve(newCapacity)
	s.mu.Unlock()
}

// Seek repositions the non-destructive read cursor and wakes waiters so
// blocked readers can re-evaluate their predicate against the new cursor.
func (s *SharedByteQueue) Seek(delta int, mode SeekOrigin) {
	s.mu.Lock()
	s.q.Seek(delta, mode)
	s.mu.Unlock()
	s.cond.Broadcast()
}
