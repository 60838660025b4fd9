package queue

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	q := NewByteQueue()

	if ok := q.Write([]byte("hello")); !ok {
		t.Fatal("Write should succeed on a fresh queue")
	}

	got, err := q.Read(5)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Read returned %q, want %q", got, "hello")
	}

	// Read is non-destructive: Size is unchanged, but the cursor advanced so
	// AvailableBytes is now 0.
	if q.Size() != 5 {
		t.Errorf("Size after Read = %d, want 5", q.Size())
	}
	if q.AvailableBytes() != 0 {
		t.Errorf("AvailableBytes after Read = %d, want 0", q.AvailableBytes())
	}
}

func TestExtractRemovesData(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("abcdef")

	got, err := q.Extract(3)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("Extract returned %q, want %q", got, "abc")
	}
	if q.Size() != 3 {
		t.Errorf("Size after Extract = %d, want 3", q.Size())
	}

	rest, err := q.Extract(0)
	if err != nil {
		t.Fatalf("Extract(0) returned error: %v", err)
	}
	if string(rest) != "def" {
		t.Errorf("Extract(0) returned %q, want %q", rest, "def")
	}
	if !q.Empty() {
		t.Error("queue should be empty after extracting everything")
	}
}

func TestWriteFailsWhenClosed(t *testing.T) {
	q := NewByteQueue()
	q.Close()

	if q.Write([]byte("x")) {
		t.Error("Write should fail once the queue is closed")
	}
}

func TestWriteFailsOnEmptyInput(t *testing.T) {
	q := NewByteQueue()
	if q.Write(nil) {
		t.Error("Write should fail on empty input without mutating state")
	}
	if q.Write([]byte{}) {
		t.Error("Write should fail on empty input without mutating state")
	}
}

func TestReadInsufficientData(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("ab")

	if _, err := q.Read(5); err == nil {
		t.Fatal("Read should fail when more bytes are requested than available")
	}
}

func TestExtractInsufficientData(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("ab")

	if _, err := q.Extract(5); err == nil {
		t.Fatal("Extract should fail when more bytes are requested than available")
	}
}

func TestErroredQueueRejectsReadsAndWrites(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("data")
	q.SetError()

	if q.Write([]byte("more")) {
		t.Error("Write should fail once the queue is errored")
	}
	if _, err := q.Read(1); err == nil {
		t.Error("Read should fail once the queue is errored")
	}
	if _, err := q.Extract(1); err == nil {
		t.Error("Extract should fail once the queue is errored")
	}
}

func TestEoFSemantics(t *testing.T) {
	q := NewByteQueue()

	if q.EoF() {
		t.Error("an open, empty queue should never report EoF")
	}

	q.WriteString("x")
	q.Close()
	if q.EoF() {
		t.Error("a closed queue with unread bytes should not report EoF yet")
	}
	if _, err := q.Extract(0); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !q.EoF() {
		t.Error("a closed, drained queue should report EoF")
	}

	q2 := NewByteQueue()
	q2.SetError()
	if !q2.EoF() {
		t.Error("an errored queue with nothing available should report EoF")
	}
}

func TestGrowToFitAcrossWrap(t *testing.T) {
	q := NewByteQueue()

	// Force several growth cycles and a wraparound by extracting from the
	// head between writes.
	chunk := make([]byte, 50)
	for i := range chunk {
		chunk[i] = byte(i)
	}

	for i := 0; i < 10; i++ {
		if !q.Write(chunk) {
			t.Fatalf("Write %d should succeed", i)
		}
		if _, err := q.Extract(40); err != nil {
			t.Fatalf("Extract on iteration %d failed: %v", i, err)
		}
	}

	remaining, err := q.Extract(0)
	if err != nil {
		t.Fatalf("final Extract failed: %v", err)
	}
	if got, want := len(remaining), 10*50-10*40; got != want {
		t.Errorf("remaining bytes = %d, want %d", got, want)
	}
}

func TestClear(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("xyz")
	q.Seek(1, SeekAbsolute)
	q.Clear()

	if !q.Empty() {
		t.Error("Clear should empty the queue")
	}
	if q.AvailableBytes() != 0 {
		t.Error("Clear should reset the read cursor")
	}
}

func TestClean(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("abcdef")
	if _, err := q.Read(4); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	q.Clean()

	if q.Size() != 2 {
		t.Errorf("Size after Clean = %d, want 2", q.Size())
	}
	if q.AvailableBytes() != 2 {
		t.Errorf("AvailableBytes after Clean = %d, want 2", q.AvailableBytes())
	}

	rest, err := q.Read(2)
	if err != nil {
		t.Fatalf("Read after Clean failed: %v", err)
	}
	if string(rest) != "ef" {
		t.Errorf("Read after Clean = %q, want %q", rest, "ef")
	}
}

func TestReserveGrowsCapacityAndPreservesData(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("abc")
	q.Reserve(256)

	if q.Capacity() < 256 {
		t.Errorf("Capacity after Reserve = %d, want >= 256", q.Capacity())
	}

	data, err := q.Extract(0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("data after Reserve = %q, want %q", data, "abc")
	}
}

func TestSeekAbsoluteAndRelative(t *testing.T) {
	q := NewByteQueue()
	q.WriteString("0123456789")

	q.Seek(4, SeekAbsolute)
	if q.AvailableBytes() != 6 {
		t.Errorf("AvailableBytes after SeekAbsolute(4) = %d, want 6", q.AvailableBytes())
	}

	q.Seek(-2, SeekRelative)
	if q.AvailableBytes() != 8 {
		t.Errorf("AvailableBytes after SeekRelative(-2) = %d, want 8", q.AvailableBytes())
	}

	q.Seek(1000, SeekRelative)
	if q.AvailableBytes() != 0 {
		t.Error("SeekRelative should clamp the cursor at Size()")
	}

	// Negative absolute offsets are ignored; cursor stays wherever it was.
	q.Seek(-1000, SeekAbsolute)
	if q.AvailableBytes() != 0 {
		t.Error("negative SeekAbsolute offset should be a no-op")
	}

	q.Seek(0, SeekAbsolute)
	if q.AvailableBytes() != 10 {
		t.Errorf("AvailableBytes after SeekAbsolute(0) = %d, want 10", q.AvailableBytes())
	}
}
