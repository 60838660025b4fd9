package handle

import (
	"testing"
	"time"

	"github.com/jbvmio/bytestream/queue"
)

func TestWriteHandleConsumerRoundTrip(t *testing.T) {
	w := NewWriteHandle()
	r := w.Consumer()

	if !w.Write([]byte("payload")) {
		t.Fatal("Write should succeed on a fresh handle")
	}
	w.Close()

	data, err := r.Extract(0)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Extract returned %q, want %q", data, "payload")
	}
}

func TestNewWriteHandleFromConsumer(t *testing.T) {
	w1 := NewWriteHandle()
	r1 := w1.Consumer()

	// A second producer adopts the same queue r1 already observes.
	w2 := NewWriteHandleFromConsumer(r1)
	if !w2.Write([]byte("shared")) {
		t.Fatal("Write through the adopted handle should succeed")
	}

	data, err := r1.Extract(6)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if string(data) != "shared" {
		t.Errorf("Extract returned %q, want %q", data, "shared")
	}
}

func TestReadHandleSeekAndClean(t *testing.T) {
	w := NewWriteHandle()
	r := w.Consumer()
	w.WriteString("0123456789")

	r.Seek(5, queue.SeekAbsolute)
	if r.AvailableBytes() != 5 {
		t.Errorf("AvailableBytes after Seek = %d, want 5", r.AvailableBytes())
	}

	if _, err := r.Read(5); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	r.Clean()
	if r.Size() != 0 {
		t.Errorf("Size after Clean = %d, want 0", r.Size())
	}
}

func TestWriteHandleSetErrorFailsBlockedRead(t *testing.T) {
	w := NewWriteHandle()
	r := w.Consumer()

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Extract(10)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	w.SetError()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("Extract should fail once the producer handle errors the queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Extract did not unblock after SetError")
	}
}

func TestWriteHandleIsWritable(t *testing.T) {
	w := NewWriteHandle()
	if !w.IsWritable() {
		t.Error("a fresh handle should be writable")
	}
	w.Close()
	if w.IsWritable() {
		t.Error("a closed handle should not be writable")
	}
}
