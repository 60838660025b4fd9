package queue

import (
	"sync"
	"testing"
	"time"
)

func TestSharedReadBlocksUntilEnoughData(t *testing.T) {
	s := NewSharedByteQueue()

	result := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		data, err := s.Read(5)
		result <- data
		errCh <- err
	}()

	// Give the reader a chance to block before data arrives.
	time.Sleep(20 * time.Millisecond)
	s.WriteString("he")
	time.Sleep(20 * time.Millisecond)
	s.WriteString("llo")

	select {
	case data := <-result:
		if err := <-errCh; err != nil {
			t.Fatalf("Read returned error: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("Read returned %q, want %q", data, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after enough data arrived")
	}
}

func TestSharedReadDrainsOnClose(t *testing.T) {
	s := NewSharedByteQueue()
	s.WriteString("ab")

	result := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		data, err := s.Read(10)
		result <- data
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case data := <-result:
		if err := <-errCh; err != nil {
			t.Fatalf("a closed, under-filled Read should drain as success, got error: %v", err)
		}
		if string(data) != "ab" {
			t.Errorf("Read returned %q, want %q", data, "ab")
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after Close")
	}
}

func TestSharedReadFailsOnError(t *testing.T) {
	s := NewSharedByteQueue()
	s.WriteString("a")

	result := make(chan error, 1)
	go func() {
		_, err := s.Read(10)
		result <- err
	}()

	time.Sleep(20 * time.Millisecond)
	s.SetError()

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("Read on an errored queue should fail, not drain")
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after SetError")
	}
}

func TestSharedExtractBlocksAndDrains(t *testing.T) {
	s := NewSharedByteQueue()

	result := make(chan []byte, 1)
	go func() {
		data, _ := s.Extract(5)
		result <- data
	}()

	time.Sleep(20 * time.Millisecond)
	s.WriteString("abc")
	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case data := <-result:
		if string(data) != "abc" {
			t.Errorf("Extract returned %q, want %q", data, "abc")
		}
	case <-time.After(time.Second):
		t.Fatal("Extract did not unblock after Close")
	}
}

func TestSharedProducerConsumerConcurrent(t *testing.T) {
	s := NewSharedByteQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.WriteString("x")
		}
		s.Close()
	}()

	var total int
	for {
		data, err := s.Extract(1)
		if err != nil {
			// Errored is not expected in this test; a closed drain returning
			// zero bytes signals the end of the stream.
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) == 0 {
			break
		}
		total += len(data)
	}

	wg.Wait()
	if total != 100 {
		t.Errorf("total extracted = %d, want 100", total)
	}
}

func TestSharedCleanAndReserve(t *testing.T) {
	s := NewSharedByteQueue()
	s.WriteString("abcdef")
	if _, err := s.Read(4); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	s.Clean()
	if s.Size() != 2 {
		t.Errorf("Size after Clean = %d, want 2", s.Size())
	}

	s.Reserve(512)
	data, err := s.Extract(0)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if string(data) != "ef" {
		t.Errorf("data after Reserve = %q, want %q", data, "ef")
	}
}
