package audio

import (
	"testing"
)

func TestRingBuffer_WriteRead(t *testing.T) {
	rb := NewRingBuffer(10)

	written := rb.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, got %d", written)
	}
	if rb.Available() != 5 {
		t.Errorf("Expected available 5, got %d", rb.Available())
	}

	out := make([]byte, 3)
	read := rb.Read(out)
	if read != 3 {
		t.Errorf("Expected to read 3 bytes, got %d", read)
	}
	if out[0] != 1 || out[2] != 3 {
		t.Errorf("Expected FIFO order, got %v", out)
	}
	if rb.Available() != 2 {
		t.Errorf("Expected available 2 after read, got %d", rb.Available())
	}
}

func TestRingBuffer_Overflow(t *testing.T) {
	rb := NewRingBuffer(5)

	// Capacity is size-1 bytes.
	written := rb.Write([]byte{1, 2, 3, 4})
	if written != 4 {
		t.Errorf("Expected to write 4 bytes, got %d", written)
	}
	if !rb.IsFull() {
		t.Error("Expected buffer to be full")
	}

	written = rb.Write([]byte{5, 6})
	if written != 0 {
		t.Errorf("Expected overflow write to drop all bytes, got %d written", written)
	}
}

func TestRingBuffer_Wraparound(t *testing.T) {
	rb := NewRingBuffer(5)

	rb.Write([]byte{1, 2, 3})
	out := make([]byte, 2)
	rb.Read(out)

	// Write past the physical end of the slice.
	written := rb.Write([]byte{4, 5, 6})
	if written != 3 {
		t.Errorf("Expected to write 3 bytes after wrap, got %d", written)
	}

	out = make([]byte, 4)
	read := rb.Read(out)
	if read != 4 {
		t.Fatalf("Expected to read 4 bytes, got %d", read)
	}
	expected := []byte{3, 4, 5, 6}
	for i, b := range expected {
		if out[i] != b {
			t.Errorf("Byte %d: expected %d, got %d", i, b, out[i])
		}
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Write([]byte{1, 2, 3})
	rb.Clear()

	if !rb.IsEmpty() {
		t.Error("Expected buffer empty after clear")
	}
	if rb.Available() != 0 {
		t.Errorf("Expected available 0, got %d", rb.Available())
	}
	if rb.Space() != 9 {
		t.Errorf("Expected space 9, got %d", rb.Space())
	}
}
