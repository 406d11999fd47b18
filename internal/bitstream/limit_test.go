package bitstream

import (
	"bytes"
	"io"
	"testing"
)

func TestLimitReaderStopsAtLimit(t *testing.T) {
	src := bytes.NewReader([]byte("hello world"))
	lr := NewLimitReader(src, 5)

	got, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if lr.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", lr.Remaining())
	}

	// The underlying reader must still have the rest of the data, untouched.
	rest, _ := io.ReadAll(src)
	if string(rest) != " world" {
		t.Fatalf("underlying reader left with %q, want %q", rest, " world")
	}
}

func TestLimitReaderShorterThanLimit(t *testing.T) {
	src := bytes.NewReader([]byte("hi"))
	lr := NewLimitReader(src, 100)

	got, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}
