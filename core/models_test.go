package core

import (
	"errors"
	"testing"
)

func TestContentDigest(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d1 := ContentDigest(tt.content)
			d2 := ContentDigest(tt.content)
			if d1 != d2 {
				t.Errorf("ContentDigest() produced different digests for same content: %s vs %s", d1, d2)
			}
			if len(d1) != 16 {
				t.Errorf("ContentDigest() length = %d, want 16", len(d1))
			}
		})
	}
}

func TestContentDigest_Different(t *testing.T) {
	if ContentDigest("content1") == ContentDigest("content2") {
		t.Errorf("ContentDigest() produced same digest for different content")
	}
}

func TestIndexEntry_Chunk(t *testing.T) {
	entry := IndexEntry{
		ID:      "data/a.pdf:3:1",
		Content: "hello",
		Source:  "data/a.pdf",
		Page:    3,
		Vector:  []float32{1, 2},
	}

	got := entry.Chunk()
	want := Chunk{
		Content:  "hello",
		Metadata: ChunkMetadata{Source: "data/a.pdf", Page: 3, ID: "data/a.pdf:3:1"},
	}
	if got != want {
		t.Errorf("IndexEntry.Chunk() = %+v, want %+v", got, want)
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
	}{
		{name: "config", err: &ConfigError{Field: "chunk_size", Err: cause}},
		{name: "load", err: &LoadError{Source: "data/a.pdf", Err: cause}},
		{name: "index write", err: &IndexWriteError{Attempted: 3, Err: cause}},
		{name: "generation", err: &GenerationError{Err: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("errors.Is(%v, cause) = false, want true", tt.err)
			}
			if tt.err.Error() == "" {
				t.Errorf("Error() returned empty string")
			}
		})
	}

	var writeErr *IndexWriteError
	wrapped := errors.Join(errors.New("context"), &IndexWriteError{Attempted: 2, Err: cause})
	if !errors.As(wrapped, &writeErr) || writeErr.Attempted != 2 {
		t.Errorf("errors.As failed to recover IndexWriteError from %v", wrapped)
	}
}
