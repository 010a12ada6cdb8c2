package core

import (
	"errors"
	"slices"
	"testing"
)

func chunksAt(pairs ...any) []Chunk {
	chunks := make([]Chunk, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		chunks = append(chunks, Chunk{
			Content:  "text",
			Metadata: ChunkMetadata{Source: pairs[i].(string), Page: pairs[i+1].(int)},
		})
	}
	return chunks
}

func ids(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Metadata.ID
	}
	return out
}

func TestAssignIDs_ResetOnPageChange(t *testing.T) {
	chunks := chunksAt("A", 0, "A", 0, "A", 1, "B", 0)

	got, err := AssignIDs(chunks)
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}

	want := []string{"A:0:0", "A:0:1", "A:1:0", "B:0:0"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("AssignIDs() = %v, want %v", ids(got), want)
	}
}

func TestAssignIDs_Deterministic(t *testing.T) {
	build := func() []Chunk {
		return chunksAt("data/a.pdf", 0, "data/a.pdf", 0, "data/a.pdf", 0,
			"data/a.pdf", 1, "data/b.pdf", 0, "data/b.pdf", 0)
	}

	first, err := AssignIDs(build())
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}
	second, err := AssignIDs(build())
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}

	if !slices.Equal(ids(first), ids(second)) {
		t.Errorf("AssignIDs() not deterministic: %v vs %v", ids(first), ids(second))
	}
}

func TestAssignIDs_UniqueWithinBatch(t *testing.T) {
	chunks := chunksAt("a", 0, "a", 0, "a", 1, "a", 1, "a", 1, "b", 0)

	got, err := AssignIDs(chunks)
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, id := range ids(got) {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAssignIDs_NoResort(t *testing.T) {
	// A page revisited after another page starts a fresh index.
	chunks := chunksAt("a", 0, "b", 0, "a", 0)

	got, err := AssignIDs(chunks)
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}

	want := []string{"a:0:0", "b:0:0", "a:0:0"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("AssignIDs() = %v, want %v", ids(got), want)
	}
}

func TestAssignIDs_DoesNotMutateInput(t *testing.T) {
	chunks := chunksAt("a", 0)
	if _, err := AssignIDs(chunks); err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}
	if chunks[0].Metadata.ID != "" {
		t.Errorf("input chunk mutated: id = %q", chunks[0].Metadata.ID)
	}
}

func TestAssignIDs_Empty(t *testing.T) {
	got, err := AssignIDs(nil)
	if err != nil {
		t.Fatalf("AssignIDs() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("AssignIDs(nil) returned %d chunks", len(got))
	}
}

func TestAssignIDs_MissingSource(t *testing.T) {
	chunks := []Chunk{{Content: "x", Metadata: ChunkMetadata{Page: 0}}}

	_, err := AssignIDs(chunks)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("AssignIDs() error = %v, want *ConfigError", err)
	}
	if !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("AssignIDs() error = %v, want ErrMissingMetadata", err)
	}
}

func TestAssignContentIDs(t *testing.T) {
	chunks := []Chunk{
		{Content: "alpha", Metadata: ChunkMetadata{Source: "a", Page: 0}},
		{Content: "beta", Metadata: ChunkMetadata{Source: "a", Page: 0}},
	}

	got, err := AssignContentIDs(chunks)
	if err != nil {
		t.Fatalf("AssignContentIDs() error = %v", err)
	}

	want := []string{"a:0:" + ContentDigest("alpha"), "a:0:" + ContentDigest("beta")}
	if !slices.Equal(ids(got), want) {
		t.Errorf("AssignContentIDs() = %v, want %v", ids(got), want)
	}

	// Editing content changes the id, unlike the positional scheme.
	chunks[1].Content = "gamma"
	edited, err := AssignContentIDs(chunks)
	if err != nil {
		t.Fatalf("AssignContentIDs() error = %v", err)
	}
	if edited[1].Metadata.ID == got[1].Metadata.ID {
		t.Errorf("content id did not change after edit")
	}
}

func TestAssignIDsWithMode(t *testing.T) {
	chunks := chunksAt("a", 0, "a", 0)

	tests := []struct {
		name    string
		mode    IDMode
		want    []string
		wantErr bool
	}{
		{name: "default is positional", mode: "", want: []string{"a:0:0", "a:0:1"}},
		{name: "positional", mode: IDModePositional, want: []string{"a:0:0", "a:0:1"}},
		{name: "content", mode: IDModeContent, want: []string{"a:0:" + ContentDigest("text"), "a:0:" + ContentDigest("text")}},
		{name: "unknown", mode: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssignIDsWithMode(chunks, tt.mode)
			if tt.wantErr {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("AssignIDsWithMode() error = %v, want *ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AssignIDsWithMode() error = %v", err)
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("AssignIDsWithMode() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}
