package chunker

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words returns n distinct space separated tokens.
func words(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%04d", prefix, i)
	}
	return strings.Join(parts, " ")
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr error
	}{
		{name: "defaults", size: DefaultMaxSize, overlap: DefaultOverlap},
		{name: "zero overlap", size: 10, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: ErrInvalidMaxSize},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: ErrInvalidOverlap},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: ErrInvalidOverlap},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: ErrInvalidOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.size, tt.overlap)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.size, c.MaxSize())
				assert.Equal(t, tt.overlap, c.Overlap())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var cfgErr *core.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
			assert.Nil(t, c)
		})
	}
}

func TestSplit_MaxSizeAndOverlap(t *testing.T) {
	c := NewDefault()
	docs := []core.Document{{Source: "data/a.pdf", Page: 0, Content: words("w", 600)}}

	chunks, err := c.Split(docs)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for n, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), DefaultMaxSize, "chunk %d too long", n)
		assert.NotEmpty(t, chunk.Content)
	}

	for n := 1; n < len(chunks); n++ {
		first := strings.Fields(chunks[n].Content)[0]
		prev := chunks[n-1].Content
		assert.Contains(t, prev, first, "chunk %d does not overlap its predecessor", n)

		shared := prev[strings.Index(prev, first):]
		assert.True(t, strings.HasPrefix(chunks[n].Content, shared))
		assert.LessOrEqual(t, utf8.RuneCountInString(shared), DefaultOverlap)
	}
}

func TestSplit_CountsCharactersNotBytes(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	chunks, err := c.Split([]core.Document{{Source: "a.pdf", Content: strings.Repeat("é", 25)}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 10)
	}
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	c, err := New(50, 5)
	require.NoError(t, err)

	chunks, err := c.Split([]core.Document{{Source: "a.pdf", Content: strings.Repeat("x", 180)}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 50)
	}
}

func TestSplit_PreservesMetadataAndOrder(t *testing.T) {
	c, err := New(60, 10)
	require.NoError(t, err)

	docs := []core.Document{
		{Source: "data/b.pdf", Page: 0, Content: words("b", 30)},
		{Source: "data/b.pdf", Page: 1, Content: "short page"},
		{Source: "data/a.pdf", Page: 0, Content: words("a", 30)},
	}

	chunks, err := c.Split(docs)
	require.NoError(t, err)

	var order []string
	for _, chunk := range chunks {
		key := fmt.Sprintf("%s:%d", chunk.Metadata.Source, chunk.Metadata.Page)
		if len(order) == 0 || order[len(order)-1] != key {
			order = append(order, key)
		}
		assert.Empty(t, chunk.Metadata.ID)
	}
	assert.Equal(t, []string{"data/b.pdf:0", "data/b.pdf:1", "data/a.pdf:0"}, order)

	// Within a document the chunks follow the text.
	var bChunks []string
	for _, chunk := range chunks {
		if chunk.Metadata.Source == "data/b.pdf" && chunk.Metadata.Page == 0 {
			bChunks = append(bChunks, chunk.Content)
		}
	}
	require.Greater(t, len(bChunks), 1)
	assert.True(t, strings.HasPrefix(bChunks[0], "b0000"))
	assert.True(t, strings.HasSuffix(bChunks[len(bChunks)-1], "b0029"))
}

func TestSplit_ParagraphsPreferred(t *testing.T) {
	c, err := New(40, 0)
	require.NoError(t, err)

	text := "first paragraph is here\n\nsecond paragraph is here"
	chunks, err := c.Split([]core.Document{{Source: "a.pdf", Content: text}})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first paragraph is here", chunks[0].Content)
	assert.Equal(t, "second paragraph is here", chunks[1].Content)
}

func TestSplit_EmptyInput(t *testing.T) {
	c := NewDefault()

	chunks, err := c.Split(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Split([]core.Document{{Source: "a.pdf", Page: 3}})
	require.NoError(t, err)
	assert.Empty(t, chunks, "blank pages produce no chunks")
}

func TestSplit_InvalidDocument(t *testing.T) {
	c := NewDefault()

	_, err := c.Split([]core.Document{{Content: "orphan"}})
	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, core.ErrMissingMetadata)
}

func TestSplit_TwoChunkPage(t *testing.T) {
	c := NewDefault()
	text := words("p", 100) + "\n\n" + words("q", 100)

	chunks, err := c.Split([]core.Document{{Source: "doc.pdf", Page: 0, Content: text}})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, words("p", 100), chunks[0].Content)
	assert.Equal(t, words("q", 100), chunks[1].Content)
}

// randomText mixes short words, line and paragraph breaks, accented runes and
// tokens longer than any chunk size under test.
func randomText(r *rand.Rand, tokens int) string {
	var b strings.Builder
	for range tokens {
		switch x := r.IntN(100); {
		case x < 3:
			b.WriteString(strings.Repeat("x", 50+r.IntN(1200)))
		case x < 10:
			b.WriteString("\n\n")
		case x < 20:
			b.WriteString("\n")
		case x < 25:
			b.WriteString(strings.Repeat("é", 1+r.IntN(9)))
		default:
			b.WriteString(strings.Repeat(string(rune('a'+r.IntN(26))), 1+r.IntN(14)))
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func TestSplit_NeverExceedsMaxSize(t *testing.T) {
	sizes := []struct{ size, overlap int }{
		{DefaultMaxSize, DefaultOverlap},
		{100, 20},
		{50, 0},
		{37, 36},
	}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%d/%d", sz.size, sz.overlap), func(t *testing.T) {
			c, err := New(sz.size, sz.overlap)
			require.NoError(t, err)

			r := rand.New(rand.NewPCG(7, uint64(sz.size)))
			docs := make([]core.Document, 200)
			for n := range docs {
				docs[n] = core.Document{Source: "data/r.pdf", Page: n, Content: randomText(r, 50+r.IntN(400))}
			}

			chunks, err := c.Split(docs)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)
			for n, chunk := range chunks {
				runes := utf8.RuneCountInString(chunk.Content)
				require.LessOrEqual(t, runes, sz.size, "chunk %d of page %d has %d runes", n, chunk.Metadata.Page, runes)
				require.NotEmpty(t, strings.TrimSpace(chunk.Content))
			}
		})
	}
}

func TestSplit_SeparatorOverrunIsCut(t *testing.T) {
	// The merge keeps "bbb…" as overlap and then joins it with the next
	// paragraph, counting no separator between them: 20 + 2 + 79 runes.
	c, err := New(100, 20)
	require.NoError(t, err)

	last := strings.TrimSpace(strings.Repeat("cccc ", 16))
	require.Equal(t, 79, utf8.RuneCountInString(last))
	text := strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 20) + "\n\n" + last

	chunks, err := c.Split([]core.Document{{Source: "a.pdf", Content: text}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 100)
	}
	assert.Equal(t, strings.Repeat("a", 60)+"\n\n"+strings.Repeat("b", 20), chunks[0].Content)
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Content, "cccc"))

	var joined strings.Builder
	for _, chunk := range chunks {
		joined.WriteString(chunk.Content)
	}
	assert.Equal(t, 16, strings.Count(text, "cccc"))
	assert.GreaterOrEqual(t, strings.Count(joined.String(), "cccc"), 16, "text lost while cutting")
}

// sharedPrefix returns the longest prefix of next that prev ends with.
func sharedPrefix(prev, next string) string {
	for k := len(next); k > 0; k-- {
		if strings.HasSuffix(prev, next[:k]) {
			return next[:k]
		}
	}
	return ""
}

func TestSplit_OverlapIsCarried(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks, err := c.Split([]core.Document{{Source: "a.pdf", Content: words("w", 120)}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 3)

	for n := 1; n < len(chunks); n++ {
		shared := sharedPrefix(chunks[n-1].Content, chunks[n].Content)
		assert.NotEmpty(t, shared, "chunk %d shares nothing with its predecessor", n)
		assert.LessOrEqual(t, utf8.RuneCountInString(shared), 20)
		assert.True(t, strings.HasPrefix(shared, "w"))
	}
}

func TestBound(t *testing.T) {
	c, err := New(10, 4)
	require.NoError(t, err)

	tests := []struct {
		name  string
		parts []string
		want  []string
	}{
		{name: "short parts pass through", parts: []string{"abc", "", "defg"}, want: []string{"abc", "defg"}},
		{name: "cut at last space", parts: []string{"aaa bbb ccc"}, want: []string{"aaa bbb", "bbb ccc"}},
		{name: "hard cut without spaces", parts: []string{"abcdefghijkl"}, want: []string{"abcdefghij", "ghijkl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.bound(tt.parts))
		})
	}
}
