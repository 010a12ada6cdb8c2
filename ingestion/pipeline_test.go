package ingestion

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/docrag/chunker"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticLoader returns a fixed set of documents.
type staticLoader struct {
	docs []core.Document
	err  error
}

func (l *staticLoader) Load(ctx context.Context) ([]core.Document, error) {
	return l.docs, l.err
}

func paragraph(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func twoChunkPage() string {
	return paragraph("alpha", 100) + "\n\n" + paragraph("omega", 100)
}

func TestNewPipeline_Validation(t *testing.T) {
	index, _ := setupTestIndex(t)
	splitter := chunker.NewDefault()
	src := &staticLoader{}

	_, err := NewPipeline(nil, splitter, index)
	assert.ErrorIs(t, err, ErrLoaderRequired)

	_, err = NewPipeline(src, nil, index)
	assert.ErrorIs(t, err, ErrSplitterRequired)

	_, err = NewPipeline(src, splitter, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewPipeline(src, splitter, index, WithIDMode("random"))
	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, core.ErrUnknownIDMode)

	p, err := NewPipeline(src, splitter, index, WithIDMode(""), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, core.IDModePositional, p.idMode)
}

func TestPipeline_TwoChunkDocument(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{{Source: "doc.pdf", Page: 0, Content: twoChunkPage()}}}

	p, err := NewPipeline(src, chunker.NewDefault(), index)
	require.NoError(t, err)

	result, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, WriteResult{Added: 2}, result.WriteResult)

	ids, err := index.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"doc.pdf:0:0": {}, "doc.pdf:0:1": {}}, ids)
}

func TestPipeline_Incremental(t *testing.T) {
	ctx := context.Background()
	index, embedder := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{
		{Source: "a.pdf", Page: 0, Content: twoChunkPage()},
		{Source: "a.pdf", Page: 1, Content: "closing remarks"},
	}}

	p, err := NewPipeline(src, chunker.NewDefault(), index)
	require.NoError(t, err)

	first, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Added)
	embedded := embedder.EmbeddedCount()

	second, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, embedded, embedder.EmbeddedCount())

	// A new page is picked up without touching the others.
	src.docs = append(src.docs, core.Document{Source: "b.pdf", Page: 0, Content: "appendix"})
	third, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Added)
	assert.Equal(t, 3, third.Skipped)
}

func TestPipeline_Reset(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{{Source: "doc.pdf", Page: 0, Content: twoChunkPage()}}}

	p, err := NewPipeline(src, chunker.NewDefault(), index)
	require.NoError(t, err)

	_, err = p.Run(ctx, RunOptions{})
	require.NoError(t, err)

	result, err := p.Run(ctx, RunOptions{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, WriteResult{Added: 2, Skipped: 0}, result.WriteResult)
}

func TestPipeline_LoadFailureLeavesIndexIntact(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{{Source: "doc.pdf", Page: 0, Content: twoChunkPage()}}}

	p, err := NewPipeline(src, chunker.NewDefault(), index)
	require.NoError(t, err)
	_, err = p.Run(ctx, RunOptions{})
	require.NoError(t, err)

	src.err = &core.LoadError{Source: "doc.pdf", Err: errors.New("truncated file")}
	result, err := p.Run(ctx, RunOptions{Reset: true})
	assert.Nil(t, result)
	var loadErr *core.LoadError
	require.True(t, errors.As(err, &loadErr))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "reset is not applied when loading fails")
}

func TestPipeline_WriteFailure(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{{Source: "doc.pdf", Page: 0, Content: twoChunkPage()}}}

	p, err := NewPipeline(src, chunker.NewDefault(), &failingIndex{Index: index, err: errors.New("read-only")})
	require.NoError(t, err)

	result, err := p.Run(ctx, RunOptions{})
	var writeErr *core.IndexWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, 2, writeErr.Attempted)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Chunks)
	assert.Zero(t, result.Added)
}

func TestPipeline_ContentIDs(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	src := &staticLoader{docs: []core.Document{{Source: "doc.pdf", Page: 0, Content: "only chunk"}}}

	p, err := NewPipeline(src, chunker.NewDefault(), index, WithIDMode(core.IDModeContent))
	require.NoError(t, err)
	_, err = p.Run(ctx, RunOptions{})
	require.NoError(t, err)

	ids, err := index.IDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "doc.pdf:0:"+core.ContentDigest("only chunk"))

	// Edited content gets a new id under content mode.
	src.docs[0].Content = "only chunk, revised"
	result, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
}

func TestPipeline_PDFDirectory(t *testing.T) {
	ctx := context.Background()
	index, _ := setupTestIndex(t)
	dir := t.TempDir()
	require.NoError(t, loader.WriteTestPDF(filepath.Join(dir, "doc.pdf"), twoChunkPage()))

	p, err := NewPipeline(loader.NewPDFDirectory(dir), chunker.NewDefault(), index)
	require.NoError(t, err)

	result, err := p.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, 2, result.Added)

	source := filepath.Join(dir, "doc.pdf")
	ids, err := index.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{source + ":0:0": {}, source + ":0:1": {}}, ids)
}
