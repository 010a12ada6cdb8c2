// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docrag/core"
	"github.com/tmc/langchaingo/documentloaders"
)

// ErrNotDirectory is returned when the input path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// PDFDirectory loads every PDF found under a directory, one Document per page.
type PDFDirectory struct {
	root    string
	workers int
	logger  *slog.Logger
}

// Option configures a PDFDirectory.
type Option func(*PDFDirectory)

// WithWorkers sets how many files are extracted concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(d *PDFDirectory) {
		if n < 1 {
			n = 1
		}
		d.workers = n
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *PDFDirectory) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewPDFDirectory creates a loader rooted at root.
func NewPDFDirectory(root string, opts ...Option) *PDFDirectory {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}

	d := &PDFDirectory{
		root:    root,
		workers: workers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the directory being loaded.
func (d *PDFDirectory) Root() string {
	return d.root
}

// Files lists the PDF files under the root, sorted lexically by path.
func (d *PDFDirectory) Files() ([]string, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, &core.ConfigError{Field: "data_path", Err: err}
	}
	if !info.IsDir() {
		return nil, &core.ConfigError{Field: "data_path", Err: fmt.Errorf("%w: %s", ErrNotDirectory, d.root)}
	}

	var files []string
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &core.LoadError{Source: d.root, Err: err}
	}

	slices.Sort(files)
	return files, nil
}

// Load extracts the text of every page of every PDF under the root.
// Documents are ordered by file path and then by page. Any file that
// cannot be extracted aborts the load with a *core.LoadError.
func (d *PDFDirectory) Load(ctx context.Context) ([]core.Document, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		d.logger.Warn("no PDF files found", "path", d.root)
		return nil, nil
	}

	pool, err := ants.NewPool(min(d.workers, len(files)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	pages := make([][]core.Document, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup

	for n, path := range files {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			pages[n], errs[n] = loadFile(ctx, path)
		})
		if err != nil {
			wg.Done()
			errs[n] = &core.LoadError{Source: path, Err: err}
		}
	}
	wg.Wait()

	var docs []core.Document
	for n, path := range files {
		if errs[n] != nil {
			return nil, errs[n]
		}
		d.logger.Debug("extracted file", "path", path, "pages", len(pages[n]))
		docs = append(docs, pages[n]...)
	}

	d.logger.Info("loaded documents", "files", len(files), "pages", len(docs))
	return docs, nil
}

func loadFile(ctx context.Context, path string) (docs []core.Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}

	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = &core.LoadError{Source: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}

	raw, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}

	docs = make([]core.Document, 0, len(raw))
	for n, doc := range raw {
		docs = append(docs, core.Document{
			Source:  path,
			Page:    pageIndex(doc.Metadata, n),
			Content: doc.PageContent,
		})
	}
	return docs, nil
}

// pageIndex converts the 1-based page number recorded by the PDF loader to
// a 0-based index, falling back to the position in the result.
func pageIndex(metadata map[string]any, position int) int {
	switch page := metadata["page"].(type) {
	case int:
		return page - 1
	case int64:
		return int(page) - 1
	case float64:
		return int(page) - 1
	default:
		return position
	}
}
