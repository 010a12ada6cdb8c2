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


// Package storage provides the storage abstraction layer for docrag.
//
// The vector index is the only persistent state. Its interface is split by
// capability so each consumer depends on the narrowest view it needs:
//
//   - IDReader: the id-only projection used by incremental indexing
//   - Writer: batch add, persist and full reset
//   - VectorSearcher: top-k similarity queries
//   - EntryStore: bulk iteration and rewrite for re-embedding
//
// An index owns its embedder. Chunks are embedded as part of Add and
// queries are embedded as part of Query, so ingestion and retrieval cannot
// use different embedding functions. The name of the embedding model is
// recorded on first write and checked on every later write and query.
//
// # Usage
//
//	backend, err := badger.OpenBackend("db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	index, err := badger.NewIndex(backend, provider.Embedder(), provider.EmbeddingModel())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer index.Close()
//
// Use in tests with in-memory storage:
//
//	index, backend, err := badger.NewMemoryIndex(mock.NewMockEmbedder(), "mock")
//
// # Concurrency
//
// Readers may run concurrently with each other. Two ingestion processes
// writing to the same store at once can both miss an id in their snapshot
// and write it twice; callers must serialise ingestion runs.
package storage
