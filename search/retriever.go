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


package search

import (
	"context"
	"strings"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/storage"
)

// DefaultK is the number of chunks retrieved when no positive k is given.
const DefaultK = 5

// Retrieve returns up to k chunks most similar to queryText, ordered best
// first with their similarity scores. The query is embedded by the index's
// own embedder. There is no minimum score; poor matches are still returned.
func Retrieve(ctx context.Context, index storage.VectorSearcher, queryText string, k int) ([]core.SearchResult, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if strings.TrimSpace(queryText) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultK
	}
	return index.Query(ctx, queryText, k)
}
