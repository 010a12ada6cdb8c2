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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// EmbeddingModel returns the embedding model recorded for this index.
// Returns "" if no model has been recorded yet.
func (i *Index) EmbeddingModel(ctx context.Context) (string, error) {
	if err := i.checkOpen(); err != nil {
		return "", err
	}

	var model string
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(embeddingModelKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			model = string(val)
			return nil
		})
	}, false)

	return model, err
}

// SetEmbeddingModel records model as the embedding space of the index and
// adopts it for later writes and queries through this handle.
func (i *Index) SetEmbeddingModel(ctx context.Context, model string) error {
	if err := i.checkOpen(); err != nil {
		return err
	}

	err := i.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(embeddingModelKey), []byte(model)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	i.modelMu.Lock()
	i.model = model
	i.modelMu.Unlock()
	return nil
}
