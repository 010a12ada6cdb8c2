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

import "strings"

// Key prefixes for different data types
const (
	entryPrefix       = "chunk:"
	metaPrefix        = "meta:"
	embeddingModelKey = metaPrefix + "embedding_model"
)

// makeEntryKey generates a key for an index entry by chunk id.
// Format: prefix + id. Ids sort lexically, so iteration is in id order.
func makeEntryKey(id string) []byte {
	return []byte(entryPrefix + id)
}

// idFromEntryKey recovers the chunk id from an entry key.
func idFromEntryKey(key []byte) string {
	return strings.TrimPrefix(string(key), entryPrefix)
}
