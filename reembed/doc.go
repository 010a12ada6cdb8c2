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


// Package reembed rebuilds the vectors of an existing index with a new or
// updated embedding model.
//
// Entries are read in batches, re-embedded with exponential backoff on
// failure, normalized to unit length and written back under their existing
// ids. When every batch succeeds the index records the new model name so
// later queries are checked against it.
package reembed
