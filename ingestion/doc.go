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


// Package ingestion turns a directory of documents into index entries.
//
// The Pipeline runs four stages in order: load pages, split them into
// chunks, assign each chunk a deterministic id, and write the chunks whose
// ids are not yet in the index. Repeated runs over unchanged input add
// nothing, which makes ingestion incremental.
//
// Runs are synchronous. Two pipelines writing to the same store at once can
// both see an id as missing and write it twice; callers must ensure only one
// ingestion runs against a store at a time.
package ingestion
