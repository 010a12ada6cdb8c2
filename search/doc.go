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


// Package search answers questions from the document index.
//
// A query runs three steps:
//   - Retrieve embeds the question and returns the k most similar chunks, best first
//   - Assemble joins their contents into a fixed prompt template
//   - the configured ai.Generator produces the answer in a single call
//
// QueryService wires the steps together. Retrieval and prompt assembly are
// also exported on their own so callers can inspect or reuse them.
package search
