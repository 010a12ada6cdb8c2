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


// Package ai provides abstractions for the model services used by docrag.
//
// Two capabilities are needed:
//
//   - Embedder: turns chunk and query text into vectors
//   - Generator: turns an assembled prompt into an answer
//
// AIProvider bundles both together with the name of the embedding model,
// which the index records so that ingestion and querying always share one
// embedding space.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible HTTP APIs (Ollama /v1, vLLM, OpenAI)
//   - ai/ollama: Ollama's native API
//   - ai/mock: deterministic test doubles
//
// The openai and ollama packages only build langchaingo clients; both hand
// them to LangchainEmbedder and LangchainGenerator, which carry the shared
// logging and error handling.
//
// Public constructors return interface types. Mock service constructors return
// concrete types so tests can inject behavior and inspect call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	answer, err := provider.Generator().Generate(ctx, prompt)
package ai
