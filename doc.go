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


// Package docrag answers questions about a directory of PDF files.
//
// Ingestion loads each PDF page, splits it into overlapping chunks, gives
// every chunk a deterministic id and writes only chunks whose ids are new
// to a persistent badger index. Queries embed the question, retrieve the
// closest chunks and ask a language model to answer from them alone.
//
// Open wires the pieces from a config.Config:
//
//	db, err := docrag.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	pipeline, err := db.NewIngestionPipeline()
//	...
//	result, err := pipeline.Run(ctx, ingestion.RunOptions{})
//	...
//	service, err := db.NewQueryService()
//	answer, err := service.Query(ctx, "How do I reset the device?")
package docrag
