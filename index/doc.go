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


// Package index builds and holds the corpus index: the authoritative,
// index-aligned pairing of course records and their embedding vectors.
//
// An index is built once per catalog and is immutable afterwards. Builds
// batch-embed course texts on a worker pool with retry and progress
// reporting; the order of the input catalog is always preserved, and a
// failed build never yields a partial index.
package index
