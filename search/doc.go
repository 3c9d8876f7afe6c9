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


// Package search ranks course catalogs against free-text queries.
//
// The Searcher encodes a query into an embedding vector, computes cosine
// similarity against every vector in the corpus index, and selects the top-k
// matches with a stable tie-break on corpus insertion order, so identical
// inputs always produce identical results. FilterResults then narrows a
// ranked list by category and level facets without disturbing rank order.
//
// The corpus is small enough for exhaustive comparison; there is no
// approximate-nearest-neighbor structure here on purpose.
package search
