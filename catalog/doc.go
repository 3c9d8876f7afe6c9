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


// Package catalog parses course catalog files and normalizes raw records
// into the strict domain shape.
//
// Raw catalog entries may have missing or loose fields. Normalization
// resolves that at the boundary: defaults are filled in (price, duration,
// level), the level classification is derived from the description when
// absent, and entries with nothing to embed are rejected with a count in
// the load report. The rest of the engine only ever sees validated
// core.Course values.
package catalog
