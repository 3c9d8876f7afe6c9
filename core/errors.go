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


package core

import "errors"

// Engine error taxonomy. Callers discriminate these with errors.Is;
// the engine never collapses them into a generic failure.
var (
	// ErrCatalogUnavailable indicates no course records have been loaded.
	// Recoverable: load a catalog and rebuild the index.
	ErrCatalogUnavailable = errors.New("no course catalog available")

	// ErrEncodingFailed indicates the embedding model could not produce
	// a vector for the given text. The query cannot proceed.
	ErrEncodingFailed = errors.New("embedding encoding failed")

	// ErrInvalidArgument indicates a caller supplied an out-of-range
	// parameter, such as a non-positive top-k or an empty query.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch indicates a corpus vector's length differs from
	// the query vector's length. This is an internal invariant violation
	// and is never silently truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Domain validation errors
var (
	// ErrInvalidCourse indicates a Course failed validation.
	ErrInvalidCourse = errors.New("invalid course")

	// ErrMissingText indicates a course has neither title nor description,
	// leaving nothing to embed.
	ErrMissingText = errors.New("course has no title or description")

	// ErrInvalidLevel indicates a level value outside the known set.
	ErrInvalidLevel = errors.New("invalid course level")

	// ErrNegativeEnrollment indicates a negative enrollment count.
	ErrNegativeEnrollment = errors.New("enrollment count cannot be negative")
)
