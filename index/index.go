package index

import "github.com/poiesic/coursefind/core"

// Index is the immutable, index-aligned pairing of course records and their
// embedding vectors: the vector at position i belongs to the course at
// position i. That alignment is the central invariant; the index is never
// partially updated, only rebuilt from scratch.
//
// Because an Index is read-only after construction, concurrent queries
// against the same Index are safe without locking.
type Index struct {
	courses []*core.Course
	vectors [][]float32
	dim     int
}

// Len returns the number of indexed courses.
func (x *Index) Len() int {
	return len(x.courses)
}

// IsEmpty reports whether the index holds no courses. An empty index is a
// valid state meaning "no catalog loaded", distinct from "no matches".
func (x *Index) IsEmpty() bool {
	return len(x.courses) == 0
}

// Dimension returns the embedding dimensionality, 0 for an empty index.
func (x *Index) Dimension() int {
	return x.dim
}

// Course returns the course at position i.
func (x *Index) Course(i int) *core.Course {
	return x.courses[i]
}

// Vector returns the embedding vector at position i.
// Callers must treat the returned slice as read-only.
func (x *Index) Vector(i int) []float32 {
	return x.vectors[i]
}

// Courses returns the indexed courses in insertion order.
// Callers must treat the returned slice as read-only.
func (x *Index) Courses() []*core.Course {
	return x.courses
}
