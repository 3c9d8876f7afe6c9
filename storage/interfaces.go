package storage

import (
	"context"

	"github.com/poiesic/coursefind/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CourseRepository provides operations for managing the persisted course
// catalog. Only course records are persisted; embedding vectors are
// recomputed each process lifetime and never stored.
type CourseRepository interface {
	Repository

	// AddCourses adds one or more courses to storage.
	// Courses with ID=0 get content-based IDs derived from their URL.
	// A course whose ID already exists is replaced in place and keeps its
	// original catalog position, which is how duplicate imports stay
	// idempotent. Returns the courses with IDs populated.
	AddCourses(ctx context.Context, courses ...*core.Course) ([]*core.Course, error)

	// GetCourse retrieves a single course by ID.
	// Returns ErrNotFound if the course doesn't exist.
	GetCourse(ctx context.Context, id core.ID) (*core.Course, error)

	// GetCourses retrieves multiple courses by their IDs.
	// Returns only the courses that exist (no error for missing courses).
	GetCourses(ctx context.Context, ids ...core.ID) ([]*core.Course, error)

	// AllCourses retrieves every stored course in catalog insertion order.
	// The order is stable across process restarts; index construction and
	// tie-breaking depend on it.
	AllCourses(ctx context.Context) ([]*core.Course, error)

	// DeleteCourses removes courses by their IDs.
	// Returns ErrNotFound if any course doesn't exist.
	DeleteCourses(ctx context.Context, ids ...core.ID) error

	// Count returns the number of stored courses.
	Count(ctx context.Context) (int, error)
}
