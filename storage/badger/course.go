package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coursefind/core"
	"github.com/poiesic/coursefind/storage"
)

// CourseRepository implements storage.CourseRepository for BadgerDB.
type CourseRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ storage.CourseRepository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(backend *Backend) (*CourseRepository, error) {
	orderSeq, err := backend.GetSequence(courseOrderSeq)
	if err != nil {
		return nil, err
	}
	return &CourseRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the order sequence.
func (r *CourseRepository) Close() error {
	return r.orderSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *CourseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddCourses adds one or more courses to storage. Courses with ID=0 get
// content-based IDs. An existing ID is replaced in place and keeps its
// original catalog position, so re-importing the same catalog is idempotent
// and duplicates within one import collapse to a single record.
func (r *CourseRepository) AddCourses(ctx context.Context, courses ...*core.Course) ([]*core.Course, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, course := range courses {
			if course.Id == 0 {
				course.Id = course.ContentID()
			}

			key := makeCourseKey(course.Id)
			existing, err := readCourse(tx, key)
			if err != nil {
				return err
			}

			if err := tx.Set(key, storage.MarshalCourse(course)); err != nil {
				return err
			}

			// Only first insertion claims a catalog position.
			if existing == nil {
				position, err := r.orderSeq.Next()
				if err != nil {
					return err
				}
				if err := tx.Set(makeCourseOrderKey(position), storage.MarshalID(course.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse retrieves a single course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id core.ID) (*core.Course, error) {
	var course *core.Course
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		course, err = readCourse(tx, makeCourseKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, storage.ErrNotFound
	}
	return course, nil
}

// GetCourses retrieves multiple courses by their IDs.
// Missing courses are skipped without error.
func (r *CourseRepository) GetCourses(ctx context.Context, ids ...core.ID) ([]*core.Course, error) {
	courses := make([]*core.Course, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			course, err := readCourse(tx, makeCourseKey(id))
			if err != nil {
				return err
			}
			if course != nil {
				courses = append(courses, course)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// AllCourses retrieves every stored course in catalog insertion order.
func (r *CourseRepository) AllCourses(ctx context.Context) ([]*core.Course, error) {
	var courses []*core.Course
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(courseOrderPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			course, err := readCourse(tx, makeCourseKey(id))
			if err != nil {
				return err
			}
			// Dangling order entries from deleted courses are skipped.
			if course != nil {
				courses = append(courses, course)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// DeleteCourses removes courses by their IDs, along with their
// insertion-order entries.
func (r *CourseRepository) DeleteCourses(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCourseKey(id)
			course, err := readCourse(tx, key)
			if err != nil {
				return err
			}
			if course == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := deleteOrderEntries(tx, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored courses.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(courseRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// readCourse reads and unmarshals a course, returning nil if the key
// doesn't exist.
func readCourse(tx *badger.Txn, key []byte) (*core.Course, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var course *core.Course
	err = item.Value(func(val []byte) error {
		var err error
		course, err = storage.UnmarshalCourse(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// deleteOrderEntries removes insertion-order entries pointing at id.
// The catalog is small enough that a prefix scan is fine here.
func deleteOrderEntries(tx *badger.Txn, id core.ID) error {
	target := storage.MarshalID(id)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(courseOrderPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var stale [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		matches := false
		err := item.Value(func(val []byte) error {
			matches = bytes.Equal(val, target)
			return nil
		})
		if err != nil {
			return err
		}
		if matches {
			stale = append(stale, item.KeyCopy(nil))
		}
	}

	for _, key := range stale {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
