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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/coursefind/core"
)

// Courses are serialized in the MUS format: the ID as a varint followed by
// the string and integer fields in declaration order. The field order is the
// wire contract; changing it breaks existing databases.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalCourse serializes a Course to bytes.
func MarshalCourse(course *core.Course) []byte {
	buf := make([]byte, sizeCourse(course))
	n := varint.Uint64.Marshal(uint64(course.Id), buf)
	n += ord.String.Marshal(course.Title, buf[n:])
	n += ord.String.Marshal(course.Description, buf[n:])
	n += ord.String.Marshal(course.Instructor, buf[n:])
	n += ord.String.Marshal(course.URL, buf[n:])
	n += ord.String.Marshal(course.ImageURL, buf[n:])
	n += varint.Int.Marshal(course.EnrollmentCount, buf[n:])
	n += ord.String.Marshal(course.Price, buf[n:])
	n += ord.String.Marshal(course.Category, buf[n:])
	n += ord.String.Marshal(course.Duration, buf[n:])
	ord.String.Marshal(course.Level, buf[n:])
	return buf
}

// UnmarshalCourse deserializes a Course from bytes.
func UnmarshalCourse(data []byte) (*core.Course, error) {
	course := &core.Course{}

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	course.Id = core.ID(id)

	for _, field := range []*string{
		&course.Title,
		&course.Description,
		&course.Instructor,
		&course.URL,
		&course.ImageURL,
	} {
		var m int
		*field, m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += m
	}

	var m int
	course.EnrollmentCount, m, err = varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m

	for _, field := range []*string{
		&course.Price,
		&course.Category,
		&course.Duration,
		&course.Level,
	} {
		*field, m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += m
	}

	return course, nil
}

func sizeCourse(course *core.Course) int {
	size := varint.Uint64.Size(uint64(course.Id))
	size += ord.String.Size(course.Title)
	size += ord.String.Size(course.Description)
	size += ord.String.Size(course.Instructor)
	size += ord.String.Size(course.URL)
	size += ord.String.Size(course.ImageURL)
	size += varint.Int.Size(course.EnrollmentCount)
	size += ord.String.Size(course.Price)
	size += ord.String.Size(course.Category)
	size += ord.String.Size(course.Duration)
	size += ord.String.Size(course.Level)
	return size
}
