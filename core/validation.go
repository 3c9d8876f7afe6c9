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

import "fmt"

// ValidateCourse validates a Course according to domain rules.
//
// Validation rules:
//   - At least one of Title and Description must be non-empty
//     (the embedding text would otherwise carry no signal)
//   - Level must be one of the known level values
//   - EnrollmentCount must not be negative
//
// NOT validated (may legitimately be empty):
//   - Instructor, ImageURL, Category
//   - ID (0 is valid before normalization assigns a content ID)
func ValidateCourse(course *Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", ErrInvalidCourse)
	}

	if course.Title == "" && course.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, ErrMissingText)
	}

	if err := ValidateLevel(course.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, err)
	}

	if course.EnrollmentCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, ErrNegativeEnrollment)
	}

	return nil
}

// ValidateLevel validates that a level string is one of the known values.
func ValidateLevel(level string) error {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLevel, level)
}
