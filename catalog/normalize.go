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


package catalog

import (
	"regexp"
	"strings"

	"github.com/poiesic/coursefind/core"
)

// Duration phrases recognized in course descriptions.
// Checked in order; the first match wins.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s*hours?`),
	regexp.MustCompile(`(?i)\d+\s*mins?`),
	regexp.MustCompile(`(?i)\d+\s*minutes?`),
	regexp.MustCompile(`(?i)\d+\s*weeks?`),
}

// normalizeCourse converts a raw catalog entry into the strict core.Course
// shape: trims the title, fills defaults for missing fields, derives level
// and duration from the description where absent, and assigns the
// content-based ID. Entries that fail domain validation are rejected.
func normalizeCourse(raw rawCourse) (*core.Course, error) {
	course := &core.Course{
		Title:           strings.TrimSpace(raw.Title),
		Description:     raw.Description,
		Instructor:      strings.TrimSpace(raw.Instructor),
		URL:             raw.URL,
		ImageURL:        raw.ImageURL,
		EnrollmentCount: raw.EnrollmentCount,
		Price:           raw.Price,
		Category:        raw.Category,
		Duration:        raw.Duration,
		Level:           raw.Level,
	}

	if course.EnrollmentCount < 0 {
		course.EnrollmentCount = 0
	}
	if course.Price == "" {
		course.Price = "Free"
	}
	if course.Duration == "" {
		course.Duration = ExtractDuration(course.Description)
	}
	if core.ValidateLevel(course.Level) != nil {
		course.Level = DeriveLevel(course.Description)
	}

	course.Id = course.ContentID()

	if err := core.ValidateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

// ExtractDuration extracts a course duration phrase from a description,
// such as "4 hours" or "2 weeks". Returns core.DurationUnspecified when
// no duration phrase is found.
func ExtractDuration(description string) string {
	for _, pattern := range durationPatterns {
		if match := pattern.FindString(description); match != "" {
			return match
		}
	}
	return core.DurationUnspecified
}

// DeriveLevel classifies a course level from its description. The first
// level keyword found wins; a description naming no level is "All Levels".
func DeriveLevel(description string) string {
	lower := strings.ToLower(description)
	for _, level := range []string{core.LevelBeginner, core.LevelIntermediate, core.LevelAdvanced} {
		if strings.Contains(lower, strings.ToLower(level)) {
			return level
		}
	}
	return core.LevelAll
}
