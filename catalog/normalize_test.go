package catalog

import (
	"testing"

	"github.com/poiesic/coursefind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "hours",
			description: "A hands-on course spanning 4 hours of video.",
			want:        "4 hours",
		},
		{
			name:        "single hour",
			description: "Finish in 1 hour.",
			want:        "1 hour",
		},
		{
			name:        "minutes matched by min pattern",
			description: "Quick primer, about 30 minutes total.",
			want:        "30 min",
		},
		{
			name:        "weeks",
			description: "An 8 weeks bootcamp format.",
			want:        "8 weeks",
		},
		{
			name:        "case insensitive",
			description: "Roughly 2 HOURS of content.",
			want:        "2 HOURS",
		},
		{
			name:        "no duration phrase",
			description: "Learn Python from scratch.",
			want:        core.DurationUnspecified,
		},
		{
			name:        "empty description",
			description: "",
			want:        core.DurationUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDuration(tt.description))
		})
	}
}

func TestDeriveLevel(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "beginner keyword",
			description: "Perfect for beginner programmers.",
			want:        core.LevelBeginner,
		},
		{
			name:        "intermediate keyword",
			description: "An INTERMEDIATE treatment of the topic.",
			want:        core.LevelIntermediate,
		},
		{
			name:        "advanced keyword",
			description: "Advanced techniques for practitioners.",
			want:        core.LevelAdvanced,
		},
		{
			name:        "beginner wins over advanced",
			description: "Takes you from beginner to advanced.",
			want:        core.LevelBeginner,
		},
		{
			name:        "no keyword",
			description: "Learn Python from scratch.",
			want:        core.LevelAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveLevel(tt.description))
		})
	}
}

func TestNormalizeCourse(t *testing.T) {
	t.Run("defaults filled in", func(t *testing.T) {
		course, err := normalizeCourse(rawCourse{
			Title:       "  Intro to Python  ",
			Description: "A beginner course, 4 hours of content.",
			URL:         "https://example.com/courses/intro-to-python",
		})
		require.NoError(t, err)

		assert.Equal(t, "Intro to Python", course.Title)
		assert.Equal(t, "Free", course.Price)
		assert.Equal(t, "4 hours", course.Duration)
		assert.Equal(t, core.LevelBeginner, course.Level)
		assert.Equal(t, 0, course.EnrollmentCount)
		assert.Equal(t, core.IDFromContent("https://example.com/courses/intro-to-python"), course.Id)
	})

	t.Run("explicit fields preserved", func(t *testing.T) {
		course, err := normalizeCourse(rawCourse{
			Title:           "Advanced Deep Learning",
			Description:     "Neural networks in depth.",
			EnrollmentCount: 50,
			Price:           "$49",
			Category:        "ML",
			Duration:        "6 weeks",
			Level:           core.LevelAdvanced,
		})
		require.NoError(t, err)

		assert.Equal(t, "$49", course.Price)
		assert.Equal(t, "6 weeks", course.Duration)
		assert.Equal(t, core.LevelAdvanced, course.Level)
		assert.Equal(t, 50, course.EnrollmentCount)
	})

	t.Run("invalid level is re-derived", func(t *testing.T) {
		course, err := normalizeCourse(rawCourse{
			Title:       "Python for Data Analysis",
			Description: "An intermediate walkthrough of pandas.",
			Level:       "Expert",
		})
		require.NoError(t, err)
		assert.Equal(t, core.LevelIntermediate, course.Level)
	})

	t.Run("negative enrollment clamped to zero", func(t *testing.T) {
		course, err := normalizeCourse(rawCourse{
			Title:           "Intro to SQL",
			EnrollmentCount: -5,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, course.EnrollmentCount)
	})

	t.Run("entry with no text is rejected", func(t *testing.T) {
		_, err := normalizeCourse(rawCourse{
			Instructor: "Jane Doe",
			Category:   "Programming",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrMissingText)
	})
}
