package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Course difficulty levels. Level is a derived classification; a course that
// does not state a level is "All Levels".
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelAll          = "All Levels"
)

// DurationUnspecified is stored when no duration could be extracted
// from a course description.
const DurationUnspecified = "Duration not specified"

// Course represents one catalog item. Courses are immutable once loaded;
// search reads them but never mutates them.
type Course struct {
	Id              ID
	Title           string
	Description     string
	Instructor      string
	URL             string
	ImageURL        string
	EnrollmentCount int
	Price           string
	Category        string
	Duration        string
	Level           string
}

// EmbeddingText returns the text a course is embedded under:
// title, description, and category joined by single spaces.
func (c *Course) EmbeddingText() string {
	return c.Title + " " + c.Description + " " + c.Category
}

// ContentID derives the course's identity from its canonical URL, falling
// back to the title for records without one. Identical URLs produce identical
// IDs, which is what makes import deduplication work.
func (c *Course) ContentID() ID {
	key := c.URL
	if key == "" {
		key = c.Title
	}
	return IDFromContent(key)
}

// SearchResult pairs a course with its relevance score for one query.
// Scores are ephemeral: computed per query, never persisted.
type SearchResult struct {
	Course *Course
	Score  float32
}
