package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/coursefind/core"
)

// rawCourse mirrors the on-disk JSON contract of a catalog file: an array of
// objects with these exact field names. Missing fields decode to zero values
// and are defaulted during normalization.
type rawCourse struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Instructor      string `json:"instructor"`
	URL             string `json:"url"`
	ImageURL        string `json:"image_url"`
	EnrollmentCount int    `json:"enrollment_count"`
	Price           string `json:"price"`
	Category        string `json:"category"`
	Duration        string `json:"duration"`
	Level           string `json:"level"`
}

// Report summarizes a catalog load: how many records the file contained and
// how many were rejected during normalization.
type Report struct {
	Total    int
	Loaded   int
	Rejected int
}

// Parse reads a JSON array of course records from r, normalizes each entry
// into the strict core.Course shape, and returns the loaded courses in file
// order. Malformed entries are rejected and counted in the report rather than
// failing the whole load; malformed JSON fails the load.
//
// An empty array is not an error: it yields an empty slice, which downstream
// components report as "no catalog available".
func Parse(r io.Reader) ([]*core.Course, *Report, error) {
	var raws []rawCourse
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raws); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	report := &Report{Total: len(raws)}
	courses := make([]*core.Course, 0, len(raws))
	for i, raw := range raws {
		course, err := normalizeCourse(raw)
		if err != nil {
			slog.Warn("rejecting malformed catalog entry", "index", i, "err", err)
			report.Rejected++
			continue
		}
		courses = append(courses, course)
		report.Loaded++
	}

	return courses, report, nil
}

// LoadFile reads and parses a catalog file from disk.
func LoadFile(path string) ([]*core.Course, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(f)
}
