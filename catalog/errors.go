package catalog

import "errors"

var (
	// ErrMalformedCatalog is returned when catalog data cannot be parsed as
	// a JSON array of course records.
	ErrMalformedCatalog = errors.New("malformed catalog data")
)
