// Package storage defines the persistence interfaces for the course catalog
// and the binary serialization used by backends.
//
// Only catalog records are persisted. Embedding vectors are deliberately not
// stored: they are recomputed when the index is built, so a model change
// never leaves stale vectors behind.
package storage
