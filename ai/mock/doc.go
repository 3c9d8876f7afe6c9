// Package mock provides test doubles for the ai interfaces.
//
// The mock embedder produces deterministic vectors derived from an FNV hash
// of the input text, so ranking and filtering logic can be tested without a
// real embedding model while still getting stable, repeatable scores.
package mock
