// Package todo parses, serializes, and updates todo.txt task files.
//
// The file format is plain UTF-8 text, one task per line:
//
//	x 2024-01-02 (A) 2024-01-01 Buy milk @store +errands
//
// Left to right, every field except the description is optional:
//
//   - "x " completion marker
//   - completion date (YYYY-MM-DD, only recognized after the marker)
//   - "(P) " priority, a single uppercase letter A-Z
//   - created date (YYYY-MM-DD)
//   - description, which may embed @context and +project tokens anywhere
//
// Parsing extracts the embedded tokens into the task's Contexts and
// Projects sets and strips them from the description. Serialization emits
// the fields in the fixed order above with tags trailing, so a reparsed
// line reproduces the same task; byte-for-byte round-tripping of arbitrary
// input whitespace is intentionally not guaranteed.
//
// # Dates
//
// Dates are kept as YYYY-MM-DD strings, the empty string meaning absent.
// ParseLine never fills in a missing created date; only NewTask, the
// construction path behind the interactive add command, stamps today.
//
// # Durability
//
// Every Store mutation rewrites the backing file in full before the
// operation returns. Writes go through a temp file and rename, so an
// interrupted save leaves the previous file contents intact.
package todo
