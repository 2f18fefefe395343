// Package parsing converts loosely structured, bilingual video filenames
// into structured academic metadata.
//
// Normalize strips the extension, pulls the first brace-enclosed region out
// as secondary-language text, and splits the remainder on dash/underscore
// separators. Parse then scans each token against an ordered table of
// disjoint grammars (teacher code, academic level, curriculum track, subject
// branch, term/unit/lesson/class identifiers) and classifies the content type
// (standard, revision, question, or revision+question).
//
// Teacher-name extraction and academic-year resolution are ordered fallback
// strategy chains; the first strategy producing a non-empty result wins.
//
// Parsing is pure: no I/O, no logging, and identical inputs always produce
// identical records. Unexpected panics degrade to a record with
// AcademicYear set to the Error sentinel, which downstream matching surfaces
// as "manual selection required".
package parsing
