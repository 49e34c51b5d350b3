package book

import "errors"

// Sentinel errors for the reader's not-found taxonomy. All of them surface to
// the HTTP layer as 404s; none is fatal to the process.
var (
	// ErrBookNotFound indicates no archive exists for the requested book id.
	ErrBookNotFound = errors.New("book: not found")

	// ErrChapterOutOfRange indicates a chapter index outside the spine.
	ErrChapterOutOfRange = errors.New("book: chapter index out of range")

	// ErrImageNotFound indicates a book image that is not in the archive.
	ErrImageNotFound = errors.New("book: image not found")

	// ErrMalformedArchive indicates an archive that cannot be deserialized.
	// The library treats such books as absent rather than failing requests.
	ErrMalformedArchive = errors.New("book: malformed archive")
)
