package book

import "fmt"

// Spine is the ordered chapter sequence of a book, immutable after load.
type Spine []Chapter

// Len returns the chapter count.
func (s Spine) Len() int { return len(s) }

// Get returns the chapter at index, or ErrChapterOutOfRange when index is
// negative or past the end.
func (s Spine) Get(index int) (Chapter, error) {
	if index < 0 || index >= len(s) {
		return Chapter{}, fmt.Errorf("chapter %d of %d: %w", index, len(s), ErrChapterOutOfRange)
	}
	return s[index], nil
}

// PreviousIndex returns the index before i, false at the start of the spine.
func PreviousIndex(i int) (int, bool) {
	if i > 0 {
		return i - 1, true
	}
	return 0, false
}

// NextIndex returns the index after i, false at the end of a spine of the
// given length.
func NextIndex(i, length int) (int, bool) {
	if i < length-1 {
		return i + 1, true
	}
	return 0, false
}
