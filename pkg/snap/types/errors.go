package types

import "errors"

// Operation error taxonomy. Whole-operation preconditions surface as one of
// these sentinels (wrapped with context); per-entry failures never do — they
// are recovered locally and reported through Result.Warnings.
var (
	// ErrNotFound indicates a missing archive or folder path.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotDirectory indicates a walk target that is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrInvalidSource indicates a pack/stats input that is missing or
	// not a directory.
	ErrInvalidSource = errors.New("source is missing or not a directory")

	// ErrInvalidFormat indicates an archive that fails both the JSON
	// parse and the legacy sentinel extraction, or one structurally
	// missing metadata or entries.
	ErrInvalidFormat = errors.New("archive format not recognized")

	// ErrIOFailure indicates a whole-operation read/write fault, such as
	// an unwritable archive path.
	ErrIOFailure = errors.New("i/o failure")
)
