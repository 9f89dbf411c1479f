package docpipe

import "errors"

var (
	// ErrInvalidFilename is returned when the declared filename is empty.
	ErrInvalidFilename = errors.New("docpipe: invalid filename")

	// ErrUnsupportedFormat is returned for extensions outside the supported set.
	ErrUnsupportedFormat = errors.New("docpipe: unsupported format")

	// ErrEmptyExtraction is returned when a decoder ran but produced only
	// whitespace. Never silently treated as success.
	ErrEmptyExtraction = errors.New("docpipe: empty extraction result")

	// ErrTooLarge is returned when the input exceeds the configured size limit.
	ErrTooLarge = errors.New("docpipe: file too large")
)
