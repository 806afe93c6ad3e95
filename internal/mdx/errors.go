package mdx

import "errors"

// Sentinel errors for element rendering.
var (
	// ErrUnknownElement indicates an element tag outside the supported kinds.
	ErrUnknownElement = errors.New("unknown element kind")

	// ErrHighlight indicates the highlighter could not tokenise or format code.
	ErrHighlight = errors.New("syntax highlighting failed")

	// ErrTableBlock indicates a table block whose body is not a valid table.
	ErrTableBlock = errors.New("invalid table block")
)
