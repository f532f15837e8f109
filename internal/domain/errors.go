package domain

import "errors"

var (
	// ErrNoEmbedding means the embedding provider answered without a vector.
	// Distinct from a transport or API failure.
	ErrNoEmbedding = errors.New("no embedding returned")

	// ErrEmptyDocument means a file produced no extractable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUnsupportedFile means the upload type is not txt or pdf.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
