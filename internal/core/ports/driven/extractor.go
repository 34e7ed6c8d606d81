package driven

import "context"

// TextExtractor converts source files into plain text, dispatched by file
// extension. Unsupported extensions fail with domain.ErrUnsupportedType;
// extraction internals (PDF parsing and the like) live behind this port.
type TextExtractor interface {
	// Extract returns the plain text content of the file at path.
	Extract(ctx context.Context, path string) (string, error)

	// SupportedExtensions lists the extensions (with dot) this extractor
	// handles.
	SupportedExtensions() []string
}
