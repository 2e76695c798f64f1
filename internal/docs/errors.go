package docs

import "errors"

// Sentinel errors for document discovery. They are wrapped in classified
// errors so callers can still match them with errors.Is.
var (
	// ErrDocsDirNotFound indicates the configured docs directory does not exist.
	ErrDocsDirNotFound = errors.New("documentation directory not found")

	// ErrDuplicateSlug indicates two documents resolve to the same slug.
	ErrDuplicateSlug = errors.New("duplicate document slug")

	// ErrInvalidFrontmatter indicates a document's frontmatter could not be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrInvalidCategoryFile indicates a _category_.yml file could not be parsed.
	ErrInvalidCategoryFile = errors.New("invalid category metadata")
)
