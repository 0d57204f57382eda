package pagination

const (
	// DefaultPageSize is used when a caller does not ask for a page size.
	DefaultPageSize = 50
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 200
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes raw query values: pages start at 1 and sizes are clamped to [1, MaxPageSize].
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Limit is the number of rows to fetch.
func (p Page) Limit() int {
	return p.Size
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
