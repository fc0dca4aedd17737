package common

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage applies the 1-indexed page and bounded limit defaults used by list endpoints.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Offset converts a 1-indexed page into a row offset.
func Offset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit), and 0 when limit is 0.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
