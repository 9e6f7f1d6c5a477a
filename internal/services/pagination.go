package services

const (
	// DefaultPerPage applies when the caller sends no usable page size
	DefaultPerPage = 10
	// MaxPerPage caps every page regardless of what the caller asked for
	MaxPerPage = 50
)

// Pagination is the metadata returned with a page of results
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
}

// NormalizePage clamps page to at least 1 and perPage into [1, MaxPerPage]
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func newPagination(page, perPage int, total int64) Pagination {
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   (total + int64(perPage) - 1) / int64(perPage),
	}
}
