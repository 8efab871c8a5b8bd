package search

// Page is one slice of a larger result list.
type Page[T any] struct {
	Data     []T  `json:"data"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// Paginate returns the 1-based page of items. Out of range pages yield an
// empty Data slice; non-positive arguments are raised to 1.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	start := len(items)
	if page-1 < len(items)/pageSize+1 {
		start = min((page-1)*pageSize, len(items))
	}
	end := start + min(pageSize, len(items)-start)

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Page[T]{
		Data:     data,
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(items),
	}
}
