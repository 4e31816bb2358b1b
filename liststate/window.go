package liststate

// DefaultMaxVisible is the number of numbered page buttons shown.
const DefaultMaxVisible = 5

// PageItem is one element of a pagination control.
type PageItem struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Window lays out the numbered part of a pagination control: up to
// maxVisible pages centred on page, plus the first and last page with
// ellipses where pages are skipped. It returns nil when there is at most
// one page.
func Window(page, totalPages, maxVisible int) []PageItem {
	if totalPages <= 1 {
		return nil
	}
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisible
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := max(1, page-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)
	if end-start < maxVisible-1 {
		start = max(1, end-maxVisible+1)
	}

	var items []PageItem
	if start > 1 {
		items = append(items, PageItem{Page: 1})
		if start > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		items = append(items, PageItem{Page: p, Current: p == page})
	}
	if end < totalPages {
		if end < totalPages-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Page: totalPages})
	}
	return items
}
