package searchsync

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names owned by the synchronizer.
const (
	ParamQuery = "q"
	ParamSort  = "sort"
	ParamPage  = "page"
)

// DefaultSort is the sort restored when a search is cleared.
const DefaultSort = "newest"

// Intent is the parameter set of the next navigation. Zero values are
// omitted from the URL.
type Intent struct {
	Query string
	Sort  string
	Page  int
}

// Values serializes the intent into query parameters.
func (i Intent) Values() url.Values {
	v := url.Values{}
	if i.Query != "" {
		v.Set(ParamQuery, i.Query)
	}
	if i.Sort != "" {
		v.Set(ParamSort, i.Sort)
	}
	if i.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(i.Page))
	}
	return v
}

// URL returns path with the intent's query string appended.
func (i Intent) URL(path string) string {
	encoded := i.Values().Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// QueryFrom reads the search term from URL parameters.
func QueryFrom(current url.Values) string {
	return current.Get(ParamQuery)
}

// PageFrom reads the page from URL parameters. Missing or malformed pages
// read as 1.
func PageFrom(current url.Values) int {
	page, err := strconv.Atoi(current.Get(ParamPage))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// CommitIntent computes the navigation for committing term against the
// current URL parameters.
//
// A non-empty term becomes the query; the current page is kept unless it
// is the first page, and sort is dropped. An empty (or whitespace) term
// reverts to the sorted listing: the current sort, or defaultSort, with no
// page.
func CommitIntent(term string, current url.Values, defaultSort string) Intent {
	term = strings.TrimSpace(term)
	if term != "" {
		intent := Intent{Query: term}
		if page := PageFrom(current); page != 1 {
			intent.Page = page
		}
		return intent
	}

	sort := current.Get(ParamSort)
	if sort == "" {
		sort = defaultSort
	}
	return Intent{Sort: sort}
}
