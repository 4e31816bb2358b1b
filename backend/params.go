package backend

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/youssefsiam38/storefront"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order and encodes spaces as %20.
type Params []Param

// Add appends a parameter.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// AddInt appends an integer parameter.
func (p Params) AddInt(key string, value int) Params {
	return p.Add(key, strconv.Itoa(value))
}

// Encode renders the parameters as a query string without the leading "?".
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(kv.Key))
		b.WriteByte('=')
		b.WriteString(escape(kv.Value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ListParams selects a page of the catalog or of search results.
type ListParams struct {
	Sort  storefront.Sort
	Page  int
	Limit int

	// Query selects the search endpoint when non-blank.
	Query string
}

// Normalize applies the listing defaults: sort newest, page at least 1,
// limit clamped to [1, 100] with def when unset, query trimmed.
func (p ListParams) Normalize(def int) ListParams {
	p.Sort = storefront.ParseSort(string(p.Sort))
	p.Page = storefront.ClampPage(p.Page)
	p.Limit = storefront.ClampLimit(p.Limit, def)
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// IsSearch reports whether the params select the search endpoint.
func (p ListParams) IsSearch() bool {
	return strings.TrimSpace(p.Query) != ""
}

// Path returns the backend path and query for already-normalized params.
func (p ListParams) Path() (string, Params) {
	if p.IsSearch() {
		return "/products/search", Params{}.
			Add("q", p.Query).
			AddInt("page", p.Page).
			AddInt("limit", p.Limit)
	}
	return "/products", Params{}.
		Add("sort", p.Sort.String()).
		AddInt("page", p.Page).
		AddInt("limit", p.Limit)
}

// ReviewParams selects a page of a product's reviews.
type ReviewParams struct {
	// Stars filters by rating; 0 means all.
	Stars int
	Page  int
	Limit int
}

// Normalize applies the review listing defaults.
func (p ReviewParams) Normalize(def int) ReviewParams {
	p.Page = storefront.ClampPage(p.Page)
	p.Limit = storefront.ClampLimit(p.Limit, def)
	return p
}

// Validate rejects a star filter outside 1 to 5.
func (p ReviewParams) Validate() error {
	if p.Stars != 0 && (p.Stars < storefront.MinStars || p.Stars > storefront.MaxStars) {
		return ErrStarsOutOfRange
	}
	return nil
}

// Params returns the query for already-normalized params.
func (p ReviewParams) Params() Params {
	var q Params
	if p.Stars != 0 {
		q = q.AddInt("stars", p.Stars)
	}
	return q.AddInt("page", p.Page).AddInt("limit", p.Limit)
}
