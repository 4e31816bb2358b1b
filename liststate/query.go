package liststate

import (
	"net/url"
	"strconv"
)

// Query identifies one page of a listing.
type Query struct {
	// Resource is the identity of the listed resource, e.g. a product ID.
	Resource string

	// Stars filters by rating; 0 means all ratings.
	Stars int

	// Page is 1-based.
	Page int

	// Limit is the page size.
	Limit int
}

// WithStars returns q filtered by stars, back on the first page.
func (q Query) WithStars(stars int) Query {
	q.Stars = stars
	q.Page = 1
	return q
}

// WithPage returns q moved to page, keeping the filter.
func (q Query) WithPage(page int) Query {
	if page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

// WithResource returns the first unfiltered page of another resource.
func (q Query) WithResource(resource string) Query {
	q.Resource = resource
	q.Stars = 0
	q.Page = 1
	return q
}

// Values encodes the query as backend query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Stars > 0 {
		v.Set("stars", strconv.Itoa(q.Stars))
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
