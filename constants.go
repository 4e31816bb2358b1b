package storefront

import "time"

// Listing limits shared by the proxy routes and the backend client.
const (
	// MinLimit and MaxLimit bound every limit query parameter.
	MinLimit = 1
	MaxLimit = 100

	// DefaultPage is used when the page parameter is missing or invalid.
	DefaultPage = 1

	// DefaultCatalogLimit is the catalog and search page size.
	DefaultCatalogLimit = 20

	// DefaultHomeLimit is the number of products per home section.
	DefaultHomeLimit = 10

	// DefaultReviewLimit is the proxy default for review listings.
	DefaultReviewLimit = 10

	// ReviewPageSize is the page size used by the product detail views.
	ReviewPageSize = 5

	// MinStars and MaxStars bound a review rating.
	MinStars = 1
	MaxStars = 5
)

// DefaultQuietPeriod is how long search input must be idle before it is
// committed to the URL.
const DefaultQuietPeriod = 400 * time.Millisecond

// ClampLimit bounds limit to [MinLimit, MaxLimit]. A zero limit means
// "not given" and is replaced by def.
func ClampLimit(limit, def int) int {
	if limit == 0 {
		limit = def
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampPage returns page, or DefaultPage when page is below 1.
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}
