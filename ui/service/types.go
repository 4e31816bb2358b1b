package service

import (
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/liststate"
)

// Pagination is the paging state of a listing, ready for display.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	Pages      []liststate.PageItem
}

// NewPagination builds the pagination of a backend page.
func NewPagination(page, limit, total, totalPages int) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Pages:      liststate.Window(page, totalPages, liststate.DefaultMaxVisible),
	}
}

// Visible reports whether a pagination control should be shown.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

// HasPrev reports whether there is a previous page.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether there is a next page.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// From returns the 1-based index of the first item on the page, or 0 when
// the listing is empty.
func (p Pagination) From() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Page-1)*p.Limit + 1
}

// To returns the 1-based index of the last item on the page.
func (p Pagination) To() int {
	to := p.Page * p.Limit
	if to > p.Total {
		return p.Total
	}
	return to
}

// CatalogView is the catalog page.
type CatalogView struct {
	Sort     storefront.Sort
	Query    string
	Products []storefront.Product
	Pagination
}

// SearchView is the search results page.
type SearchView struct {
	Query    string
	Products []storefront.Product
	Pagination

	// EmptyQuery is set when no search term was given; the backend is
	// not called in that case.
	EmptyQuery bool
}

// HomeView is the home page.
type HomeView struct {
	Newest   []storefront.Product
	TopRated []storefront.Product
}

// Empty reports whether neither section has products.
func (v *HomeView) Empty() bool {
	return len(v.Newest) == 0 && len(v.TopRated) == 0
}

// StarFilter is one button of the review rating filter.
type StarFilter struct {
	// Stars is the rating, 0 for "all".
	Stars  int
	Active bool
}

// ReviewsView is the review section of a product page.
type ReviewsView struct {
	State liststate.State
	Stars int
	Items []storefront.Review
	Err   string
	Pagination
	Filters []StarFilter
}

// NewReviewsView builds the review section from a list snapshot.
func NewReviewsView(snap liststate.Snapshot[storefront.Review]) ReviewsView {
	page := snap.Page
	if page == 0 {
		page = snap.Query.Page
	}
	return ReviewsView{
		State:      snap.State,
		Stars:      snap.Query.Stars,
		Items:      snap.Items,
		Err:        snap.Err,
		Pagination: NewPagination(page, snap.Query.Limit, snap.Total, snap.TotalPages),
		Filters:    starFilters(snap.Query.Stars),
	}
}

// Loading reports whether a fetch is in flight.
func (v ReviewsView) Loading() bool {
	return v.State == liststate.StateLoading
}

// ProductView is the product detail page.
type ProductView struct {
	Product *storefront.Product
	Reviews ReviewsView
}

// ReviewForm is the state of the review form.
type ReviewForm struct {
	Input storefront.ReviewInput

	// Errors is nil when the form has not been rejected.
	Errors *storefront.ValidationError
}

// starFilters returns the "all" button followed by 5 down to 1 stars.
func starFilters(active int) []StarFilter {
	filters := []StarFilter{{Stars: 0, Active: active == 0}}
	for s := storefront.MaxStars; s >= storefront.MinStars; s-- {
		filters = append(filters, StarFilter{Stars: s, Active: active == s})
	}
	return filters
}
