package storefront

import (
	"strings"
	"time"
)

// Sort selects the ordering of the catalog listing.
type Sort string

const (
	// SortNewest orders products by creation time, newest first.
	SortNewest Sort = "newest"

	// SortTopRated orders products by average rating.
	SortTopRated Sort = "top-rated"
)

// Sorts returns all supported sort orders.
func Sorts() []Sort {
	return []Sort{SortNewest, SortTopRated}
}

// IsValid returns true if the sort is one the backend understands.
func (s Sort) IsValid() bool {
	switch s {
	case SortNewest, SortTopRated:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the sort.
func (s Sort) String() string {
	return string(s)
}

// ParseSort returns the sort for s, or SortNewest when s is empty or unknown.
func ParseSort(s string) Sort {
	sort := Sort(strings.TrimSpace(s))
	if sort.IsValid() {
		return sort
	}
	return SortNewest
}

// ProductImage is a single product picture.
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Price holds the price information computed by the backend.
// The storefront only displays these values.
type Price struct {
	Reseller *float64 `json:"reseller,omitempty"`
	UVP      float64  `json:"uvp"`
	Discount float64  `json:"discount"`
}

// Product is a catalog entry as returned by the commerce backend.
type Product struct {
	ID               string         `json:"_id"`
	Name             string         `json:"name"`
	Version          string         `json:"version"`
	Images           []ProductImage `json:"images"`
	ShortDescription string         `json:"shortDescription"`
	LongDescription  string         `json:"longDescription"`
	Price            Price          `json:"price"`
	InStock          bool           `json:"inStock"`
	AvgRating        float64        `json:"avgRating"`
	ReviewCount      int            `json:"reviewCount"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Review is a customer review of a product.
type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Stars     int       `json:"stars"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is one page of a paginated backend listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasPagination reports whether a pagination control should be shown.
func (p *Page[T]) HasPagination() bool {
	return p.TotalPages > 1
}

// HomeProducts is the payload of the home page listing.
type HomeProducts struct {
	Newest   []Product `json:"newest"`
	TopRated []Product `json:"topRated"`
}

// User is the account information returned on login or registration.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Birth string `json:"birth"`
}

// AuthResult is returned by the backend on successful login or registration.
// Token is opaque to the storefront.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
	Text  string `json:"text"`
}

// ReviewCreated is the backend response to a review submission.
type ReviewCreated struct {
	OK     bool    `json:"ok"`
	Review *Review `json:"review"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Birth    string `json:"birth"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
