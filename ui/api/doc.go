// Package api provides the same-origin proxy routes of the storefront.
//
// Every route forwards to the commerce backend after applying the listing
// defaults and validating its input. Backend replies are never cached.
//
// # Endpoints
//
// Products:
//   - GET /products - Catalog page, or search results when q is set
//   - GET /home - Newest and top rated products
//   - GET /products/{id} - Product detail
//
// Reviews:
//   - GET /products/{id}/reviews - Reviews, optionally filtered by stars
//   - POST /products/{id}/reviews - Submit a review
//
// Auth:
//   - POST /auth/login - Exchange credentials for a token
//   - POST /auth/register - Create an account
//
// # Errors
//
// Errors are JSON objects with an "error" field. An unset backend URL
// answers 500 on every route. A backend that cannot be reached answers 500
// with a "detail" field. Failed product and home reads keep the backend
// status and carry the backend text as "detail"; review and auth routes
// relay the backend status and body unchanged.
package api
