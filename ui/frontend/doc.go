// Package frontend provides the server-rendered storefront pages.
//
// The frontend uses HTMX for the debounced catalog search and Tailwind CSS
// for styling, both loaded via CDN. Every page works without JavaScript;
// HTMX only swaps the catalog results in place.
//
// # Routes
//
// Pages:
//   - GET / - Redirect to home
//   - GET /home - Newest and top rated products
//   - GET /catalog - Catalog listing (?sort, ?page) or search (?q, ?page)
//   - GET /catalog/{id} - Product detail with reviews (?stars, ?page)
//   - GET /search - Search results (?q, ?page)
//
// Forms:
//   - POST /catalog/{id}/reviews - Submit a review
//   - GET|POST /auth/login - Sign in
//   - GET|POST /auth/register - Create an account
//   - POST /auth/logout - Sign out
//   - POST /locale - Switch the display language
//
// The catalog search input submits with search=1. A full page request is
// redirected to the committed URL; an HTMX request gets the results
// fragment and an HX-Push-Url header instead.
//
// Static Assets:
//   - GET /static/* - Embedded static files (JS, CSS)
package frontend
