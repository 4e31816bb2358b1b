// Package storefront is a server-rendered e-commerce storefront that fronts
// an external commerce backend.
//
// The storefront owns no business data. Products, reviews, ratings and
// accounts live in the backend; this module renders them, validates form
// input, forwards requests through a small same-origin proxy API, and keeps
// per-visitor session state (an opaque auth token, the user, the locale).
//
// # Packages
//
//   - backend: HTTP client for the commerce backend
//   - ui/api: same-origin proxy routes mounted under /api
//   - ui/frontend: server-rendered pages (HTMX + Tailwind)
//   - ui/service: form validation and view models shared by both UIs
//   - searchsync: debounced search input to URL synchronization
//   - liststate: paginated, filterable list state with last-request-wins
//   - session: session state with auth-change notifications
//   - driver: session storage drivers (memory, file, pgx/v5, database/sql)
//   - i18n: typed message catalogs for de, en and fr
//   - maintenance: idle session cleanup
//   - leadership: lease-based election of the replica that runs cleanup
//   - tui: terminal storefront browser
//
// The storefront binary lives in cmd/storefront (serve, browse, version).
//
// # Quick Start
//
//	cfg, _ := storefront.LoadConfig("storefront.toml")
//	store := memory.New()
//	sessions := session.NewManager(store, nil)
//
//	handler := ui.Handler(cfg, sessions, nil)
//	http.ListenAndServe(cfg.Addr, handler)
package storefront
