// Package tui is a terminal storefront browser built on Bubble Tea.
//
// It drives the same service layer as the web frontend. The catalog search
// input is debounced by a searchsync.Synchronizer whose navigations are fed
// back into the model as messages; the review section of a product is a
// liststate.List, so only the latest filter or page request is shown.
//
// Keys:
//
//	/        focus the search input (enter commits, esc leaves)
//	↑/↓ j/k  move the cursor
//	enter    open the selected product
//	←/→ h/l  previous or next page
//	s        toggle the catalog sort
//	0-5      filter reviews by rating (0 shows all)
//	esc      back to the catalog
//	L        switch language
//	a / o    sign in / sign out
//	q        quit
package tui
