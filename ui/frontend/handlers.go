package frontend

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/searchsync"
	"github.com/youssefsiam38/storefront/ui/service"
)

// parseInt parses an integer from a query parameter with a default.
func parseInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// logError logs an error if the logger is configured.
// It's used for failures that shouldn't break the page.
func (rt *router) logError(msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Warn(msg, "error", err.Error())
	}
}

// url prefixes path with the base path.
func (rt *router) url(path string) string {
	return rt.config.BasePath + path
}

// fail renders a page-level failure. A missing backend URL is a server
// problem; everything else is the backend's.
func (rt *router) fail(w http.ResponseWriter, r *http.Request, v *visitor, err error) {
	rt.logError("page load failed", err)
	status := http.StatusBadGateway
	if errors.Is(err, storefront.ErrBackendNotConfigured) {
		status = http.StatusInternalServerError
	}
	data := errorPage{Message: err.Error()}
	if err := rt.renderer.render(w, r, status, "error.html", v.page(v.t.Header.BrandLabel, data)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type errorPage struct {
	Message string
}

// Main page handlers

func (rt *router) handleRedirectToHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rt.url("/home"), http.StatusTemporaryRedirect)
}

func (rt *router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	if err := rt.renderer.render(w, r, http.StatusNotFound, "not-found.html", v.page(v.t.NotFound.Title, nil)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleHome(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)

	home, err := rt.svc.Home(r.Context())
	if err != nil {
		rt.fail(w, r, v, err)
		return
	}

	if err := rt.renderer.render(w, r, http.StatusOK, "home.html", v.page(v.t.Home.PageTitle, home)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// sortLink is one option of the catalog sort selector.
type sortLink struct {
	Sort   storefront.Sort
	URL    string
	Active bool
}

// catalogPage is the data of the catalog page.
type catalogPage struct {
	View  *service.CatalogView
	Pager pager
	Sorts []sortLink

	// Search form state: the current term, sort and page are echoed back
	// so a committed search can keep them.
	Query string
	Sort  string
	Page  int
}

func (rt *router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query()

	// The search input submits with search=1. Its term is committed the
	// same way the debounced input commits it: trimmed, page kept unless it
	// is the first, and an empty term restoring the sorted listing.
	if current.Has("search") {
		intent := searchsync.CommitIntent(current.Get(searchsync.ParamQuery), current, searchsync.DefaultSort)
		target := intent.URL(rt.url("/catalog"))
		if r.Header.Get("HX-Request") != "true" {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		w.Header().Set("HX-Push-Url", target)
		current = intent.Values()
	}

	v := rt.visitor(w, r)
	params := backend.ListParams{
		Sort:  storefront.ParseSort(current.Get(searchsync.ParamSort)),
		Page:  searchsync.PageFrom(current),
		Query: current.Get(searchsync.ParamQuery),
	}

	view, err := rt.svc.Catalog(r.Context(), params)
	if err != nil {
		rt.fail(w, r, v, err)
		return
	}

	page := catalogPage{
		View:  view,
		Query: view.Query,
		Sort:  view.Sort.String(),
		Page:  view.Page,
	}

	// Page links carry either the search term or the sort, never both.
	linkParams := url.Values{}
	if view.Query != "" {
		linkParams.Set(searchsync.ParamQuery, view.Query)
	} else {
		linkParams.Set(searchsync.ParamSort, view.Sort.String())
	}
	page.Pager = newPager(view.Pagination, func(p int) string {
		return withPage(rt.url("/catalog"), linkParams, p)
	})
	for _, s := range storefront.Sorts() {
		page.Sorts = append(page.Sorts, sortLink{
			Sort:   s,
			URL:    rt.url("/catalog?sort=" + url.QueryEscape(s.String())),
			Active: view.Query == "" && s == view.Sort,
		})
	}

	data := v.page(v.t.Catalog.Title, page)
	if r.Header.Get("HX-Request") == "true" {
		if err := rt.renderer.renderFragment(w, r, "fragments/catalog-results.html", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	if err := rt.renderer.render(w, r, http.StatusOK, "catalog.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// searchPage is the data of the search results page.
type searchPage struct {
	View  *service.SearchView
	Pager pager
}

func (rt *router) handleSearch(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	query := strings.TrimSpace(r.URL.Query().Get(searchsync.ParamQuery))

	view, err := rt.svc.Search(r.Context(), query, parseInt(r, "page", 1))
	if err != nil {
		rt.fail(w, r, v, err)
		return
	}

	page := searchPage{View: view}
	page.Pager = newPager(view.Pagination, func(p int) string {
		return withPage(rt.url("/search"), url.Values{searchsync.ParamQuery: {query}}, p)
	})

	if err := rt.renderer.render(w, r, http.StatusOK, "search.html", v.page(v.t.Search.ResultsTitle, page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
