package frontend

import (
	"net/url"
	"strconv"

	"github.com/youssefsiam38/storefront/liststate"
	"github.com/youssefsiam38/storefront/ui/service"
)

// pageLink is one numbered pagination button.
type pageLink struct {
	liststate.PageItem
	URL string
}

// pager is a rendered pagination control.
type pager struct {
	Visible bool
	Page    int
	Prev    string
	Next    string
	Links   []pageLink
}

// newPager lays out p with link targets built by pageURL.
func newPager(p service.Pagination, pageURL func(page int) string) pager {
	pg := pager{Visible: p.Visible(), Page: p.Page}
	if !pg.Visible {
		return pg
	}
	if p.HasPrev() {
		pg.Prev = pageURL(p.Page - 1)
	}
	if p.HasNext() {
		pg.Next = pageURL(p.Page + 1)
	}
	for _, item := range p.Pages {
		link := pageLink{PageItem: item}
		if !item.Ellipsis {
			link.URL = pageURL(item.Page)
		}
		pg.Links = append(pg.Links, link)
	}
	return pg
}

// withPage returns path?params with page set. Page 1 is left implicit.
func withPage(path string, params url.Values, page int) string {
	v := url.Values{}
	for k, vs := range params {
		v[k] = append([]string(nil), vs...)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	} else {
		v.Del("page")
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
