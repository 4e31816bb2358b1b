package tui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/liststate"
	"github.com/youssefsiam38/storefront/searchsync"
	"github.com/youssefsiam38/storefront/session"
	"github.com/youssefsiam38/storefront/ui/service"
)

// navigateMsg is a navigation committed by the search synchronizer.
type navigateMsg struct {
	target string
}

// catalogMsg is the outcome of catalog load seq.
type catalogMsg struct {
	seq  int
	view *service.CatalogView
	err  error
}

type productMsg struct {
	id      string
	product *storefront.Product
	err     error
}

// reviewsMsg reports that a review load finished. The outcome lives in the
// list; applied is false for a superseded request.
type reviewsMsg struct {
	applied bool
}

// loginMsg is the outcome of a sign-in. The user itself arrives as an
// authMsg once the session is stored.
type loginMsg struct {
	err error
}

// authMsg is a sign-in or sign-out of this terminal's session.
type authMsg struct {
	event session.Event
}

func waitForAuth(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return authMsg{event: e}
	}
}

func waitForNav(navs <-chan string) tea.Cmd {
	return func() tea.Msg {
		target, ok := <-navs
		if !ok {
			return nil
		}
		return navigateMsg{target: target}
	}
}

// navigate moves the catalog to the given URL parameters, as if the URL
// changed outside the search input.
func (m *Model) navigate(values url.Values) tea.Cmd {
	m.current = values
	m.search.OnExternalURLChange(values)
	if s := m.search.Snapshot(); !s.Dirty {
		m.input.SetValue(s.RawInput)
		m.input.CursorEnd()
	}
	m.cursor = 0
	return m.loadCatalog()
}

// loadCatalog fetches the catalog for the current parameters. Only the
// latest load is applied.
func (m *Model) loadCatalog() tea.Cmd {
	m.catalogSeq++
	m.loading = true
	return m.fetchCatalog(m.catalogSeq)
}

// fetchCatalog fetches the catalog for the current parameters as load seq.
func (m Model) fetchCatalog(seq int) tea.Cmd {
	params := backend.ListParams{
		Sort:  storefront.ParseSort(m.current.Get(searchsync.ParamSort)),
		Page:  searchsync.PageFrom(m.current),
		Query: searchsync.QueryFrom(m.current),
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		view, err := svc.Catalog(ctx, params)
		return catalogMsg{seq: seq, view: view, err: err}
	}
}

func (m *Model) loadProduct(id string) tea.Cmd {
	m.productID = id
	m.product = nil
	m.productErr = nil

	client, ctx := m.svc.Client(), m.ctx
	return func() tea.Msg {
		p, err := client.GetProduct(ctx, id)
		return productMsg{id: id, product: p, err: err}
	}
}

// loadReviews runs req against the review list.
func (m *Model) loadReviews(req liststate.Request) tea.Cmd {
	list, fetch := m.reviews, m.svc.FetchReviews
	return func() tea.Msg {
		return reviewsMsg{applied: liststate.Load(list, req, fetch)}
	}
}
