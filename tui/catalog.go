package tui

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/searchsync"
)

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		return m.updateSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.catalog != nil && m.cursor < len(m.catalog.Products)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Open):
		if m.catalog == nil || len(m.catalog.Products) == 0 {
			return m, nil
		}
		cmd := m.openProduct(m.catalog.Products[m.cursor].ID)
		return m, cmd

	case key.Matches(msg, m.keys.PrevPage):
		if m.catalog != nil && m.catalog.HasPrev() {
			cmd := m.navigate(m.withPage(m.catalog.Page - 1))
			return m, cmd
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.catalog != nil && m.catalog.HasNext() {
			cmd := m.navigate(m.withPage(m.catalog.Page + 1))
			return m, cmd
		}

	case key.Matches(msg, m.keys.Sort):
		// Sorting applies to the plain listing and leaves a search.
		next := storefront.SortTopRated
		if storefront.ParseSort(m.current.Get(searchsync.ParamSort)) == storefront.SortTopRated {
			next = storefront.SortNewest
		}
		cmd := m.navigate(url.Values{searchsync.ParamSort: {next.String()}})
		return m, cmd

	case key.Matches(msg, m.keys.Locale):
		m.cycleLocale()
		cmd := m.loadCatalog()
		return m, cmd

	case key.Matches(msg, m.keys.Login):
		if m.user == nil {
			m.screen = screenLogin
			cmd := m.login.focus(0)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Logout):
		if m.user != nil {
			if err := m.sessions.Clear(m.ctx, m.sessionID); err != nil {
				m.logWarn("failed to clear session", err)
				m.status = err.Error()
			}
		}
	}
	return m, nil
}

// updateSearchInput feeds keystrokes to the input and the synchronizer.
func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.OnSubmit()
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.search.OnUserInput(v)
	}
	return m, cmd
}

// withPage returns the current parameters moved to page.
func (m Model) withPage(page int) url.Values {
	v := url.Values{}
	for k, vs := range m.current {
		v[k] = append([]string(nil), vs...)
	}
	if page > 1 {
		v.Set(searchsync.ParamPage, strconv.Itoa(page))
	} else {
		v.Del(searchsync.ParamPage)
	}
	return v
}

func (m Model) catalogView() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.t.Catalog.Title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.catalog != nil && m.catalog.Query == "" {
		sortLine := m.t.Catalog.SortLabel + ": "
		for i, s := range storefront.Sorts() {
			if i > 0 {
				sortLine += " · "
			}
			label := m.t.Catalog.Newest
			if s == storefront.SortTopRated {
				label = m.t.Catalog.TopRated
			}
			if s == m.catalog.Sort {
				label = m.styles.Active.Render(label)
			}
			sortLine += label
		}
		b.WriteString(m.styles.Muted.Render(sortLine))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && m.catalog == nil:
		b.WriteString(m.spinner.View() + " " + m.t.Search.Searching)
		return b.String()
	case m.catalogErr != nil:
		b.WriteString(m.styles.Error.Render(m.catalogErr.Error()))
		return b.String()
	case m.catalog == nil || len(m.catalog.Products) == 0:
		b.WriteString(m.styles.Muted.Render(m.t.Catalog.NoProducts))
		return b.String()
	}

	for i, p := range m.catalog.Products {
		cursor := "  "
		name := p.Name
		if i == m.cursor {
			cursor = "› "
			name = m.styles.Selected.Render(name)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n",
			cursor,
			name,
			m.priceView(p.Price),
			m.styles.Stars.Render(fmt.Sprintf("★ %.1f", p.AvgRating)),
		)
	}

	if m.catalog.Visible() {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s %d %s %d · %d–%d %s %d",
			m.t.Catalog.Page, m.catalog.Page, m.t.Catalog.Of, m.catalog.TotalPages,
			m.catalog.From(), m.catalog.To(), m.t.Catalog.Of, m.catalog.Total)))
	}
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	return b.String()
}

func (m Model) priceView(p storefront.Price) string {
	final := math.Max(p.UVP-p.Discount, 0)
	out := m.styles.Price.Render(fmt.Sprintf("€%.2f", final))
	if p.Discount > 0 {
		out += " " + m.styles.Strike.Render(fmt.Sprintf("€%.2f", p.UVP))
	}
	return out
}
