package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/liststate"
)

// openProduct shows product id with the first page of all its reviews.
func (m *Model) openProduct(id string) tea.Cmd {
	m.screen = screenProduct
	req := m.reviews.SetResource(id)
	return tea.Batch(m.loadProduct(id), m.loadReviews(req), m.spinner.Tick)
}

func (m Model) updateProduct(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.reviews.Close()
		m.screen = screenCatalog
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		stars, _ := strconv.Atoi(msg.String())
		return m, m.loadReviews(m.reviews.SetFilter(stars))

	case key.Matches(msg, m.keys.PrevPage):
		if snap := m.reviews.Snapshot(); snap.Query.Page > 1 {
			return m, m.loadReviews(m.reviews.SetPage(snap.Query.Page - 1))
		}

	case key.Matches(msg, m.keys.NextPage):
		if snap := m.reviews.Snapshot(); snap.Query.Page < snap.TotalPages {
			return m, m.loadReviews(m.reviews.SetPage(snap.Query.Page + 1))
		}

	case key.Matches(msg, m.keys.Locale):
		m.cycleLocale()
	}
	return m, nil
}

func (m Model) productView() string {
	var b strings.Builder

	switch {
	case m.productErr != nil:
		if errors.Is(m.productErr, storefront.ErrNotFound) {
			b.WriteString(m.styles.Title.Render(m.t.NotFound.Title))
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render(m.t.NotFound.Description))
		} else {
			b.WriteString(m.styles.Error.Render(m.productErr.Error()))
		}
		return b.String()
	case m.product == nil:
		return m.spinner.View()
	}

	p := m.product
	b.WriteString(m.styles.Title.Render(p.Name))
	b.WriteString("\n")
	if p.ShortDescription != "" {
		b.WriteString(p.ShortDescription + "\n")
	}
	b.WriteString(m.priceView(p.Price) + "  ")
	if p.InStock {
		b.WriteString(m.styles.InStock.Render(m.t.Product.InStock))
	} else {
		b.WriteString(m.styles.Error.Render(m.t.Product.OutOfStock))
	}
	b.WriteString("  " + m.styles.Stars.Render(fmt.Sprintf("★ %.1f (%d)", p.AvgRating, p.ReviewCount)))
	b.WriteString("\n\n")

	b.WriteString(m.reviewsView(m.reviews.Snapshot()))
	return b.String()
}

func (m Model) reviewsView(snap liststate.Snapshot[storefront.Review]) string {
	var b strings.Builder

	b.WriteString(m.styles.Brand.Render(m.t.Review.Reviews))
	b.WriteString("  ")
	for stars := 0; stars <= storefront.MaxStars; stars++ {
		label := m.t.Review.All
		if stars > 0 {
			label = strconv.Itoa(stars) + "★"
		}
		if stars == snap.Query.Stars {
			label = m.styles.Active.Render(label)
		}
		b.WriteString(label + " ")
	}
	b.WriteString("\n\n")

	switch snap.State {
	case liststate.StateLoading:
		b.WriteString(m.spinner.View() + " " + m.t.Review.Loading)
		return b.String()
	case liststate.StateErrored:
		b.WriteString(m.styles.Error.Render(snap.Err))
		return b.String()
	}

	if len(snap.Items) == 0 {
		msg := m.t.Review.NoReviews
		if snap.Filtered() {
			msg = m.t.Review.NoReviewsWithFilter
		}
		b.WriteString(m.styles.Muted.Render(msg))
		return b.String()
	}

	for _, r := range snap.Items {
		head := m.styles.Brand.Render(r.Name) + " " +
			m.styles.Stars.Render(strings.Repeat("★", r.Stars)+strings.Repeat("☆", storefront.MaxStars-r.Stars))
		b.WriteString(m.styles.Box.Render(head+"\n"+r.Text) + "\n")
	}
	if snap.TotalPages > 1 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s %d %s %d", m.t.Review.Page, snap.Query.Page, m.t.Catalog.Of, snap.TotalPages)))
	}
	return b.String()
}
