package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/i18n"
	"github.com/youssefsiam38/storefront/session"
)

// renderer handles template rendering.
type renderer struct {
	baseTemplate *template.Template // Base template with layout and shared fragments
	templatesFS  fs.FS              // Embedded filesystem for page templates
	config       *Config
}

// newRenderer creates a new renderer.
func newRenderer(baseTemplate *template.Template, templatesFS fs.FS, cfg *Config) *renderer {
	return &renderer{
		baseTemplate: baseTemplate,
		templatesFS:  templatesFS,
		config:       cfg,
	}
}

// PageData contains common data for all pages.
type PageData struct {
	Title       string
	BasePath    string
	CurrentPath string
	CurrentURL  string // Path and query, used as the return target of forms
	Locale      i18n.Locale
	Locales     []i18n.LocaleInfo
	T           *i18n.Messages
	Session     *session.Session
	QuietMillis int // Search debounce window in milliseconds
	Data        any
}

// render renders a page template inside the layout.
// It clones the base template and parses the page-specific template into it,
// avoiding conflicts between "content" blocks in different pages.
func (r *renderer) render(w http.ResponseWriter, req *http.Request, status int, name string, page PageData) error {
	r.fill(req, &page)

	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}

	pageTemplatePath := "templates/" + name
	if _, err := tmpl.ParseFS(r.templatesFS, pageTemplatePath); err != nil {
		return fmt.Errorf("parse page template %s: %w", pageTemplatePath, err)
	}

	return write(w, status, tmpl, "base", page)
}

// renderFragment renders a shared fragment without the layout. Fragment
// templates define their template name as the file path (e.g.
// "fragments/catalog-results.html").
func (r *renderer) renderFragment(w http.ResponseWriter, req *http.Request, name string, page PageData) error {
	r.fill(req, &page)

	tmpl, err := r.baseTemplate.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}
	return write(w, http.StatusOK, tmpl, name, page)
}

func (r *renderer) fill(req *http.Request, page *PageData) {
	page.BasePath = r.config.BasePath
	page.CurrentPath = req.URL.Path
	page.CurrentURL = r.config.BasePath + req.URL.RequestURI()
	page.Locales = i18n.Locales()
	page.QuietMillis = int(r.config.QuietPeriod / time.Millisecond)
}

// write executes the template into a buffer before the status is sent.
func write(w http.ResponseWriter, status int, tmpl *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Template helper functions

// finalPrice is the price shown to the customer: the list price minus the
// backend's discount, never below zero.
func finalPrice(p storefront.Price) float64 {
	return math.Max(p.UVP-p.Discount, 0)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

func discountPercent(p storefront.Price) int {
	if p.UVP <= 0 || p.Discount <= 0 {
		return 0
	}
	return int(math.Round(p.Discount / p.UVP * 100))
}

func formatRating(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// round rounds an average rating to whole stars.
func round(v float64) int {
	return int(math.Round(v))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// starIcons renders a rating as five filled or empty stars.
func starIcons(n int) string {
	if n < 0 {
		n = 0
	}
	if n > storefront.MaxStars {
		n = storefront.MaxStars
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", storefront.MaxStars-n)
}

func firstImage(p storefront.Product) *storefront.ProductImage {
	if len(p.Images) == 0 || p.Images[0].URL == "" {
		return nil
	}
	return &p.Images[0]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func seq(start, end int) []int {
	if start > end {
		return nil
	}
	result := make([]int, end-start+1)
	for i := range result {
		result[i] = start + i
	}
	return result
}

func add(a, b int) int {
	return a + b
}

func defaultVal(val, def any) any {
	if val == nil {
		return def
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return def
		}
	case int:
		if v == 0 {
			return def
		}
	}
	return val
}
