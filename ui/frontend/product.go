package frontend

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/liststate"
	"github.com/youssefsiam38/storefront/ui/service"
)

// filterLink is one button of the review rating filter.
type filterLink struct {
	service.StarFilter
	URL string
}

// productPage is the data of the product detail page.
type productPage struct {
	View        *service.ProductView
	Description template.HTML
	Filters     []filterLink
	Pager       pager
	Form        service.ReviewForm
	FormAction  string
}

// reviewQuery reads the review filter and page of product id from the URL.
// A star filter outside 1 to 5 is ignored.
func (rt *router) reviewQuery(r *http.Request, id string) liststate.Query {
	q := rt.svc.ReviewQuery(id)
	if stars := parseInt(r, "stars", 0); stars >= storefront.MinStars && stars <= storefront.MaxStars {
		q = q.WithStars(stars)
	}
	return q.WithPage(parseInt(r, "page", 1))
}

// reviewsURL links to the product page showing q. Filtering always starts
// on the first page; paging keeps the filter.
func (rt *router) reviewsURL(q liststate.Query) string {
	params := url.Values{}
	if q.Stars > 0 {
		params.Set("stars", strconv.Itoa(q.Stars))
	}
	return withPage(rt.url("/catalog/"+url.PathEscape(q.Resource)), params, q.Page) + "#reviews"
}

func (rt *router) handleProduct(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	id := strings.TrimSpace(r.PathValue("id"))
	rt.renderProduct(w, r, v, rt.reviewQuery(r, id), service.ReviewForm{}, http.StatusOK)
}

// renderProduct loads and renders the product page with form as the state
// of the review form.
func (rt *router) renderProduct(w http.ResponseWriter, r *http.Request, v *visitor, q liststate.Query, form service.ReviewForm, status int) {
	view, err := rt.svc.Product(r.Context(), q)
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			rt.handleNotFound(w, r)
			return
		}
		rt.fail(w, r, v, err)
		return
	}

	page := productPage{
		View:        view,
		Description: rt.markdown.render(view.Product.LongDescription),
		Form:        form,
		FormAction:  rt.url("/catalog/" + url.PathEscape(q.Resource) + "/reviews"),
	}
	for _, f := range view.Reviews.Filters {
		page.Filters = append(page.Filters, filterLink{
			StarFilter: f,
			URL:        rt.reviewsURL(q.WithStars(f.Stars)),
		})
	}
	page.Pager = newPager(view.Reviews.Pagination, func(p int) string {
		return rt.reviewsURL(q.WithStars(view.Reviews.Stars).WithPage(p))
	})

	if err := rt.renderer.render(w, r, status, "product.html", v.page(view.Product.Name, page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	v := rt.visitor(w, r)
	id := strings.TrimSpace(r.PathValue("id"))

	stars, _ := strconv.Atoi(r.PostFormValue("stars"))
	in := storefront.ReviewInput{
		Name:  r.PostFormValue("name"),
		Stars: stars,
		Text:  r.PostFormValue("text"),
	}

	_, err := rt.svc.SubmitReview(r.Context(), v.locale, id, in)
	if err == nil {
		http.Redirect(w, r, rt.reviewsURL(rt.svc.ReviewQuery(id)), http.StatusSeeOther)
		return
	}

	verr := formError(err, v.t.Review.SubmitError)
	rt.renderProduct(w, r, v, rt.svc.ReviewQuery(id), service.ReviewForm{Input: in, Errors: verr}, formStatus(err))
}
