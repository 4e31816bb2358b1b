package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/liststate"
	"golang.org/x/sync/errgroup"
)

// Catalog returns a page of the catalog. A non-blank query turns the
// listing into a search.
func (s *Service) Catalog(ctx context.Context, p backend.ListParams) (*CatalogView, error) {
	p = p.Normalize(s.catalogLimit)

	page, err := s.client.ListProducts(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return &CatalogView{
		Sort:       p.Sort,
		Query:      p.Query,
		Products:   page.Items,
		Pagination: NewPagination(pageOr(page.Page, p.Page), p.Limit, page.Total, page.TotalPages),
	}, nil
}

// Search returns a page of search results for query.
func (s *Service) Search(ctx context.Context, query string, page int) (*SearchView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchView{EmptyQuery: true}, nil
	}

	p := backend.ListParams{Query: query, Page: page}.Normalize(s.catalogLimit)
	res, err := s.client.ListProducts(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &SearchView{
		Query:      query,
		Products:   res.Items,
		Pagination: NewPagination(pageOr(res.Page, p.Page), p.Limit, res.Total, res.TotalPages),
	}, nil
}

// Home returns the newest and top rated products.
func (s *Service) Home(ctx context.Context) (*HomeView, error) {
	home, err := s.client.Home(ctx, s.homeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load home: %w", err)
	}
	return &HomeView{Newest: home.Newest, TopRated: home.TopRated}, nil
}

// ReviewQuery returns the first unfiltered review page of product id.
func (s *Service) ReviewQuery(id string) liststate.Query {
	return liststate.Query{Resource: id, Page: 1, Limit: s.reviewLimit}
}

// FetchReviews loads one review page. It is a liststate.FetchFunc.
func (s *Service) FetchReviews(ctx context.Context, q liststate.Query) (liststate.Result[storefront.Review], error) {
	page, err := s.client.ListReviews(ctx, q.Resource, backend.ReviewParams{
		Stars: q.Stars,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		return liststate.Result[storefront.Review]{}, err
	}
	return liststate.Result[storefront.Review]{
		Items:      page.Items,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
	}, nil
}

// Product loads a product and one page of its reviews concurrently.
// A missing product yields ErrProductNotFound. A failed review fetch does
// not fail the page; the review section reports the error instead.
func (s *Service) Product(ctx context.Context, q liststate.Query) (*ProductView, error) {
	if q.Limit == 0 {
		q.Limit = s.reviewLimit
	}

	g, gctx := errgroup.WithContext(ctx)

	var product *storefront.Product
	g.Go(func() error {
		p, err := s.client.GetProduct(gctx, q.Resource)
		if err != nil {
			if errors.Is(err, storefront.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}
		product = p
		return nil
	})

	reviews := liststate.New[storefront.Review](gctx, q)
	defer reviews.Close()
	g.Go(func() error {
		if !liststate.Load(reviews, reviews.Reload(), s.FetchReviews) {
			return nil
		}
		if snap := reviews.Snapshot(); snap.State == liststate.StateErrored && s.logger != nil {
			s.logger.Warn("failed to load reviews", "product", q.Resource, "error", snap.Err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProductView{
		Product: product,
		Reviews: NewReviewsView(reviews.Snapshot()),
	}, nil
}

func pageOr(page, def int) int {
	if page > 0 {
		return page
	}
	return def
}
