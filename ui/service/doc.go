// Package service provides the storefront logic shared by the SSR frontend
// and the terminal browser.
//
// The service layer is HTTP-agnostic. It validates form input with the
// same rules the browser applies, calls the commerce backend through
// backend.Client, maps backend failures to localized form errors and
// builds the view models the pages render.
//
// # Usage
//
//	svc := service.New(backend.New(cfg.BackendURL), i18n.NewBundle())
//
//	view, err := svc.Catalog(ctx, backend.ListParams{Sort: storefront.SortTopRated, Page: 2})
//
//	res, err := svc.Login(ctx, i18n.English, storefront.LoginInput{
//	    Email:    "ann@example.com",
//	    Password: "secret",
//	})
//	var verr *storefront.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Field("email"), verr.General
//	}
package service
