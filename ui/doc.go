// Package ui assembles the storefront HTTP handler.
//
// It mounts two routers over one backend client:
//   - /api/*: the same-origin JSON proxy (see package api)
//   - everything else: the server-rendered pages (see package frontend)
//
// # Quick Start
//
//	cfg, err := storefront.LoadConfig("storefront.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sessions := session.NewManager(memory.New(), nil)
//
//	http.ListenAndServe(cfg.Addr, ui.Handler(cfg, sessions, nil))
//
// # Mounting Under a Prefix
//
// Set Config.BasePath so that links carry the prefix, and strip it before
// the handler:
//
//	cfg.BasePath = "/shop"
//	mux.Handle("/shop/", http.StripPrefix("/shop", ui.Handler(cfg, sessions, logger)))
//
// # Adding Middleware
//
// The handler is a plain http.Handler; wrap it externally:
//
//	handler := authMiddleware(loggingMiddleware(ui.Handler(cfg, sessions, logger)))
package ui
