package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookify/internal/catalog"
	"bookify/internal/checkout"
	"bookify/internal/config"
	apphttp "bookify/internal/http"
	"bookify/internal/httpx"
	"bookify/internal/logger"
	"bookify/internal/metrics"
	"bookify/internal/session"
	"bookify/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("development")
		fallback.Fatal().Err(err).Msg("cannot load configuration")
	}
	log := logger.New(cfg.Environment)

	reg := metrics.NewRegistry()

	kv, err := store.Open(cfg.Store.Backend, cfg.Store.SQLitePath, cfg.Store.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("cannot open session store")
	}
	defer kv.Close()

	sessions := session.NewManager(kv)
	checkoutSvc := checkout.NewService(sessions)

	catalogs := catalog.NewHolder()
	loader := catalog.NewLoader(cfg.CatalogSource, reg, log)

	// Load in the background so the server comes up immediately; readers
	// see the empty pre-load catalog until the single swap happens.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		c, report := loader.Load(ctx)
		catalogs.Set(c)
		if len(report.Skips) > 0 {
			log.Warn().Interface("skips", report.Skips).Msg("some catalog entries were skipped")
		}
	}()

	catalogHandler := apphttp.NewCatalogHandler(catalogs, sessions)
	ratingHandler := apphttp.NewRatingHandler(catalogs, sessions)
	sessionHandler := apphttp.NewSessionHandler(sessions, cfg.JWTSecret, cfg.TokenTTL)
	cartHandler := apphttp.NewCartHandler(catalogs, sessions, checkoutSvc)
	favoritesHandler := apphttp.NewFavoritesHandler(catalogs, sessions)

	public := apphttp.OptionalAuthMiddleware(cfg.JWTSecret)
	protected := apphttp.AuthMiddleware(cfg.JWTSecret)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if _, _, err := kv.Get(ctx, "readyz-probe"); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("/metrics", reg.Handler())

	router.Handle("/", public(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		catalogHandler.Home(w, r)
	})))

	router.Handle("/catalog/books", public(methodHandler(http.MethodGet, catalogHandler.List)))
	router.Handle("/catalog/books/", public(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/rating") {
			switch r.Method {
			case http.MethodPost:
				ratingHandler.Rate(w, r)
			case http.MethodGet:
				ratingHandler.GetRating(w, r)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			return
		}
		catalogHandler.GetByID(w, r)
	})))
	router.Handle("/catalog/genres", public(methodHandler(http.MethodGet, catalogHandler.Genres)))
	router.Handle("/catalog/genres/", public(methodHandler(http.MethodGet, catalogHandler.GenreBooks)))
	router.Handle("/catalog/search", public(methodHandler(http.MethodGet, catalogHandler.Search)))

	router.Handle("/session/login", methodHandler(http.MethodPost, sessionHandler.Login))
	router.Handle("/session/logout", protected(methodHandler(http.MethodPost, sessionHandler.Logout)))
	router.Handle("/session/me", protected(methodHandler(http.MethodGet, sessionHandler.Me)))

	router.Handle("/cart", protected(methodHandler(http.MethodGet, cartHandler.Get)))
	router.Handle("/cart/", protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/cart/items" && r.Method == http.MethodPost:
			cartHandler.AddItem(w, r)
		case strings.HasPrefix(r.URL.Path, "/cart/items/") && r.Method == http.MethodPatch:
			cartHandler.AdjustItem(w, r)
		case strings.HasPrefix(r.URL.Path, "/cart/items/") && r.Method == http.MethodDelete:
			cartHandler.RemoveItem(w, r)
		case r.URL.Path == "/cart/checkout" && r.Method == http.MethodPost:
			cartHandler.Checkout(w, r)
		default:
			http.NotFound(w, r)
		}
	})))

	router.Handle("/favorites", protected(methodHandler(http.MethodGet, favoritesHandler.List)))
	router.Handle("/favorites/", protected(methodHandler(http.MethodPost, favoritesHandler.Toggle)))

	rateLimit := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var handler http.Handler = router
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.CORSMiddleware(cfg.AllowedOrigins)(handler)
	handler = rateLimit.Middleware(handler)
	handler = httpx.RecoveryMiddleware(log)(handler)
	handler = httpx.AccessLogMiddleware(log, reg)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Str("catalog_source", cfg.CatalogSource).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}

func methodHandler(method string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	})
}
