// Package http provides the HTTP delivery layer for the URL shortener.
// It contains the router, handlers and schema types used for processing
// incoming requests, validating input and formatting responses.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/encurtador/encurtador/internal/models"
)

// URLService defines the business logic consumed by the handlers.
type URLService interface {
	ShortenURL(ctx context.Context, originalURL string) (*models.URL, bool, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error)
	GetURLStats(ctx context.Context, shortCode string) (*models.URL, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes a Chi router configured with middleware and the
// URL shortener routes. baseURL, when set, prefixes short codes in responses.
func NewRouter(logger *httplog.Logger, urlSvc URLService, db Pinger, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Get("/health", handleHealth(db))

		r.Route("/shorten", func(r chi.Router) {
			r.With(middleware.AllowContentType("application/json")).
				Post("/", handleShortenURL(urlSvc, validate, baseURL))

			r.Get("/{shortCode}/stats", handleGetURLStats(urlSvc, baseURL))
		})
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc))

	return r
}
