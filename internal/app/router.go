package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/Renal37/go-orderflow/internal/logger"
	"github.com/Renal37/go-orderflow/internal/middlewares"
	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const DefaultPageSize = 3

type Config struct {
	// Endpoint is the address the server listens on.
	Endpoint string
	// PageSize is the limit used by list endpoints when the request has none.
	PageSize int
}

type Router struct {
	config         Config
	productService models.ProductService
	orderService   models.OrderService
}

func New(
	config Config,
	productService models.ProductService,
	orderService models.OrderService,
) *Router {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}

	return &Router{
		config:         config,
		productService: productService,
		orderService:   orderService,
	}
}

func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		logger.RequestLogger,
		middlewares.PrometheusMiddleware,
		middleware.Recoverer,
		middleware.StripSlashes,
		middlewares.ServiceInjectorMiddleware(
			router.productService,
			router.orderService,
		),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", GetProducts(router.config.PageSize))
			r.With(middlewares.JSONMiddleware[models.ProductInput]).Post("/", CreateProduct)

			r.Get("/{id}", GetProduct)
			r.With(middlewares.JSONMiddleware[models.ProductInput]).Put("/{id}", ReplaceProduct)
			r.Delete("/{id}", DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", GetOrders(router.config.PageSize))
			r.With(middlewares.JSONMiddleware[models.OrderInput]).Post("/", CreateOrder)

			r.Get("/{id}", GetOrder)
			r.With(middlewares.JSONMiddleware[models.OrderInput]).Put("/{id}", UpdateOrder)
			r.Delete("/{id}", DeleteOrder)

			r.Post("/{id}/accepted", AcceptOrder)
			r.Post("/{id}/fail", RejectOrder)
		})
	})

	return r
}

// Run serves the API until the process exits.
func (router *Router) Run() {
	server := &http.Server{
		Addr:              router.config.Endpoint,
		Handler:           router.get(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Log.Info("running server", zap.String("endpoint", router.config.Endpoint))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
