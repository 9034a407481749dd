package middlewares

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/go-orderflow/internal/models"
)

type key int

const (
	ProductServiceKey key = iota
	OrderServiceKey
)

func ServiceInjectorMiddleware(
	productService models.ProductService,
	orderService models.OrderService,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ProductServiceKey, productService)
			ctx = context.WithValue(ctx, OrderServiceKey, orderService)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetServiceFromContext[Service interface{}](w http.ResponseWriter, r *http.Request, serviceKey key) *Service {
	foundService, ok := r.Context().Value(serviceKey).(Service)

	if !ok {
		http.Error(w, fmt.Sprintf("Service wasn't found in context by key %v", serviceKey), http.StatusInternalServerError)
		return nil
	}

	return &foundService
}
