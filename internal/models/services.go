package models

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_product.go . ProductService
type ProductService interface {
	GetProducts(ctx context.Context, page PageRequest) ([]Product, int, error)

	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)

	GetProduct(ctx context.Context, productID int64) (*Product, error)

	ReplaceProduct(ctx context.Context, productID int64, input ProductInput) (*Product, error)

	DeleteProduct(ctx context.Context, productID int64) error
}

//go:generate mockgen -destination=mocks/mock_order.go . OrderService
type OrderService interface {
	GetOrders(ctx context.Context, page PageRequest) ([]Order, int, error)

	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)

	GetOrder(ctx context.Context, orderID int64) (*Order, error)

	UpdateOrder(ctx context.Context, orderID int64, input OrderInput) (*Order, error)

	DeleteOrder(ctx context.Context, orderID int64) error

	AcceptOrder(ctx context.Context, orderID int64) (string, error)

	RejectOrder(ctx context.Context, orderID int64) (string, error)
}
