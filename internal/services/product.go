package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Renal37/go-orderflow/internal/database"
	"github.com/Renal37/go-orderflow/internal/logger"
	"github.com/Renal37/go-orderflow/internal/models"
	"go.uber.org/zap"
)

var (
	ErrProductIsNotExist  = errors.New("product does not exist")
	ErrProductNameIsTaken = errors.New("product with this name already exists")
)

type ProductService struct {
	storage productStorage
}

type productStorage interface {
	CountProducts(ctx context.Context) (int, error)
	FindProducts(ctx context.Context, limit, offset int) ([]database.ProductDB, error)
	FindProduct(ctx context.Context, productID int64) (*database.ProductDB, error)
	CreateProduct(ctx context.Context, name string) (*database.ProductDB, error)
	UpdateProduct(ctx context.Context, productID int64, name string) (*database.ProductDB, error)
	DeleteProduct(ctx context.Context, productID int64) (bool, error)
}

func NewProductService(storage productStorage) *ProductService {
	return &ProductService{storage: storage}
}

// GetProducts returns one page of products ordered by id together with the total count.
func (p *ProductService) GetProducts(ctx context.Context, page models.PageRequest) ([]models.Product, int, error) {
	count, err := p.storage.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	products, err := p.storage.FindProducts(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]models.Product, len(products))
	for i, product := range products {
		result[i] = toProduct(product)
	}

	return result, count, nil
}

func (p *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	name, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	created, err := p.storage.CreateProduct(ctx, name)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateProduct) {
			return nil, fmt.Errorf("%w: %s", ErrProductNameIsTaken, name)
		}
		return nil, err
	}

	logger.Log.Info("product created", zap.Int64("product_id", created.ID), zap.String("name", created.Name))

	product := toProduct(*created)
	return &product, nil
}

func (p *ProductService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	found, err := p.storage.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, ErrProductIsNotExist
	}

	product := toProduct(*found)
	return &product, nil
}

// ReplaceProduct overwrites the name of an existing product. The id in the body is ignored.
func (p *ProductService) ReplaceProduct(ctx context.Context, productID int64, input models.ProductInput) (*models.Product, error) {
	name, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := p.storage.UpdateProduct(ctx, productID, name)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateProduct) {
			return nil, fmt.Errorf("%w: %s", ErrProductNameIsTaken, name)
		}
		return nil, err
	}

	if updated == nil {
		return nil, ErrProductIsNotExist
	}

	product := toProduct(*updated)
	return &product, nil
}

// DeleteProduct removes the product. Order details referring to it are removed with it.
func (p *ProductService) DeleteProduct(ctx context.Context, productID int64) error {
	deleted, err := p.storage.DeleteProduct(ctx, productID)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrProductIsNotExist
	}

	logger.Log.Info("product deleted", zap.Int64("product_id", productID))

	return nil
}

func validateProductInput(input models.ProductInput) (string, error) {
	if err := validateStruct(input); err != nil {
		return "", err
	}

	name := *input.Name
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name may not be blank", ErrInvalidInput)
	}

	return name, nil
}

func toProduct(product database.ProductDB) models.Product {
	return models.Product{
		ID:   product.ID,
		Name: product.Name,
	}
}
