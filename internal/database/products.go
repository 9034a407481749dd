package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateProduct = errors.New("product with this name already exists")
)

const (
	CountProductsQuery = `
		SELECT
			COUNT(*)
		FROM
			products
	`
	SelectProductsQuery = `
		SELECT
			id,
			name
		FROM
			products
		ORDER BY
			id
		LIMIT $1 OFFSET $2
	`
	SelectProductQuery = `
		SELECT
			id,
			name
		FROM
			products
		WHERE
			id = $1
	`
	InsertProductQuery = `
		INSERT INTO
			products (name)
		VALUES ($1)
		RETURNING id, name
	`
	UpdateProductQuery = `
		UPDATE
			products
		SET
			name = $2
		WHERE
			id = $1
		RETURNING id, name
	`
	DeleteProductQuery = `
		DELETE FROM
			products
		WHERE
			id = $1
	`
)

type ProductDB struct {
	ID   int64
	Name string
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}

func (d *Database) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRow(ctx, CountProductsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (d *Database) FindProducts(ctx context.Context, limit, offset int) ([]ProductDB, error) {
	rows, err := d.db.Query(ctx, SelectProductsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []ProductDB{}
	for rows.Next() {
		var item ProductDB
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	return result, nil
}

// FindProduct returns nil without an error when the product does not exist.
func (d *Database) FindProduct(ctx context.Context, productID int64) (*ProductDB, error) {
	return findProduct(ctx, d.db, productID)
}

func findProduct(ctx context.Context, q DBExecutor, productID int64) (*ProductDB, error) {
	product := &ProductDB{}

	if err := q.QueryRow(ctx, SelectProductQuery, productID).Scan(&product.ID, &product.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (d *Database) CreateProduct(ctx context.Context, name string) (*ProductDB, error) {
	product := &ProductDB{}

	if err := d.db.QueryRow(ctx, InsertProductQuery, name).Scan(&product.ID, &product.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProduct
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct returns nil without an error when the product does not exist.
func (d *Database) UpdateProduct(ctx context.Context, productID int64, name string) (*ProductDB, error) {
	product := &ProductDB{}

	if err := d.db.QueryRow(ctx, UpdateProductQuery, productID, name).Scan(&product.ID, &product.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProduct
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes the product together with the order details referencing it.
// It reports whether a row was deleted.
func (d *Database) DeleteProduct(ctx context.Context, productID int64) (bool, error) {
	tag, err := d.db.Exec(ctx, DeleteProductQuery, productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
