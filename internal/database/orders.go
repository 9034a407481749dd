package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("referenced product not found")
)

const (
	CountOrdersQuery = `
		SELECT
			COUNT(*)
		FROM
			orders
	`
	SelectOrdersQuery = `
		SELECT
			id,
			status,
			created_at,
			external_id
		FROM
			orders
		ORDER BY
			id
		LIMIT $1 OFFSET $2
	`
	SelectOrderQuery = `
		SELECT
			id,
			status,
			created_at,
			external_id
		FROM
			orders
		WHERE
			id = $1
	`
	SelectOrderDetailsQuery = `
		SELECT
			d.id,
			d.order_id,
			d.amount,
			d.price::text,
			p.id,
			p.name
		FROM
			order_details d
			JOIN products p ON p.id = d.product_id
		WHERE
			d.order_id = ANY($1)
		ORDER BY
			d.id
	`
	InsertOrderQuery = `
		INSERT INTO
			orders (external_id)
		VALUES ($1)
		RETURNING id, status, created_at, external_id
	`
	InsertOrderDetailQuery = `
		INSERT INTO
			order_details (order_id, product_id, amount, price)
		VALUES ($1, $2, $3, $4::numeric)
		RETURNING id
	`
	UpdateOrderExternalIDQuery = `
		UPDATE
			orders
		SET
			external_id = $2
		WHERE
			id = $1
			AND status <> 'ACCEPTED'
	`
	UpdateOrderStatusQuery = `
		UPDATE
			orders
		SET
			status = $2
		WHERE
			id = $1
	`
	DeleteOrderQuery = `
		DELETE FROM
			orders
		WHERE
			id = $1
			AND status <> 'ACCEPTED'
	`
)

type OrderDB struct {
	ID         int64
	Status     OrderStatusDB
	CreatedAt  time.Time
	ExternalID string
	Details    []OrderDetailDB
}

type OrderDetailDB struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Amount      int
	Price       decimal.Decimal
}

// OrderStatusDB converts the order status to and from its column value.
type OrderStatusDB struct {
	models.OrderStatus
}

func (s *OrderStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("order status must be a string, not %T", value)
	}

	*s = OrderStatusDB{models.OrderStatus(strVal)}
	return nil
}

func (s OrderStatusDB) Value() (driver.Value, error) {
	return string(s.OrderStatus), nil
}

func (d *Database) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRow(ctx, CountOrdersQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (d *Database) FindOrders(ctx context.Context, limit, offset int) ([]OrderDB, error) {
	rows, err := d.db.Query(ctx, SelectOrdersQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []OrderDB{}
	for rows.Next() {
		var item OrderDB
		if err := rows.Scan(&item.ID, &item.Status, &item.CreatedAt, &item.ExternalID); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	if err := attachDetails(ctx, d.db, result); err != nil {
		return nil, err
	}

	return result, nil
}

// FindOrder returns the order with its details, or nil without an error when it does not exist.
func (d *Database) FindOrder(ctx context.Context, orderID int64) (*OrderDB, error) {
	order := OrderDB{}

	err := d.db.QueryRow(ctx, SelectOrderQuery, orderID).
		Scan(&order.ID, &order.Status, &order.CreatedAt, &order.ExternalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	orders := []OrderDB{order}
	if err := attachDetails(ctx, d.db, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// attachDetails loads the details of all given orders with one query.
func attachDetails(ctx context.Context, q DBExecutor, orders []OrderDB) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = i
		orders[i].Details = []OrderDetailDB{}
	}

	rows, err := q.Query(ctx, SelectOrderDetailsQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query order details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  OrderDetailDB
			price string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Amount, &price, &item.ProductID, &item.ProductName); err != nil {
			return fmt.Errorf("failed to scan order detail row: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("failed to parse price of order detail %d: %w", item.ID, err)
		}

		i := byID[item.OrderID]
		orders[i].Details = append(orders[i].Details, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate order detail rows: %w", err)
	}

	return nil
}

// CreateOrder inserts the order and its details in one transaction. Details only need
// ProductID, Amount and Price. When any referenced product is missing nothing is written
// and the returned error wraps ErrProductNotFound.
func (d *Database) CreateOrder(ctx context.Context, externalID string, details []OrderDetailDB) (*OrderDB, error) {
	tx, err := d.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created := make([]OrderDetailDB, len(details))
	for i, detail := range details {
		product, err := findProduct(ctx, tx, detail.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, detail.ProductID)
		}
		detail.ProductName = product.Name
		created[i] = detail
	}

	order := &OrderDB{}
	err = tx.QueryRow(ctx, InsertOrderQuery, externalID).
		Scan(&order.ID, &order.Status, &order.CreatedAt, &order.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range created {
		created[i].OrderID = order.ID
		err := tx.QueryRow(ctx, InsertOrderDetailQuery,
			order.ID, created[i].ProductID, created[i].Amount, created[i].Price.String(),
		).Scan(&created[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order detail: %w", err)
		}
	}
	order.Details = created

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}

// UpdateOrderExternalID never touches an accepted order. It reports whether a row was
// changed, so false means the order is missing or accepted.
func (d *Database) UpdateOrderExternalID(ctx context.Context, orderID int64, externalID string) (bool, error) {
	tag, err := d.db.Exec(ctx, UpdateOrderExternalIDQuery, orderID, externalID)
	if err != nil {
		return false, fmt.Errorf("failed to update order external id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateOrderStatus reports whether the order exists.
func (d *Database) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatusDB) (bool, error) {
	tag, err := d.db.Exec(ctx, UpdateOrderStatusQuery, orderID, status)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteOrder removes the order and its details unless the order is accepted.
// It reports whether a row was deleted, so false means the order is missing or accepted.
func (d *Database) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	tag, err := d.db.Exec(ctx, DeleteOrderQuery, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
