package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Renal37/go-orderflow/internal/database"
	"github.com/Renal37/go-orderflow/internal/models"
)

// memoryStorage mimics database.Database closely enough for service tests.
type memoryStorage struct {
	products map[int64]database.ProductDB
	orders   map[int64]database.OrderDB
	lastID   int64
	err      error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		products: map[int64]database.ProductDB{},
		orders:   map[int64]database.OrderDB{},
	}
}

func (m *memoryStorage) nextID() int64 {
	m.lastID++
	return m.lastID
}

func (m *memoryStorage) addProduct(name string) database.ProductDB {
	product := database.ProductDB{ID: m.nextID(), Name: name}
	m.products[product.ID] = product
	return product
}

func (m *memoryStorage) CountProducts(_ context.Context) (int, error) {
	return len(m.products), m.err
}

func (m *memoryStorage) FindProducts(_ context.Context, limit, offset int) ([]database.ProductDB, error) {
	if m.err != nil {
		return nil, m.err
	}

	result := make([]database.ProductDB, 0, len(m.products))
	for _, product := range m.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return window(result, limit, offset), nil
}

func (m *memoryStorage) FindProduct(_ context.Context, productID int64) (*database.ProductDB, error) {
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[productID]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func (m *memoryStorage) nameTaken(name string, except int64) bool {
	for _, product := range m.products {
		if product.Name == name && product.ID != except {
			return true
		}
	}
	return false
}

func (m *memoryStorage) CreateProduct(_ context.Context, name string) (*database.ProductDB, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.nameTaken(name, 0) {
		return nil, database.ErrDuplicateProduct
	}
	product := m.addProduct(name)
	return &product, nil
}

func (m *memoryStorage) UpdateProduct(_ context.Context, productID int64, name string) (*database.ProductDB, error) {
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[productID]
	if !ok {
		return nil, nil
	}
	if m.nameTaken(name, productID) {
		return nil, database.ErrDuplicateProduct
	}
	product.Name = name
	m.products[productID] = product
	return &product, nil
}

func (m *memoryStorage) DeleteProduct(_ context.Context, productID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.products[productID]; !ok {
		return false, nil
	}
	delete(m.products, productID)

	for id, order := range m.orders {
		kept := order.Details[:0]
		for _, detail := range order.Details {
			if detail.ProductID != productID {
				kept = append(kept, detail)
			}
		}
		order.Details = kept
		m.orders[id] = order
	}
	return true, nil
}

func (m *memoryStorage) CountOrders(_ context.Context) (int, error) {
	return len(m.orders), m.err
}

func (m *memoryStorage) FindOrders(_ context.Context, limit, offset int) ([]database.OrderDB, error) {
	if m.err != nil {
		return nil, m.err
	}

	result := make([]database.OrderDB, 0, len(m.orders))
	for _, order := range m.orders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return window(result, limit, offset), nil
}

func (m *memoryStorage) FindOrder(_ context.Context, orderID int64) (*database.OrderDB, error) {
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (m *memoryStorage) CreateOrder(_ context.Context, externalID string, details []database.OrderDetailDB) (*database.OrderDB, error) {
	if m.err != nil {
		return nil, m.err
	}

	created := make([]database.OrderDetailDB, len(details))
	for i, detail := range details {
		product, ok := m.products[detail.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", database.ErrProductNotFound, detail.ProductID)
		}
		detail.ProductName = product.Name
		created[i] = detail
	}

	order := database.OrderDB{
		ID:         m.nextID(),
		Status:     database.OrderStatusDB{OrderStatus: models.StatusNew},
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		ExternalID: externalID,
	}
	for i := range created {
		created[i].ID = m.nextID()
		created[i].OrderID = order.ID
	}
	order.Details = created
	m.orders[order.ID] = order

	return &order, nil
}

func (m *memoryStorage) UpdateOrderExternalID(_ context.Context, orderID int64, externalID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	order, ok := m.orders[orderID]
	if !ok || order.Status.OrderStatus == models.StatusAccepted {
		return false, nil
	}
	order.ExternalID = externalID
	m.orders[orderID] = order
	return true, nil
}

func (m *memoryStorage) UpdateOrderStatus(_ context.Context, orderID int64, status database.OrderStatusDB) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	order, ok := m.orders[orderID]
	if !ok {
		return false, nil
	}
	order.Status = status
	m.orders[orderID] = order
	return true, nil
}

func (m *memoryStorage) DeleteOrder(_ context.Context, orderID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	order, ok := m.orders[orderID]
	if !ok || order.Status.OrderStatus == models.StatusAccepted {
		return false, nil
	}
	delete(m.orders, orderID)
	return true, nil
}

// acceptingStorage accepts the order right after the first lookup, the way a
// concurrent accept request would between the status check and the write.
type acceptingStorage struct {
	*memoryStorage
	accepted bool
}

func (a *acceptingStorage) FindOrder(ctx context.Context, orderID int64) (*database.OrderDB, error) {
	found, err := a.memoryStorage.FindOrder(ctx, orderID)
	if err != nil || found == nil || a.accepted {
		return found, err
	}

	a.accepted = true
	_, err = a.memoryStorage.UpdateOrderStatus(ctx, orderID, database.OrderStatusDB{OrderStatus: models.StatusAccepted})
	return found, err
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
