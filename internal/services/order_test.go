package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Renal37/go-orderflow/internal/database"
	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailInput(productID int64, amount int, price string) models.OrderDetailInput {
	p := models.MustPrice(price)
	return models.OrderDetailInput{
		Amount:  &amount,
		Product: &models.ProductRef{ID: &productID},
		Price:   &p,
	}
}

func orderInput(externalID string, details ...models.OrderDetailInput) models.OrderInput {
	return models.OrderInput{ExternalID: &externalID, Details: details}
}

func TestOrderServiceCreateOrder(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	status := "ACCEPTED"
	input := orderInput("QWE-456", detailInput(dropbox.ID, 10, "12.00"))
	input.Status = &status

	order, err := service.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, "QWE-456", order.ExternalID)
	assert.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Details, 1)
	assert.Equal(t, 10, order.Details[0].Amount)
	assert.Equal(t, models.Product{ID: dropbox.ID, Name: "Dropbox"}, order.Details[0].Product)
	assert.Equal(t, "12.00", order.Details[0].Price.StringFixed(2))
}

func TestOrderServiceCreateOrderValidation(t *testing.T) {
	amount := 1
	productID := int64(1)
	price := models.MustPrice("1.00")

	testCases := []struct {
		testName    string
		input       models.OrderInput
		expectedErr error
	}{
		{
			testName:    "Should reject order without details",
			input:       models.OrderInput{},
			expectedErr: ErrOrderHasNoDetails,
		},
		{
			testName:    "Should reject order with empty details",
			input:       orderInput("A"),
			expectedErr: ErrOrderHasNoDetails,
		},
		{
			testName:    "Should reject detail without amount",
			input:       orderInput("A", models.OrderDetailInput{Product: &models.ProductRef{ID: &productID}, Price: &price}),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject detail without product",
			input:       orderInput("A", models.OrderDetailInput{Amount: &amount, Price: &price}),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject detail without product id",
			input:       orderInput("A", models.OrderDetailInput{Amount: &amount, Product: &models.ProductRef{}, Price: &price}),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject detail without price",
			input:       orderInput("A", models.OrderDetailInput{Amount: &amount, Product: &models.ProductRef{ID: &productID}}),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject negative amount",
			input:       orderInput("A", detailInput(productID, -1, "1.00")),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject price with three decimals",
			input:       orderInput("A", detailInput(productID, 1, "1.005")),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject price with too many digits",
			input:       orderInput("A", detailInput(productID, 1, "123456789.00")),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should reject too long external id",
			input:       orderInput(strings.Repeat("x", 129), detailInput(productID, 1, "1.00")),
			expectedErr: ErrInvalidInput,
		},
		{
			testName:    "Should report missing product",
			input:       orderInput("A", detailInput(productID, 1, "1.00"), detailInput(42, 1, "1.00")),
			expectedErr: ErrProductIsNotExist,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			storage := newMemoryStorage()
			storage.addProduct("Dropbox")

			order, err := NewOrderService(storage).CreateOrder(context.Background(), tc.input)

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, order)
			assert.Empty(t, storage.orders)
		})
	}
}

func TestOrderServiceCreateOrderAllowsZeroAmount(t *testing.T) {
	storage := newMemoryStorage()
	dropbox := storage.addProduct("Dropbox")

	order, err := NewOrderService(storage).CreateOrder(context.Background(), orderInput("", detailInput(dropbox.ID, 0, "0")))

	require.NoError(t, err)
	assert.Equal(t, 0, order.Details[0].Amount)
	assert.Equal(t, "", order.ExternalID)
}

func TestOrderServiceUpdateOrder(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	created, err := service.CreateOrder(context.Background(), orderInput("OLD", detailInput(dropbox.ID, 1, "5.50")))
	require.NoError(t, err)

	input := orderInput("NEW-1", detailInput(dropbox.ID, 99, "1.00"))
	updated, err := service.UpdateOrder(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "NEW-1", updated.ExternalID)
	assert.Equal(t, created.Details, updated.Details)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "NEW-1", storage.orders[created.ID].ExternalID)

	kept, err := service.UpdateOrder(context.Background(), created.ID, models.OrderInput{})
	require.NoError(t, err)
	assert.Equal(t, "NEW-1", kept.ExternalID)

	_, err = service.UpdateOrder(context.Background(), 999, orderInput("X"))
	assert.ErrorIs(t, err, ErrOrderIsNotExist)

	_, err = service.UpdateOrder(context.Background(), created.ID, orderInput(strings.Repeat("x", 129)))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderServiceAcceptedOrderIsLocked(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	created, err := service.CreateOrder(context.Background(), orderInput("QWE-456", detailInput(dropbox.ID, 1, "1.00")))
	require.NoError(t, err)

	result, err := service.AcceptOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", result)

	_, err = service.UpdateOrder(context.Background(), created.ID, orderInput("CHANGED"))
	assert.ErrorIs(t, err, ErrOrderIsAccepted)
	assert.Equal(t, "QWE-456", storage.orders[created.ID].ExternalID)

	assert.ErrorIs(t, service.DeleteOrder(context.Background(), created.ID), ErrOrderIsAccepted)
	assert.Contains(t, storage.orders, created.ID)
}

func TestOrderServiceAcceptedOrderIsForbiddenBeforeValidation(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	created, err := service.CreateOrder(context.Background(), orderInput("QWE-456", detailInput(dropbox.ID, 1, "1.00")))
	require.NoError(t, err)
	_, err = service.AcceptOrder(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = service.UpdateOrder(context.Background(), created.ID, orderInput(strings.Repeat("x", 129)))
	assert.ErrorIs(t, err, ErrOrderIsAccepted)
}

func TestOrderServiceOrderAcceptedConcurrently(t *testing.T) {
	testCases := []struct {
		testName string
		call     func(service *OrderService, orderID int64) error
	}{
		{
			testName: "Should not update order accepted after the status check",
			call: func(service *OrderService, orderID int64) error {
				_, err := service.UpdateOrder(context.Background(), orderID, orderInput("CHANGED"))
				return err
			},
		},
		{
			testName: "Should not delete order accepted after the status check",
			call: func(service *OrderService, orderID int64) error {
				return service.DeleteOrder(context.Background(), orderID)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			memory := newMemoryStorage()
			dropbox := memory.addProduct("Dropbox")

			created, err := NewOrderService(memory).CreateOrder(context.Background(), orderInput("QWE-456", detailInput(dropbox.ID, 1, "1.00")))
			require.NoError(t, err)

			err = tc.call(NewOrderService(&acceptingStorage{memoryStorage: memory}), created.ID)

			assert.ErrorIs(t, err, ErrOrderIsAccepted)
			require.Contains(t, memory.orders, created.ID)
			assert.Equal(t, "QWE-456", memory.orders[created.ID].ExternalID)
			assert.Equal(t, models.StatusAccepted, memory.orders[created.ID].Status.OrderStatus)
		})
	}
}

func TestOrderServiceRejectOrder(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	created, err := service.CreateOrder(context.Background(), orderInput("", detailInput(dropbox.ID, 1, "1.00")))
	require.NoError(t, err)

	_, err = service.AcceptOrder(context.Background(), created.ID)
	require.NoError(t, err)

	result, err := service.RejectOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", result)
	assert.Equal(t, database.OrderStatusDB{OrderStatus: models.StatusFailed}, storage.orders[created.ID].Status)

	require.NoError(t, service.DeleteOrder(context.Background(), created.ID))
	assert.Empty(t, storage.orders)

	_, err = service.RejectOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderIsNotExist)

	_, err = service.AcceptOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrOrderIsNotExist)

	assert.ErrorIs(t, service.DeleteOrder(context.Background(), created.ID), ErrOrderIsNotExist)
}

func TestOrderServiceGetOrders(t *testing.T) {
	storage := newMemoryStorage()
	service := NewOrderService(storage)
	dropbox := storage.addProduct("Dropbox")

	for _, externalID := range []string{"A", "B", "C", "D"} {
		_, err := service.CreateOrder(context.Background(), orderInput(externalID, detailInput(dropbox.ID, 1, "1.00")))
		require.NoError(t, err)
	}

	orders, count, err := service.GetOrders(context.Background(), models.PageRequest{Limit: 3, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.Len(t, orders, 3)
	assert.Equal(t, "B", orders[0].ExternalID)
	assert.Equal(t, "D", orders[2].ExternalID)

	_, err = service.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderIsNotExist)
}
