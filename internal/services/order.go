package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/go-orderflow/internal/database"
	"github.com/Renal37/go-orderflow/internal/logger"
	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/Renal37/go-orderflow/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrOrderHasNoDetails = errors.New("order must have at least one detail")
	ErrOrderIsNotExist   = errors.New("order does not exist")
	ErrOrderIsAccepted   = errors.New("order is accepted")
)

type OrderService struct {
	storage orderStorage
}

type orderStorage interface {
	CountOrders(ctx context.Context) (int, error)
	FindOrders(ctx context.Context, limit, offset int) ([]database.OrderDB, error)
	FindOrder(ctx context.Context, orderID int64) (*database.OrderDB, error)
	CreateOrder(ctx context.Context, externalID string, details []database.OrderDetailDB) (*database.OrderDB, error)
	UpdateOrderExternalID(ctx context.Context, orderID int64, externalID string) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status database.OrderStatusDB) (bool, error)
	DeleteOrder(ctx context.Context, orderID int64) (bool, error)
}

func NewOrderService(storage orderStorage) *OrderService {
	return &OrderService{storage: storage}
}

// GetOrders returns one page of orders ordered by id together with the total count.
func (o *OrderService) GetOrders(ctx context.Context, page models.PageRequest) ([]models.Order, int, error) {
	count, err := o.storage.CountOrders(ctx)
	if err != nil {
		return nil, 0, err
	}

	orders, err := o.storage.FindOrders(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]models.Order, len(orders))
	for i, order := range orders {
		result[i] = toOrder(order)
	}

	return result, count, nil
}

// CreateOrder stores the order with all its details at once. Either everything is
// written or nothing is.
func (o *OrderService) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	details := make([]database.OrderDetailDB, len(input.Details))
	for i, detail := range input.Details {
		details[i] = database.OrderDetailDB{
			ProductID: *detail.Product.ID,
			Amount:    *detail.Amount,
			Price:     detail.Price.Decimal,
		}
	}

	var externalID string
	if input.ExternalID != nil {
		externalID = *input.ExternalID
	}

	created, err := o.storage.CreateOrder(ctx, externalID, details)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrProductIsNotExist, err)
		}
		return nil, err
	}

	logger.Log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("external_id", created.ExternalID),
		zap.Int("details", len(created.Details)),
	)

	order := toOrder(*created)
	return &order, nil
}

func (o *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	found, err := o.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order := toOrder(*found)
	return &order, nil
}

// UpdateOrder changes the external id of an order that is not accepted yet.
// Every other field of the input is ignored.
func (o *OrderService) UpdateOrder(ctx context.Context, orderID int64, input models.OrderInput) (*models.Order, error) {
	found, err := o.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if found.Status.OrderStatus == models.StatusAccepted {
		return nil, ErrOrderIsAccepted
	}

	if err := validateUpdateOrder(input); err != nil {
		return nil, err
	}

	if input.ExternalID != nil && *input.ExternalID != found.ExternalID {
		updated, err := o.storage.UpdateOrderExternalID(ctx, orderID, *input.ExternalID)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, o.lockedOrMissing(ctx, orderID)
		}

		logger.Log.Info("order external id changed",
			zap.Int64("order_id", orderID),
			zap.String("from", found.ExternalID),
			zap.String("to", *input.ExternalID),
		)

		found.ExternalID = *input.ExternalID
	}

	order := toOrder(*found)
	return &order, nil
}

func (o *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	found, err := o.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if found.Status.OrderStatus == models.StatusAccepted {
		return ErrOrderIsAccepted
	}

	deleted, err := o.storage.DeleteOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !deleted {
		return o.lockedOrMissing(ctx, orderID)
	}

	logger.Log.Info("order deleted", zap.Int64("order_id", orderID))

	return nil
}

// lockedOrMissing explains a guarded write that changed nothing: the order was
// accepted or deleted after it had been read.
func (o *OrderService) lockedOrMissing(ctx context.Context, orderID int64) error {
	if _, err := o.findOrder(ctx, orderID); err != nil {
		return err
	}
	return ErrOrderIsAccepted
}

// AcceptOrder moves the order to ACCEPTED regardless of its current status.
func (o *OrderService) AcceptOrder(ctx context.Context, orderID int64) (string, error) {
	if err := o.setStatus(ctx, orderID, models.StatusAccepted); err != nil {
		return "", err
	}
	return models.AcceptedResponse, nil
}

// RejectOrder moves the order to FAILED regardless of its current status.
func (o *OrderService) RejectOrder(ctx context.Context, orderID int64) (string, error) {
	if err := o.setStatus(ctx, orderID, models.StatusFailed); err != nil {
		return "", err
	}
	return models.RejectedResponse, nil
}

func (o *OrderService) setStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	updated, err := o.storage.UpdateOrderStatus(ctx, orderID, database.OrderStatusDB{OrderStatus: status})
	if err != nil {
		return err
	}

	if !updated {
		return ErrOrderIsNotExist
	}

	logger.Log.Info("order status changed", zap.Int64("order_id", orderID), zap.String("status", string(status)))

	return nil
}

func (o *OrderService) findOrder(ctx context.Context, orderID int64) (*database.OrderDB, error) {
	found, err := o.storage.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, ErrOrderIsNotExist
	}

	return found, nil
}

func validateCreateOrder(input models.OrderInput) error {
	if len(input.Details) == 0 {
		return ErrOrderHasNoDetails
	}

	if err := validateStruct(input); err != nil {
		return err
	}

	for i, detail := range input.Details {
		if err := detail.Price.Validate(); err != nil {
			return fmt.Errorf("%w: details[%d].price: %s", ErrInvalidInput, i, err.Error())
		}
	}

	return nil
}

// validateUpdateOrder only looks at external_id. Details sent on update are not
// written, so they are not checked either.
func validateUpdateOrder(input models.OrderInput) error {
	if input.ExternalID == nil {
		return nil
	}

	return validateStruct(struct {
		ExternalID *string `validate:"max=128"`
	}{input.ExternalID})
}

func toOrder(order database.OrderDB) models.Order {
	details := make([]models.OrderDetail, len(order.Details))
	for i, detail := range order.Details {
		details[i] = models.OrderDetail{
			ID:     detail.ID,
			Amount: detail.Amount,
			Product: models.Product{
				ID:   detail.ProductID,
				Name: detail.ProductName,
			},
			Price: models.Price{Decimal: detail.Price},
		}
	}

	return models.Order{
		ID:         order.ID,
		Status:     order.Status.OrderStatus,
		CreatedAt:  utils.RFC3339Date{Time: order.CreatedAt},
		ExternalID: order.ExternalID,
		Details:    details,
	}
}
