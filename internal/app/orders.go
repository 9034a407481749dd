package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/go-orderflow/internal/middlewares"
	"github.com/Renal37/go-orderflow/internal/models"
	"github.com/Renal37/go-orderflow/internal/services"
)

func GetOrders(defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
		if orderService == nil {
			return
		}

		page := parsePageRequest(r, defaultLimit)

		orders, count, err := (*orderService).GetOrders(r.Context(), page)
		middlewares.RecordOrderOperation("list", err == nil)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error occurred during getting orders: %s", err.Error()), http.StatusInternalServerError)
			return
		}

		middlewares.EncodeJSONResponse(w, http.StatusOK, newPage(r, page, count, orders))
	}
}

// CreateOrder stores an order together with its details and answers with the stored document.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	input, ok := middlewares.GetParsedJSONData[models.OrderInput](w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	order, err := (*orderService).CreateOrder(r.Context(), input)
	middlewares.RecordOrderOperation("create", err == nil)
	if err != nil {
		writeOrderError(w, "creating order", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusCreated, order)
}

func GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	order, err := (*orderService).GetOrder(r.Context(), orderID)
	middlewares.RecordOrderOperation("details", err == nil)
	if err != nil {
		writeOrderError(w, "getting order", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, order)
}

func UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r)
	if !ok {
		return
	}

	input, ok := middlewares.GetParsedJSONData[models.OrderInput](w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	order, err := (*orderService).UpdateOrder(r.Context(), orderID, input)
	middlewares.RecordOrderOperation("update", err == nil)
	if err != nil {
		if errors.Is(err, services.ErrOrderIsAccepted) {
			http.Error(w, "Order with status 'accepted' can't be changed", http.StatusForbidden)
			return
		}
		writeOrderError(w, "updating order", err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, order)
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	err := (*orderService).DeleteOrder(r.Context(), orderID)
	middlewares.RecordOrderOperation("delete", err == nil)
	if err != nil {
		if errors.Is(err, services.ErrOrderIsAccepted) {
			http.Error(w, "Order with status 'accepted' can't be deleted", http.StatusForbidden)
			return
		}
		writeOrderError(w, "deleting order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func AcceptOrder(w http.ResponseWriter, r *http.Request) {
	changeOrderStatus(w, r, "accept", models.OrderService.AcceptOrder)
}

func RejectOrder(w http.ResponseWriter, r *http.Request) {
	changeOrderStatus(w, r, "reject", models.OrderService.RejectOrder)
}

type statusTransition func(models.OrderService, context.Context, int64) (string, error)

func changeOrderStatus(w http.ResponseWriter, r *http.Request, operation string, transition statusTransition) {
	orderID, ok := parseID(w, r)
	if !ok {
		return
	}

	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	result, err := transition(*orderService, r.Context(), orderID)
	middlewares.RecordOrderOperation(operation, err == nil)
	if err != nil {
		writeOrderError(w, fmt.Sprintf("trying to %s order", operation), err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, result)
}

func writeOrderError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, services.ErrInvalidInput) || errors.Is(err, services.ErrOrderHasNoDetails) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, services.ErrOrderIsNotExist) {
		http.Error(w, "Order does not exist", http.StatusNotFound)
		return
	}

	if errors.Is(err, services.ErrProductIsNotExist) {
		http.Error(w, "Product does not exist", http.StatusNotFound)
		return
	}

	if errors.Is(err, services.ErrOrderIsAccepted) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	http.Error(w, fmt.Sprintf("Error occurred during %s: %s", action, err.Error()), http.StatusInternalServerError)
}
