package models

import (
	"github.com/Renal37/go-orderflow/internal/utils"
)

type OrderStatus string

const (
	StatusNew      OrderStatus = "NEW"
	StatusAccepted OrderStatus = "ACCEPTED"
	StatusFailed   OrderStatus = "FAILED"
)

// Values returned by the status transition actions.
const (
	AcceptedResponse = "accepted"
	RejectedResponse = "rejected"
)

type Order struct {
	ID         int64             `json:"id"`
	Status     OrderStatus       `json:"status"`
	CreatedAt  utils.RFC3339Date `json:"created_at"`
	ExternalID string            `json:"external_id"`
	Details    []OrderDetail     `json:"details"`
}

type OrderDetail struct {
	ID      int64   `json:"id"`
	Amount  int     `json:"amount"`
	Product Product `json:"product"`
	Price   Price   `json:"price"`
}

// OrderInput is the request body for creating and updating orders.
// Status and CreatedAt are read so that malformed bodies still fail to parse,
// but neither is ever written.
type OrderInput struct {
	ID         *int64             `json:"id"`
	Status     *string            `json:"status"`
	CreatedAt  *utils.RFC3339Date `json:"created_at"`
	ExternalID *string            `json:"external_id" validate:"omitempty,max=128"`
	Details    []OrderDetailInput `json:"details" validate:"dive"`
}

type OrderDetailInput struct {
	ID      *int64      `json:"id"`
	Amount  *int        `json:"amount" validate:"required,min=0"`
	Product *ProductRef `json:"product" validate:"required"`
	Price   *Price      `json:"price" validate:"required"`
}

// ProductRef is a nested product inside an order detail. Only ID is consulted on write.
type ProductRef struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name"`
}
