// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package orders implements the order management domain.

It covers the order lifecycle from creation through the fulfilment workflow
to delivery or cancellation, including listing with filters, bulk status
updates, and retention-friendly deletion.

# Workflow

An order moves forward through PENDING, CONFIRMED, PROCESSING, SHIPPED, and
DELIVERED. It may be cancelled from any non-final state. DELIVERED and
CANCELLED are terminal; no transition leaves them, and the workflow never
moves backwards.

# Access Model

Role and permission gates are declared on the routes; resource-level rules
(customers act only on their own orders, and may modify them only while
PENDING) live in the handler where the resource and the caller meet.
*/
package orders

import (
	"time"
)

// # Status Workflow

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// statusRank orders the forward workflow. CANCELLED sits outside the rank:
// it is reachable from any non-final state and never left.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// IsValid reports whether the status is one of the known workflow states.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether the status is terminal.
func (s OrderStatus) IsFinal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// # Domain Entities

// OrderItem is a single line of an order. Total is derived as Price times
// Quantity at creation and stored with the line.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// ShippingAddress is the destination recorded with an order.
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Order is the aggregate root of the order domain.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shipping_fee"`
	Total           float64         `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"-"`
}

// # Field Identifiers

const (
	FieldCustomerID = "customer_id"
	FieldItems      = "items"
	FieldProductID  = "product_id"
	FieldQuantity   = "quantity"
	FieldPrice      = "price"
	FieldStatus     = "status"
	FieldOrderIDs   = "order_ids"
	FieldName       = "name"
	FieldPhone      = "phone"
	FieldAddress    = "address"
	FieldProvince   = "province"
	FieldPostalCode = "postal_code"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldMinTotal   = "min_total"
	FieldMaxTotal   = "max_total"
	FieldSortBy     = "sort_by"
	FieldSortOrder  = "sort_order"
)
