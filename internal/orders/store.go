// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package orders

import (
	"context"
	"time"
)

// # Query Types

// Sort fields accepted by the listing endpoint.
const (
	SortByCreatedAt = "createdat"
	SortByTotal     = "total"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter narrows the order listing. Zero values mean "no constraint".
type Filter struct {
	// Statuses restricts the listing to orders in any of these states.
	Statuses   []OrderStatus
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time

	// MinTotal and MaxTotal bound the order grand total (inclusive).
	MinTotal *float64
	MaxTotal *float64

	// SortBy is one of the SortBy constants; SortOrder one of SortAsc or
	// SortDesc. Invalid values fall back to createdat descending.
	SortBy    string
	SortOrder string
}

// # Repository Contract

/*
OrderRepository is the persistence boundary for orders.

Implementations exclude soft-deleted rows from every read path and translate
storage failures into the application error taxonomy.
*/
type OrderRepository interface {
	// Create persists a new order with its items and address.
	Create(ctx context.Context, order *Order) error

	// FindByID returns a live (non-deleted) order.
	FindByID(ctx context.Context, id string) (*Order, error)

	// List returns a page of orders matching the filter, plus the total
	// match count for pagination metadata.
	List(ctx context.Context, filter Filter, offset, limit int) ([]Order, int, error)

	// Update persists the mutable fields of an existing order: status,
	// shipping address, and note.
	Update(ctx context.Context, order *Order) error

	// FindStatuses resolves the current status of each live order in ids.
	// Missing or deleted IDs are simply absent from the result.
	FindStatuses(ctx context.Context, ids []string) (map[string]OrderStatus, error)

	// UpdateStatusBulk sets the status of every order in ids in one
	// statement.
	UpdateStatusBulk(ctx context.Context, ids []string, status OrderStatus) error

	// SoftDelete marks an order as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}
