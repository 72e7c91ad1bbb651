// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/pkg/pagination"
	"github.com/taibuivan/cartline/pkg/pointer"
	"github.com/taibuivan/cartline/pkg/slice"
	"github.com/taibuivan/cartline/pkg/uuidv7"
)

// # Service

// Service implements order management use cases.
type Service struct {
	repository OrderRepository
	logger     *slog.Logger
}

// NewService constructs a new order [Service].
func NewService(repository OrderRepository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Inputs

// ItemInput is one order line as submitted by the client. The line total is
// derived server-side.
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     float64
}

// CreateInput carries everything needed to place an order.
type CreateInput struct {
	CustomerID      string
	Items           []ItemInput
	ShippingAddress ShippingAddress
	ShippingFee     float64
	Note            string
}

// AddressPatch is a partial shipping address. Nil fields are unchanged.
type AddressPatch struct {
	Name       *string
	Phone      *string
	Address    *string
	Province   *string
	PostalCode *string
}

// UpdateInput carries the mutable order fields. Nil means "leave unchanged".
type UpdateInput struct {
	Status          *OrderStatus
	ShippingAddress *AddressPatch
	Note            *string
}

// BulkFailure explains why one order was skipped during a bulk update.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult partitions a bulk update into updated and skipped orders.
type BulkResult struct {
	Success []string      `json:"success"`
	Failed  []BulkFailure `json:"failed"`
}

// # Listing

/*
List returns a page of orders matching the filter with pagination metadata.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Order: Page of matching orders
  - pagination.Meta: Navigation metadata
  - error: Retrieval errors
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]Order, pagination.Meta, error) {
	result, total, err := service.repository.List(context, filter, params.Offset(), params.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return result, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get resolves a single live order.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Order: Hydrated order
  - error: apperr.NotFound or infrastructure errors
*/
func (service *Service) Get(context context.Context, id string) (*Order, error) {
	return service.repository.FindByID(context, id)
}

// # Creation

/*
Create derives totals and persists a new order in the PENDING state.

Description: Each line total is price times quantity; the subtotal is the sum
of line totals; the grand total adds the shipping fee. All three are derived
here and stored, never trusted from the client.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Order: The persisted order
  - error: BadRequest (empty items) or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, apperr.BadRequest("Order must have at least one item")
	}

	items := slice.Map(input.Items, func(item ItemInput) OrderItem {
		return OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Price * float64(item.Quantity),
		}
	})

	subtotal := slice.Reduce(items, 0.0, func(sum float64, item OrderItem) float64 {
		return sum + item.Total
	})

	order := &Order{
		ID:              uuidv7.New(),
		CustomerID:      input.CustomerID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingFee:     input.ShippingFee,
		Total:           subtotal + input.ShippingFee,
		Status:          StatusPending,
		ShippingAddress: input.ShippingAddress,
		Note:            input.Note,
	}

	if err := service.repository.Create(context, order); err != nil {
		return nil, err
	}

	service.logger.Info("order_created",
		slog.String("order_id", order.ID),
		slog.String("customer_id", order.CustomerID),
		slog.Float64("total", order.Total),
	)

	return order, nil
}

// # Updates

/*
Update applies partial changes to an existing order.

Description: A status change must be a legal workflow transition. Address
fields merge onto the stored address; the note replaces outright.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Order: The updated order
  - error: NotFound, BadRequest (illegal transition), or storage errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Order, error) {
	order, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if err := validateStatusTransition(order.Status, *input.Status); err != nil {
			return nil, err
		}
		order.Status = *input.Status
	}

	if patch := input.ShippingAddress; patch != nil {
		order.ShippingAddress = ShippingAddress{
			Name:       pointer.Fallback(patch.Name, order.ShippingAddress.Name),
			Phone:      pointer.Fallback(patch.Phone, order.ShippingAddress.Phone),
			Address:    pointer.Fallback(patch.Address, order.ShippingAddress.Address),
			Province:   pointer.Fallback(patch.Province, order.ShippingAddress.Province),
			PostalCode: pointer.Fallback(patch.PostalCode, order.ShippingAddress.PostalCode),
		}
	}

	if input.Note != nil {
		order.Note = *input.Note
	}

	if err := service.repository.Update(context, order); err != nil {
		return nil, err
	}

	return order, nil
}

/*
BulkUpdateStatus moves many orders to the same status in one sweep.

Description: Each order is validated independently: unknown or deleted IDs
and illegal transitions land in the failed partition with a reason, and the
remaining orders are updated in a single statement. One bad ID never blocks
the rest.

Parameters:
  - context: context.Context
  - ids: []string
  - status: OrderStatus

Returns:
  - *BulkResult: Success and failed partitions
  - error: BadRequest (empty input) or retrieval errors
*/
func (service *Service) BulkUpdateStatus(context context.Context, ids []string, status OrderStatus) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, apperr.BadRequest("Must provide at least one order ID")
	}

	statuses, err := service.repository.FindStatuses(context, ids)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Success: []string{}, Failed: []BulkFailure{}}
	var valid []string

	for _, id := range ids {
		current, ok := statuses[id]
		if !ok {
			result.Failed = append(result.Failed, BulkFailure{
				ID:     id,
				Reason: "Order not found or has been deleted",
			})
			continue
		}

		if err := validateStatusTransition(current, status); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}

		valid = append(valid, id)
	}

	if len(valid) > 0 {
		if err := service.repository.UpdateStatusBulk(context, valid, status); err != nil {
			// The statement failed as a whole: every survivor becomes a failure.
			for _, id := range valid {
				result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: "Update failed"})
			}
			service.logger.Error("order_bulk_update_failed",
				slog.Int("count", len(valid)),
				slog.Any("error", err),
			)
			return result, nil
		}
		result.Success = valid
	}

	service.logger.Info("order_bulk_update",
		slog.String("status", string(status)),
		slog.Int("updated", len(result.Success)),
		slog.Int("skipped", len(result.Failed)),
	)

	return result, nil
}

/*
Remove soft-deletes an order.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: NotFound or storage errors
*/
func (service *Service) Remove(context context.Context, id string) error {
	if _, err := service.repository.FindByID(context, id); err != nil {
		return err
	}

	return service.repository.SoftDelete(context, id)
}

// # Workflow Rules

// validateStatusTransition enforces the fulfilment workflow: no leaving a
// final state, no moving backwards, cancellation allowed from any non-final
// state, and a no-op transition always allowed.
func validateStatusTransition(current, next OrderStatus) error {
	if current == next {
		return nil
	}

	if current == StatusDelivered {
		return apperr.BadRequest(fmt.Sprintf("Order is already DELIVERED and cannot be changed to %s", next))
	}
	if current == StatusCancelled {
		return apperr.BadRequest(fmt.Sprintf("Cancelled orders cannot be changed to %s", next))
	}

	if next == StatusCancelled {
		return nil
	}

	currentRank, currentKnown := statusRank[current]
	nextRank, nextKnown := statusRank[next]
	if currentKnown && nextKnown && nextRank < currentRank {
		return apperr.BadRequest(fmt.Sprintf("Cannot move order backwards from %s to %s", current, next))
	}

	return nil
}
