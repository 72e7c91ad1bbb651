// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package orders_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cartline/internal/orders"
	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/pkg/pagination"
	"github.com/taibuivan/cartline/pkg/pointer"
)

// # Test Doubles

type fakeOrderRepository struct {
	orders   map[string]*orders.Order
	ordered  []string
	failBulk error
}

func newFakeOrderRepository(seed ...*orders.Order) *fakeOrderRepository {
	repository := &fakeOrderRepository{orders: map[string]*orders.Order{}}
	for _, order := range seed {
		clone := *order
		repository.orders[order.ID] = &clone
		repository.ordered = append(repository.ordered, order.ID)
	}
	return repository
}

func (repository *fakeOrderRepository) Create(_ context.Context, order *orders.Order) error {
	clone := *order
	repository.orders[order.ID] = &clone
	repository.ordered = append(repository.ordered, order.ID)
	return nil
}

func (repository *fakeOrderRepository) FindByID(_ context.Context, id string) (*orders.Order, error) {
	order, ok := repository.orders[id]
	if !ok || order.DeletedAt != nil {
		return nil, apperr.NotFound("Order")
	}
	clone := *order
	return &clone, nil
}

func (repository *fakeOrderRepository) List(_ context.Context, filter orders.Filter, offset, limit int) ([]orders.Order, int, error) {
	var matches []orders.Order
	for _, id := range repository.ordered {
		order := repository.orders[id]
		if order.DeletedAt != nil {
			continue
		}
		if filter.CustomerID != "" && order.CustomerID != filter.CustomerID {
			continue
		}
		if filter.MinTotal != nil && order.Total < *filter.MinTotal {
			continue
		}
		if filter.MaxTotal != nil && order.Total > *filter.MaxTotal {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, status := range filter.Statuses {
				if order.Status == status {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matches = append(matches, *order)
	}

	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repository *fakeOrderRepository) Update(_ context.Context, order *orders.Order) error {
	if stored, ok := repository.orders[order.ID]; ok && stored.DeletedAt == nil {
		clone := *order
		clone.DeletedAt = stored.DeletedAt
		repository.orders[order.ID] = &clone
	}
	return nil
}

func (repository *fakeOrderRepository) FindStatuses(_ context.Context, ids []string) (map[string]orders.OrderStatus, error) {
	statuses := map[string]orders.OrderStatus{}
	for _, id := range ids {
		if order, ok := repository.orders[id]; ok && order.DeletedAt == nil {
			statuses[id] = order.Status
		}
	}
	return statuses, nil
}

func (repository *fakeOrderRepository) UpdateStatusBulk(_ context.Context, ids []string, status orders.OrderStatus) error {
	if repository.failBulk != nil {
		return repository.failBulk
	}
	for _, id := range ids {
		if order, ok := repository.orders[id]; ok {
			order.Status = status
		}
	}
	return nil
}

func (repository *fakeOrderRepository) SoftDelete(_ context.Context, id string) error {
	if order, ok := repository.orders[id]; ok {
		now := time.Now()
		order.DeletedAt = &now
	}
	return nil
}

func newService(repository orders.OrderRepository) *orders.Service {
	return orders.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func pendingOrder(id, customerID string) *orders.Order {
	return &orders.Order{
		ID:         id,
		CustomerID: customerID,
		Status:     orders.StatusPending,
		Items:      []orders.OrderItem{{ProductID: "p1", Quantity: 1, Price: 10, Total: 10}},
		Subtotal:   10,
		Total:      10,
	}
}

// # Creation

func TestService_Create_DerivesTotals(t *testing.T) {
	repository := newFakeOrderRepository()
	service := newService(repository)

	order, err := service.Create(context.Background(), orders.CreateInput{
		CustomerID: "c1",
		Items: []orders.ItemInput{
			{ProductID: "p1", Quantity: 2, Price: 49.5},
			{ProductID: "p2", Quantity: 1, Price: 100},
		},
		ShippingFee: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, 99.0, order.Items[0].Total)
	assert.Equal(t, 100.0, order.Items[1].Total)
	assert.Equal(t, 199.0, order.Subtotal)
	assert.Equal(t, 224.0, order.Total)
	assert.NotEmpty(t, order.ID)
	assert.Contains(t, repository.orders, order.ID)
}

func TestService_Create_RequiresItems(t *testing.T) {
	service := newService(newFakeOrderRepository())

	_, err := service.Create(context.Background(), orders.CreateInput{CustomerID: "c1"})
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
}

// # Workflow Transitions

func TestService_Update_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current orders.OrderStatus
		next    orders.OrderStatus
		allowed bool
	}{
		{"forward_step", orders.StatusPending, orders.StatusConfirmed, true},
		{"forward_skip", orders.StatusConfirmed, orders.StatusShipped, true},
		{"same_status_noop", orders.StatusProcessing, orders.StatusProcessing, true},
		{"cancel_from_pending", orders.StatusPending, orders.StatusCancelled, true},
		{"cancel_from_shipped", orders.StatusShipped, orders.StatusCancelled, true},
		{"backwards", orders.StatusShipped, orders.StatusProcessing, false},
		{"leave_delivered", orders.StatusDelivered, orders.StatusPending, false},
		{"leave_cancelled", orders.StatusCancelled, orders.StatusConfirmed, false},
		{"revive_cancelled_to_delivered", orders.StatusCancelled, orders.StatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := pendingOrder("o1", "c1")
			seed.Status = tt.current
			service := newService(newFakeOrderRepository(seed))

			next := tt.next
			_, err := service.Update(context.Background(), "o1", orders.UpdateInput{Status: &next})

			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
			}
		})
	}
}

func TestService_Update_MergesAddressPatch(t *testing.T) {
	seed := pendingOrder("o1", "c1")
	seed.ShippingAddress = orders.ShippingAddress{
		Name: "Mai", Phone: "0901", Address: "1 Ly Thuong Kiet", Province: "Hanoi", PostalCode: "100000",
	}
	repository := newFakeOrderRepository(seed)
	service := newService(repository)

	updated, err := service.Update(context.Background(), "o1", orders.UpdateInput{
		ShippingAddress: &orders.AddressPatch{Phone: pointer.To("0988")},
		Note:            pointer.To("leave at the gate"),
	})
	require.NoError(t, err)

	assert.Equal(t, "0988", updated.ShippingAddress.Phone)
	assert.Equal(t, "Mai", updated.ShippingAddress.Name, "unpatched fields survive")
	assert.Equal(t, "100000", updated.ShippingAddress.PostalCode)
	assert.Equal(t, "leave at the gate", updated.Note)
}

func TestService_Update_UnknownOrder(t *testing.T) {
	service := newService(newFakeOrderRepository())

	_, err := service.Update(context.Background(), "ghost", orders.UpdateInput{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Bulk Updates

func TestService_BulkUpdateStatus_PartitionsResults(t *testing.T) {
	delivered := pendingOrder("done", "c1")
	delivered.Status = orders.StatusDelivered
	repository := newFakeOrderRepository(
		pendingOrder("ok1", "c1"),
		pendingOrder("ok2", "c2"),
		delivered,
	)
	service := newService(repository)

	result, err := service.BulkUpdateStatus(context.Background(),
		[]string{"ok1", "ok2", "done", "ghost"}, orders.StatusConfirmed)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ok1", "ok2"}, result.Success)
	require.Len(t, result.Failed, 2)

	reasons := map[string]string{}
	for _, failure := range result.Failed {
		reasons[failure.ID] = failure.Reason
	}
	assert.Equal(t, "Order not found or has been deleted", reasons["ghost"])
	assert.Contains(t, reasons["done"], "DELIVERED")

	assert.Equal(t, orders.StatusConfirmed, repository.orders["ok1"].Status)
	assert.Equal(t, orders.StatusDelivered, repository.orders["done"].Status)
}

func TestService_BulkUpdateStatus_EmptyInput(t *testing.T) {
	service := newService(newFakeOrderRepository())

	_, err := service.BulkUpdateStatus(context.Background(), nil, orders.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
}

func TestService_BulkUpdateStatus_StoreFailureMarksAllFailed(t *testing.T) {
	repository := newFakeOrderRepository(pendingOrder("o1", "c1"), pendingOrder("o2", "c2"))
	repository.failBulk = apperr.Infrastructure(assert.AnError)
	service := newService(repository)

	result, err := service.BulkUpdateStatus(context.Background(),
		[]string{"o1", "o2"}, orders.StatusConfirmed)
	require.NoError(t, err)

	assert.Empty(t, result.Success)
	assert.Len(t, result.Failed, 2)
}

// # Deletion & Listing

func TestService_Remove_SoftDeletes(t *testing.T) {
	repository := newFakeOrderRepository(pendingOrder("o1", "c1"))
	service := newService(repository)

	require.NoError(t, service.Remove(context.Background(), "o1"))

	_, err := service.Get(context.Background(), "o1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.Remove(context.Background(), "o1")
	require.Error(t, err, "deleting twice reports not found")
}

func TestService_List_FiltersAndPaginates(t *testing.T) {
	confirmed := pendingOrder("o3", "c1")
	confirmed.Status = orders.StatusConfirmed
	repository := newFakeOrderRepository(
		pendingOrder("o1", "c1"),
		pendingOrder("o2", "c2"),
		confirmed,
	)
	service := newService(repository)

	result, meta, err := service.List(context.Background(),
		orders.Filter{CustomerID: "c1"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, 2, meta.Total)

	result, meta, err = service.List(context.Background(),
		orders.Filter{Statuses: []orders.OrderStatus{orders.StatusConfirmed}},
		pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "o3", result[0].ID)
	assert.Equal(t, 1, meta.Total)
}

func TestService_List_FiltersByTotalRange(t *testing.T) {
	cheap := pendingOrder("o1", "c1")
	cheap.Total = 25
	mid := pendingOrder("o2", "c1")
	mid.Total = 120
	expensive := pendingOrder("o3", "c1")
	expensive.Total = 480
	service := newService(newFakeOrderRepository(cheap, mid, expensive))

	result, meta, err := service.List(context.Background(),
		orders.Filter{MinTotal: pointer.To(100.0), MaxTotal: pointer.To(200.0)},
		pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "o2", result[0].ID)
	assert.Equal(t, 1, meta.Total)
}
