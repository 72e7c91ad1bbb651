// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cartline/internal/platform/database/schema"
	"github.com/taibuivan/cartline/internal/platform/dberr"
)

// PostgresOrderRepository implements the OrderRepository interface using pgx.
//
// Items and the shipping address are stored as JSONB documents: they are
// read and written as a unit with the order and never queried field-by-field.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new PostgreSQL implementation of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

/*
Create persists a new order record into the orders.purchase table.

Parameters:
  - context: context.Context
  - order: *Order (Entity to persist, totals already derived)

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresOrderRepository) Create(context context.Context, order *Order) error {
	const query = `
		INSERT INTO orders.purchase (
			id, customerid, items, subtotal, shippingfee, total, status,
			shippingaddress, note, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_marshal_items_failed: %w", err)
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_marshal_address_failed: %w", err)
	}

	_, err = repository.pool.Exec(context, query,
		order.ID,
		order.CustomerID,
		items,
		order.Subtotal,
		order.ShippingFee,
		order.Total,
		order.Status,
		address,
		order.Note,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_order_repo_create_failed: %w", err), "Order")
	}

	return nil
}

/*
FindByID retrieves a live order by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Order: Hydrated order with items and address
  - error: apperr.NotFound or infrastructure errors
*/
func (repository *PostgresOrderRepository) FindByID(context context.Context, id string) (*Order, error) {
	const query = `
		SELECT id, customerid, items, subtotal, shippingfee, total, status,
		       shippingaddress, note, createdat, updatedat
		FROM orders.purchase
		WHERE id = $1 AND deletedat IS NULL`

	order := &Order{}
	var items, address []byte
	err := repository.pool.QueryRow(context, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&items,
		&order.Subtotal,
		&order.ShippingFee,
		&order.Total,
		&order.Status,
		&address,
		&order.Note,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_order_repo_find_by_id_failed: %w", err), "Order")
	}

	if err := hydrateOrder(order, items, address); err != nil {
		return nil, err
	}

	return order, nil
}

/*
List returns a page of orders matching the filter, newest first by default.

Description: Builds the WHERE clause dynamically from the filter, runs a
count for pagination metadata, then fetches the page.

Parameters:
  - context: context.Context
  - filter: Filter
  - offset: int
  - limit: int

Returns:
  - []Order: Page of matching orders
  - int: Total match count
  - error: Retrieval errors
*/
func (repository *PostgresOrderRepository) List(context context.Context, filter Filter, offset, limit int) ([]Order, int, error) {
	conditions := []string{"deletedat IS NULL"}
	args := []interface{}{}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customerid = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("createdat >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("createdat <= $%d", len(args)))
	}
	if filter.MinTotal != nil {
		args = append(args, *filter.MinTotal)
		conditions = append(conditions, fmt.Sprintf("total >= $%d", len(args)))
	}
	if filter.MaxTotal != nil {
		args = append(args, *filter.MaxTotal)
		conditions = append(conditions, fmt.Sprintf("total <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM orders.purchase WHERE " + where
	total := 0
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_order_repo_count_failed: %w", err), "Order")
	}

	// Sort columns are whitelisted; user input never reaches the SQL text.
	sortColumn := schema.OrderPurchase.CreatedAt
	if filter.SortBy == SortByTotal {
		sortColumn = schema.OrderPurchase.Total
	}
	sortDirection := "DESC"
	if filter.SortOrder == SortAsc {
		sortDirection = "ASC"
	}

	args = append(args, offset, limit)
	pageQuery := fmt.Sprintf(`
		SELECT id, customerid, items, subtotal, shippingfee, total, status,
		       shippingaddress, note, createdat, updatedat
		FROM orders.purchase
		WHERE %s
		ORDER BY %s %s
		OFFSET $%d LIMIT $%d`,
		where, sortColumn, sortDirection, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_order_repo_list_failed: %w", err), "Order")
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var order Order
		var items, address []byte
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&items,
			&order.Subtotal,
			&order.ShippingFee,
			&order.Total,
			&order.Status,
			&address,
			&order.Note,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("postgres_order_repo_scan_failed: %w", err), "Order")
		}
		if err := hydrateOrder(&order, items, address); err != nil {
			return nil, 0, err
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_order_repo_rows_failed: %w", err), "Order")
	}

	return result, total, nil
}

/*
Update persists the mutable fields of an existing order.

Parameters:
  - context: context.Context
  - order: *Order (Hydrated entity with changes)

Returns:
  - error: Update failures
*/
func (repository *PostgresOrderRepository) Update(context context.Context, order *Order) error {
	const query = `
		UPDATE orders.purchase
		SET status = $2, shippingaddress = $3, note = $4, updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_marshal_address_failed: %w", err)
	}

	order.UpdatedAt = time.Now()
	_, err = repository.pool.Exec(context, query,
		order.ID,
		order.Status,
		address,
		order.Note,
		order.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_order_repo_update_failed: %w", err), "Order")
	}

	return nil
}

/*
FindStatuses resolves the current status of each live order in ids.

Description: Missing or soft-deleted IDs are absent from the result map,
which is how the bulk update distinguishes unknown orders.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - map[string]OrderStatus: Status keyed by order ID
  - error: Retrieval errors
*/
func (repository *PostgresOrderRepository) FindStatuses(context context.Context, ids []string) (map[string]OrderStatus, error) {
	const query = `
		SELECT id, status
		FROM orders.purchase
		WHERE id = ANY($1) AND deletedat IS NULL`

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_order_repo_find_statuses_failed: %w", err), "Order")
	}
	defer rows.Close()

	statuses := make(map[string]OrderStatus, len(ids))
	for rows.Next() {
		var id string
		var status OrderStatus
		if err := rows.Scan(&id, &status); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres_order_repo_scan_failed: %w", err), "Order")
		}
		statuses[id] = status
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_order_repo_rows_failed: %w", err), "Order")
	}

	return statuses, nil
}

/*
UpdateStatusBulk sets the status of every order in ids in one statement.

Parameters:
  - context: context.Context
  - ids: []string
  - status: OrderStatus

Returns:
  - error: Execution failures
*/
func (repository *PostgresOrderRepository) UpdateStatusBulk(context context.Context, ids []string, status OrderStatus) error {
	const query = `
		UPDATE orders.purchase
		SET status = $2, updatedat = $3
		WHERE id = ANY($1) AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, ids, status, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_order_repo_bulk_update_failed: %w", err), "Order")
	}

	return nil
}

/*
SoftDelete marks an order as deleted by setting deletedat.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Side-effect failures
*/
func (repository *PostgresOrderRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE orders.purchase SET deletedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_order_repo_soft_delete_failed: %w", err), "Order")
	}
	return nil
}

// hydrateOrder unmarshals the JSONB columns into the order.
func hydrateOrder(order *Order, items, address []byte) error {
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return fmt.Errorf("postgres_order_repo_unmarshal_items_failed: %w", err)
		}
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
			return fmt.Errorf("postgres_order_repo_unmarshal_address_failed: %w", err)
		}
	}
	return nil
}
