// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package orders

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/middleware"
	requestutil "github.com/taibuivan/cartline/internal/platform/request"
	"github.com/taibuivan/cartline/internal/platform/respond"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/platform/validate"
	"github.com/taibuivan/cartline/pkg/convert"
	"github.com/taibuivan/cartline/pkg/pagination"
	"github.com/taibuivan/cartline/pkg/pointer"
	"github.com/taibuivan/cartline/pkg/query"
	"github.com/taibuivan/cartline/pkg/slice"
)

// Handler implements order management HTTP endpoints.
//
// # Resource-Level Rules
//
// The route table declares role and permission gates; what it cannot declare
// is the relationship between the caller and one specific order. Those rules
// live here: customers see and touch only their own orders, and may modify
// them only while still PENDING.
type Handler struct {
	orderService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{orderService: service}
}

// Routes returns a [chi.Router] configured with order routes.
//
// # Endpoints
//   - GET    /       : Listing with filters and pagination.
//   - GET    /{id}   : Single order.
//   - POST   /       : Order placement.
//   - PATCH  /bulk   : Bulk status update (admin, seller).
//   - PATCH  /{id}   : Partial update.
//   - DELETE /{id}   : Soft delete (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.With(middleware.RequirePermissions(sec.PermOrderRead)).
		Get("/", handler.list)
	router.With(middleware.RequirePermissions(sec.PermOrderCreate)).
		Post("/", handler.create)

	// "/bulk" must be declared before "/{id}" so it is not captured as an ID.
	router.With(
		middleware.RequireRoles(sec.RoleAdmin, sec.RoleSeller),
		middleware.RequirePermissions(sec.PermOrderUpdateAll),
	).Patch("/bulk", handler.bulkUpdate)

	router.With(middleware.RequirePermissions(sec.PermOrderRead)).
		Get("/{id}", handler.get)
	router.With(middleware.RequirePermissions(sec.PermOrderUpdate)).
		Patch("/{id}", handler.update)
	router.With(
		middleware.RequireRoles(sec.RoleAdmin),
		middleware.RequirePermissions(sec.PermOrderDelete),
	).Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type orderItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type shippingAddressRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

type createOrderRequest struct {
	CustomerID      string                 `json:"customer_id"`
	Items           []orderItemRequest     `json:"items"`
	ShippingAddress shippingAddressRequest `json:"shipping_address"`
	ShippingFee     float64                `json:"shipping_fee"`
	Note            string                 `json:"note"`
}

type addressPatchRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postal_code"`
}

type updateOrderRequest struct {
	Status          *string              `json:"status"`
	ShippingAddress *addressPatchRequest `json:"shipping_address"`
	Note            *string              `json:"note"`
}

type bulkUpdateRequest struct {
	OrderIDs []string `json:"order_ids"`
	Status   string   `json:"status"`
}

/*
List returns a filtered, paginated view of orders.

GET /api/v1/orders?status=PENDING,CONFIRMED&customer_id=&start_date=&end_date=&min_total=&max_total=&sort_by=&sort_order=&page=&limit=

Description: Admins and sellers see every order. Customers are silently
restricted to their own: any customer_id filter they send is overridden.

Response:
  - 200: []Order with pagination metadata
  - 400: ErrValidation: Malformed filter values
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims.Role == sec.RoleCustomer {
		filter.CustomerID = claims.UserID()
	}

	result, meta, err := handler.orderService.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, meta)
}

/*
Get returns a single order.

GET /api/v1/orders/{id}

Response:
  - 200: Order
  - 403: ErrForbidden: Customer requesting a foreign order
  - 404: ErrNotFound: Unknown or deleted order
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orderService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims.Role == sec.RoleCustomer && order.CustomerID != claims.UserID() {
		respond.Error(writer, request, apperr.Forbidden("You can only view your own orders"))
		return
	}

	respond.OK(writer, order)
}

/*
Create places a new order.

POST /api/v1/orders

Description: Customers always order for themselves; any customer_id they
send is overridden with their own. Admins and sellers may place orders on a
customer's behalf.

Request:
  - Body: createOrderRequest

Response:
  - 201: Order: Persisted order with derived totals
  - 400: ErrValidation: Empty items, bad quantities, incomplete address
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if claims.Role == sec.RoleCustomer {
		input.CustomerID = claims.UserID()
	}

	validator := &validate.Validator{}
	validator.Required(FieldCustomerID, input.CustomerID).
		Custom(FieldItems, len(input.Items) == 0, "must contain at least one item").
		Custom("shipping_fee", input.ShippingFee < 0, "must not be negative")

	for _, item := range input.Items {
		validator.Required(FieldProductID, item.ProductID).
			Custom(FieldQuantity, item.Quantity < 1, "must be at least 1").
			Custom(FieldPrice, item.Price < 0, "must not be negative")
	}

	validator.Required(FieldName, input.ShippingAddress.Name).
		Required(FieldPhone, input.ShippingAddress.Phone).
		Required(FieldAddress, input.ShippingAddress.Address).
		Required(FieldProvince, input.ShippingAddress.Province).
		Required(FieldPostalCode, input.ShippingAddress.PostalCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.orderService.Create(request.Context(), CreateInput{
		CustomerID: input.CustomerID,
		Items: slice.Map(input.Items, func(item orderItemRequest) ItemInput {
			return ItemInput{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
		}),
		ShippingAddress: ShippingAddress{
			Name:       input.ShippingAddress.Name,
			Phone:      input.ShippingAddress.Phone,
			Address:    input.ShippingAddress.Address,
			Province:   input.ShippingAddress.Province,
			PostalCode: input.ShippingAddress.PostalCode,
		},
		ShippingFee: input.ShippingFee,
		Note:        input.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

/*
Update applies partial changes to an order.

PATCH /api/v1/orders/{id}

Description: Customers may only update their own orders, and only while the
order is still PENDING. Admins and sellers update any order, subject to the
workflow rules.

Request:
  - Body: updateOrderRequest

Response:
  - 200: Order: Updated order
  - 400: ErrBadRequest: Illegal status transition
  - 403: ErrForbidden: Foreign order or non-PENDING customer update
  - 404: ErrNotFound: Unknown or deleted order
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID := requestutil.ID(request, "id")

	order, err := handler.orderService.Get(request.Context(), orderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims.Role == sec.RoleCustomer {
		if order.CustomerID != claims.UserID() {
			respond.Error(writer, request, apperr.Forbidden("You can only update your own orders"))
			return
		}
		if order.Status != StatusPending {
			respond.Error(writer, request, apperr.Forbidden("You can only update orders with PENDING status"))
			return
		}
	}

	var input updateOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	serviceInput := UpdateInput{Note: input.Note}

	if input.Status != nil {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, *input.Status, knownStatuses()...)
		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		status := OrderStatus(*input.Status)
		serviceInput.Status = &status
	}

	if patch := input.ShippingAddress; patch != nil {
		serviceInput.ShippingAddress = &AddressPatch{
			Name:       patch.Name,
			Phone:      patch.Phone,
			Address:    patch.Address,
			Province:   patch.Province,
			PostalCode: patch.PostalCode,
		}
	}

	updated, err := handler.orderService.Update(request.Context(), orderID, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
BulkUpdate moves many orders to the same status.

PATCH /api/v1/orders/bulk

Request:
  - Body: bulkUpdateRequest (OrderIDs, Status)

Response:
  - 200: BulkResult: Success and failed partitions
  - 400: ErrValidation: Empty IDs or unknown status
  - 403: ErrForbidden: Caller is neither admin nor seller
*/
func (handler *Handler) bulkUpdate(writer http.ResponseWriter, request *http.Request) {
	var input bulkUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(FieldOrderIDs, len(input.OrderIDs) == 0, "must contain at least one order ID").
		Required(FieldStatus, input.Status).
		OneOf(FieldStatus, input.Status, knownStatuses()...)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.orderService.BulkUpdateStatus(request.Context(), input.OrderIDs, OrderStatus(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Remove soft-deletes an order.

DELETE /api/v1/orders/{id}

Response:
  - 204: No Content: Order deleted
  - 403: ErrForbidden: Caller is not an administrator
  - 404: ErrNotFound: Unknown or deleted order
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.orderService.Remove(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Query Parsing

// parseFilter extracts the listing filter from query parameters. Dates use
// RFC 3339 or plain YYYY-MM-DD; statuses accept a comma-separated list.
func parseFilter(request *http.Request) (Filter, error) {
	values := request.URL.Query()
	filter := Filter{
		CustomerID: values.Get(FieldCustomerID),
		SortBy:     values.Get(FieldSortBy),
		SortOrder:  values.Get(FieldSortOrder),
	}

	for _, raw := range query.StringSlice(values.Get(FieldStatus)) {
		status := OrderStatus(raw)
		if !status.IsValid() {
			return Filter{}, validate.RequiredError(FieldStatus, "unknown order status "+raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	startDate, err := parseDate(values.Get(FieldStartDate))
	if err != nil {
		return Filter{}, validate.RequiredError(FieldStartDate, "must be an ISO 8601 date")
	}
	filter.StartDate = startDate

	endDate, err := parseDate(values.Get(FieldEndDate))
	if err != nil {
		return Filter{}, validate.RequiredError(FieldEndDate, "must be an ISO 8601 date")
	}
	filter.EndDate = endDate

	// Malformed amounts read as 0 rather than rejecting the request.
	if raw := values.Get(FieldMinTotal); raw != "" {
		filter.MinTotal = pointer.To(convert.ToFloat64(raw))
	}
	if raw := values.Get(FieldMaxTotal); raw != "" {
		filter.MaxTotal = pointer.To(convert.ToFloat64(raw))
	}

	return filter, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, apperr.BadRequest("invalid date")
}

// knownStatuses returns the workflow states as strings for OneOf validation.
func knownStatuses() []string {
	return []string{
		string(StatusPending), string(StatusConfirmed), string(StatusProcessing),
		string(StatusShipped), string(StatusDelivered), string(StatusCancelled),
	}
}
