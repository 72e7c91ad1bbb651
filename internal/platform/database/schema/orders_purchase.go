// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// OrderPurchaseTable represents the 'orders.purchase' table
type OrderPurchaseTable struct {
	Table           string
	ID              string
	CustomerID      string
	Items           string
	Subtotal        string
	ShippingFee     string
	Total           string
	Status          string
	ShippingAddress string
	Note            string
	CreatedAt       string
	UpdatedAt       string
	DeletedAt       string
}

// OrderPurchase is the schema definition for orders.purchase
var OrderPurchase = OrderPurchaseTable{
	Table:           "orders.purchase",
	ID:              "id",
	CustomerID:      "customerid",
	Items:           "items",
	Subtotal:        "subtotal",
	ShippingFee:     "shippingfee",
	Total:           "total",
	Status:          "status",
	ShippingAddress: "shippingaddress",
	Note:            "note",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	DeletedAt:       "deletedat",
}

// Columns returns all standard column names
func (t OrderPurchaseTable) Columns() []string {
	return []string{
		t.ID, t.CustomerID, t.Items, t.Subtotal, t.ShippingFee, t.Total,
		t.Status, t.ShippingAddress, t.Note, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
