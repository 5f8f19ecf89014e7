package domain

import (
	"fmt"
	"math"
	"time"
)

// SalesTaxPerMille is the purchase-order tax rate (8.5%).
const SalesTaxPerMille = 85

type POItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

type PurchaseOrder struct {
	ID              string              `json:"id"`
	Vendor          string              `json:"vendor"`
	Project         string              `json:"project,omitempty"`
	ProjectID       string              `json:"projectId"`
	Status          PurchaseOrderStatus `json:"status"`
	Amount          float64             `json:"amount"`
	DeliveryDate    string              `json:"deliveryDate,omitempty"`
	CreatedAt       string              `json:"createdAt,omitempty"`
	ShippingAddress string              `json:"shippingAddress,omitempty"`
	BillingAddress  string              `json:"billingAddress,omitempty"`
	PaymentTerms    string              `json:"paymentTerms,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Items           []POItem            `json:"items"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
}

func (po *PurchaseOrder) EntityID() string      { return po.ID }
func (po *PurchaseOrder) SetEntityID(id string) { po.ID = id }

func (po *PurchaseOrder) Stamp(now time.Time, creating bool) {
	if creating && po.CreatedAt == "" {
		po.CreatedAt = now.Format(DateLayout)
	}
}

// Normalize prices the line items and recomputes subtotal, tax and total.
func (po *PurchaseOrder) Normalize() error {
	if err := firstErr(
		required("vendor", po.Vendor),
		nonNegative("amount", po.Amount),
		optionalDate("deliveryDate", po.DeliveryDate),
		checkStatus(&po.Status, POPending, POPending, POApproved, PODelivered, POCancelled),
	); err != nil {
		return err
	}
	if po.Items == nil {
		po.Items = []POItem{}
	}
	var subtotal float64
	for i := range po.Items {
		it := &po.Items[i]
		field := fmt.Sprintf("items[%d]", i)
		if err := firstErr(
			nonNegative(field+".quantity", it.Quantity),
			nonNegative(field+".unitPrice", it.UnitPrice),
		); err != nil {
			return err
		}
		it.Total = Round2(it.Quantity * it.UnitPrice)
		subtotal += it.Total
	}
	po.Subtotal = Round2(subtotal)
	po.Tax = SalesTax(po.Subtotal)
	po.Total = Round2(po.Subtotal + po.Tax)
	return nil
}

// SalesTax returns the tax on subtotal rounded half away from zero to cents.
// The multiplication happens in integer cents so 8325 -> 707.63 exactly.
func SalesTax(subtotal float64) float64 {
	cents := math.Round(subtotal * 100)
	return math.Round(cents*SalesTaxPerMille/1000) / 100
}

type PurchaseOrderPatch struct {
	Vendor          *string
	Status          *PurchaseOrderStatus
	Amount          *float64
	DeliveryDate    *string
	ShippingAddress *string
	BillingAddress  *string
	PaymentTerms    *string
	Notes           *string
	Items           *[]POItem
}

func (pp PurchaseOrderPatch) Apply(po *PurchaseOrder) {
	assign(&po.Vendor, pp.Vendor)
	assign(&po.Status, pp.Status)
	assign(&po.Amount, pp.Amount)
	assign(&po.DeliveryDate, pp.DeliveryDate)
	assign(&po.ShippingAddress, pp.ShippingAddress)
	assign(&po.BillingAddress, pp.BillingAddress)
	assign(&po.PaymentTerms, pp.PaymentTerms)
	assign(&po.Notes, pp.Notes)
	assign(&po.Items, pp.Items)
}
