package domain

import "time"

// Order statuses. Pending orders move forward one step at a time;
// cancelled is terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	DeliveryMethodFree    = "free"
	DeliveryMethodFlat    = "flat"
	DeliveryMethodExpress = "express"
)

// DeliveryRegions are the regions the store delivers to.
var DeliveryRegions = []string{
	"Ahafo",
	"Ashanti",
	"Bono",
	"Bono East",
	"Central",
	"Eastern",
	"Greater Accra",
	"North East",
	"Northern",
	"Oti",
	"Savannah",
	"Upper East",
	"Upper West",
	"Volta",
	"Western",
	"Western North",
}

// ValidDeliveryRegion reports whether region is one of DeliveryRegions.
func ValidDeliveryRegion(region string) bool {
	for _, r := range DeliveryRegions {
		if r == region {
			return true
		}
	}
	return false
}

// ValidDeliveryMethod reports whether method is a known delivery method.
func ValidDeliveryMethod(method string) bool {
	switch method {
	case DeliveryMethodFree, DeliveryMethodFlat, DeliveryMethodExpress:
		return true
	}
	return false
}

// Order is the durable record created at checkout. CustomerID is nil for
// guest checkouts; identity fields are always snapshotted onto the order.
type Order struct {
	ID                string      `json:"id"`
	CustomerID        *string     `json:"customerId,omitempty"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Email             string      `json:"email"`
	PhoneNumber       string      `json:"phoneNumber,omitempty"`
	Region            string      `json:"region"`
	Address           string      `json:"address"`
	City              string      `json:"city"`
	PostalCode        string      `json:"postalCode,omitempty"`
	DeliveryMethod    string      `json:"deliveryMethod"`
	DeliveryCostCents int64       `json:"deliveryCostCents"`
	Paid              bool        `json:"paid"`
	Status            string      `json:"status"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	Lines             []OrderLine `json:"lines,omitempty"`
}

// OrderLine is one product in an order, priced at the cart's snapshot
// price taken when the product was added, not the catalog's live price.
type OrderLine struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	ProductID      string    `json:"productId"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LineTotalCents returns quantity times the snapshot unit price.
func (l OrderLine) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// TotalCents returns the sum of line totals plus the delivery cost.
func (o Order) TotalCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.LineTotalCents()
	}
	return total + o.DeliveryCostCents
}

// FullName joins the customer name fields as shown on invoices.
func (o Order) FullName() string {
	return o.FirstName + " " + o.LastName
}
