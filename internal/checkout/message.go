package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"buildkit-store/internal/domain"
)

// buildInvoiceMessage renders the order summary sent over the outbound
// contact link. Product names come from the catalog; a product that no
// longer resolves falls back to its identifier so the invoice still renders.
func (s *Service) buildInvoiceMessage(ctx context.Context, order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Invoice #%s\n\n", order.ID)

	b.WriteString("--- Customer Details ---\n")
	fmt.Fprintf(&b, "Name: %s\n", order.FullName())
	fmt.Fprintf(&b, "Email: %s\n", order.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", orDefault(order.PhoneNumber, "Not specified"))

	b.WriteString("--- Order Details ---\n")
	var subtotal int64
	for _, line := range order.Lines {
		name := line.ProductID
		if s.products != nil {
			if p, err := s.products.GetByID(ctx, line.ProductID); err == nil {
				name = p.Name
			}
		}
		fmt.Fprintf(&b, "Product: %s\n", name)
		fmt.Fprintf(&b, "Quantity: %d\n", line.Quantity)
		fmt.Fprintf(&b, "Price: %s %s\n", s.opts.Currency, formatCents(line.UnitPriceCents))
		fmt.Fprintf(&b, "Total: %s %s\n\n", s.opts.Currency, formatCents(line.LineTotalCents()))
		subtotal += line.LineTotalCents()
	}

	b.WriteString("--- Cart Totals ---\n")
	fmt.Fprintf(&b, "Subtotal: %s %s\n", s.opts.Currency, formatCents(subtotal))
	fmt.Fprintf(&b, "Delivery: %s %s\n", s.opts.Currency, formatCents(order.DeliveryCostCents))
	fmt.Fprintf(&b, "Total: %s %s\n\n", s.opts.Currency, formatCents(order.TotalCents()))

	b.WriteString("--- Delivery Details ---\n")
	fmt.Fprintf(&b, "Region: %s\n", order.Region)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "City: %s\n", order.City)
	fmt.Fprintf(&b, "Postal Code: %s\n", orDefault(order.PostalCode, "Not specified"))
	b.WriteString("Country: Ghana\n")
	fmt.Fprintf(&b, "Delivery Method: %s", titleCase(order.DeliveryMethod))

	return b.String()
}

// whatsAppURL builds the pre-filled outbound link for the fixed admin
// line. The link is constructed, never sent, by the server.
func (s *Service) whatsAppURL(message string) string {
	return "https://wa.me/" + s.opts.AdminPhoneNumber + "?text=" + url.QueryEscape(message)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func titleCase(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
