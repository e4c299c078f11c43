package domain

import "testing"

func TestOrderTotalCents(t *testing.T) {
	order := Order{
		DeliveryCostCents: 10000,
		Lines: []OrderLine{
			{UnitPriceCents: 11500, Quantity: 2},
			{UnitPriceCents: 9800, Quantity: 1},
		},
	}
	if got := order.TotalCents(); got != 42800 {
		t.Fatalf("TotalCents = %d, want 42800", got)
	}
}

func TestOrderTotalCentsNoLines(t *testing.T) {
	order := Order{DeliveryCostCents: 10000}
	if got := order.TotalCents(); got != 10000 {
		t.Fatalf("TotalCents = %d, want 10000", got)
	}
}

func TestValidDeliveryRegion(t *testing.T) {
	if len(DeliveryRegions) != 16 {
		t.Fatalf("expected 16 regions, got %d", len(DeliveryRegions))
	}
	if !ValidDeliveryRegion("Greater Accra") {
		t.Fatal("Greater Accra must be valid")
	}
	if ValidDeliveryRegion("greater accra") {
		t.Fatal("region match is case sensitive")
	}
	if ValidDeliveryRegion("Atlantis") {
		t.Fatal("unknown region must be invalid")
	}
}

func TestValidDeliveryMethod(t *testing.T) {
	for _, m := range []string{DeliveryMethodFree, DeliveryMethodFlat, DeliveryMethodExpress} {
		if !ValidDeliveryMethod(m) {
			t.Fatalf("%s must be valid", m)
		}
	}
	if ValidDeliveryMethod("drone") {
		t.Fatal("unknown method must be invalid")
	}
}
