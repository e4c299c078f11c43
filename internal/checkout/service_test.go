package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"buildkit-store/internal/cart"
	"buildkit-store/internal/domain"
	"buildkit-store/internal/session"
)

type stubOrderRepo struct {
	created   []*domain.Order
	createErr error
}

func (s *stubOrderRepo) CreateWithLines(_ context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := order
	created.ID = "ord-1"
	created.Lines = make([]domain.OrderLine, 0, len(lines))
	for i, l := range lines {
		l.OrderID = created.ID
		l.ID = "line-" + string(rune('1'+i))
		created.Lines = append(created.Lines, l)
	}
	s.created = append(s.created, &created)
	return &created, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range s.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func testService(orders *stubOrderRepo) *Service {
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Portland Cement 50kg", PriceCents: 11500},
		"p2": {ID: "p2", Name: "Iron Rod 12mm", PriceCents: 9800},
	}}
	return New(orders, products, Options{
		FlatFeeCents:     10000,
		ExpressFeeCents:  25000,
		AdminPhoneNumber: "+233501234567",
		Currency:         "GHS",
	}, nil)
}

func guestDelivery() DeliveryInput {
	return DeliveryInput{
		Region:         "Greater Accra",
		Address:        "12 Spintex Road",
		City:           "Accra",
		DeliveryMethod: "flat",
		FirstName:      "Ama",
		LastName:       "Mensah",
		Email:          "ama@example.com",
		PhoneNumber:    "+233598670304",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)

	if _, err := svc.Checkout(context.Background(), sess, nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no order may be created for an empty cart")
	}
}

func TestCheckoutMissingFieldsCreatesNoOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)

	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 2, false); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := svc.Checkout(context.Background(), sess, nil)
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, f := range []string{"firstName", "lastName", "email", "address", "city", "region", "phoneNumber"} {
		if _, ok := fieldErrs[f]; !ok {
			t.Fatalf("expected error for field %s, got %v", f, fieldErrs)
		}
	}
	if len(orders.created) != 0 {
		t.Fatal("no order may be created when fields are missing")
	}
	if cart.New(sess).Len() != 1 {
		t.Fatal("cart must stay intact after an aborted checkout")
	}
}

func TestCheckoutGuestSuccess(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)
	ctx := context.Background()

	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 2, false); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if err := c.Add(domain.Product{ID: "p2", PriceCents: 9800}, 1, false); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	if err := svc.SetDelivery(sess, guestDelivery(), nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	conf, err := svc.Checkout(ctx, sess, nil)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if conf.OrderID != "ord-1" {
		t.Fatalf("expected order id ord-1, got %s", conf.OrderID)
	}

	if len(orders.created) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders.created))
	}
	order := orders.created[0]
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.DeliveryCostCents != 10000 {
		t.Fatalf("expected flat delivery cost 10000, got %d", order.DeliveryCostCents)
	}
	if order.TotalCents() != 2*11500+9800+10000 {
		t.Fatalf("unexpected order total %d", order.TotalCents())
	}
	if order.CustomerID != nil {
		t.Fatal("guest order must have no customer id")
	}
	if order.FirstName != "Ama" || order.PhoneNumber != "+233598670304" {
		t.Fatalf("unexpected identity on order: %+v", order)
	}

	// Cart and delivery preference are gone from the session.
	if cart.New(sess).Len() != 0 {
		t.Fatal("cart must be empty after checkout")
	}
	if DeliveryFromSession(sess).Region != "" {
		t.Fatal("delivery keys must be purged after checkout")
	}

	// A second checkout on the now-empty session reports the empty cart.
	if _, err := svc.Checkout(ctx, sess, nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart on re-checkout, got %v", err)
	}
}

func TestCheckoutConfirmationIsFireOnce(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)

	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 1, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetDelivery(sess, guestDelivery(), nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	if _, err := svc.Checkout(context.Background(), sess, nil); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	conf, ok := PopConfirmation(sess)
	if !ok {
		t.Fatal("expected staged confirmation")
	}
	if conf.OrderID != "ord-1" {
		t.Fatalf("expected ord-1, got %s", conf.OrderID)
	}
	if !strings.HasPrefix(conf.WhatsAppURL, "https://wa.me/+233501234567?text=") {
		t.Fatalf("unexpected whatsapp url: %s", conf.WhatsAppURL)
	}

	if _, ok := PopConfirmation(sess); ok {
		t.Fatal("confirmation must only be readable once")
	}
}

func TestCheckoutRepoFailureKeepsCart(t *testing.T) {
	orders := &stubOrderRepo{createErr: errors.New("db down")}
	svc := testService(orders)
	sess := session.New("s1", nil)

	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 2, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetDelivery(sess, guestDelivery(), nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	if _, err := svc.Checkout(context.Background(), sess, nil); err == nil {
		t.Fatal("expected checkout to fail")
	}
	if cart.New(sess).Len() != 1 {
		t.Fatal("cart must survive a failed order write")
	}
	if DeliveryFromSession(sess).Region != "Greater Accra" {
		t.Fatal("delivery preference must survive a failed order write")
	}
	if _, ok := PopConfirmation(sess); ok {
		t.Fatal("no confirmation may be staged after a failure")
	}
}

func TestCheckoutSnapshotPriceWins(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)

	// Snapshot taken at 11500; the catalog price the stub serves is
	// irrelevant to the order lines.
	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 1, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetDelivery(sess, guestDelivery(), nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	if _, err := svc.Checkout(context.Background(), sess, nil); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if orders.created[0].Lines[0].UnitPriceCents != 11500 {
		t.Fatalf("expected snapshot price on order line, got %d", orders.created[0].Lines[0].UnitPriceCents)
	}
}

func TestCheckoutAuthenticatedUsesProfile(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders)
	sess := session.New("s1", nil)
	phone := "+233501112223"
	customer := &domain.Customer{
		ID:          "cust-1",
		Username:    "kwame",
		Email:       "kwame@example.com",
		PhoneNumber: &phone,
		LastName:    "Osei",
	}

	c := cart.New(sess)
	if err := c.Add(domain.Product{ID: "p1", PriceCents: 11500}, 1, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	in := guestDelivery()
	in.FirstName, in.LastName, in.Email, in.PhoneNumber = "", "", "", ""
	if err := svc.SetDelivery(sess, in, customer); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	if _, err := svc.Checkout(context.Background(), sess, customer); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order := orders.created[0]
	if order.CustomerID == nil || *order.CustomerID != "cust-1" {
		t.Fatalf("expected order bound to customer, got %v", order.CustomerID)
	}
	// Empty profile first name falls back to the username.
	if order.FirstName != "kwame" || order.LastName != "Osei" {
		t.Fatalf("unexpected identity: %+v", order)
	}
	if order.Email != "kwame@example.com" || order.PhoneNumber != phone {
		t.Fatalf("unexpected contact fields: %+v", order)
	}
}
