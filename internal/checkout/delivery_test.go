package checkout

import (
	"errors"
	"testing"

	"buildkit-store/internal/domain"
	"buildkit-store/internal/session"
)

func TestSetDeliveryStoresPreference(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)

	if err := svc.SetDelivery(sess, guestDelivery(), nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	d := DeliveryFromSession(sess)
	if d.Country != "GH" {
		t.Fatalf("expected country GH, got %q", d.Country)
	}
	if d.Region != "Greater Accra" || d.City != "Accra" {
		t.Fatalf("unexpected delivery: %+v", d)
	}
	if d.DeliveryMethod != domain.DeliveryMethodFlat || d.CostCents != 10000 {
		t.Fatalf("expected flat delivery at 10000, got %s %d", d.DeliveryMethod, d.CostCents)
	}
	if d.FirstName != "Ama" || d.PhoneNumber != "+233598670304" {
		t.Fatalf("expected guest identity stored, got %+v", d)
	}
}

func TestSetDeliveryDefaultsToFreeMethod(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)

	in := guestDelivery()
	in.DeliveryMethod = ""
	if err := svc.SetDelivery(sess, in, nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	d := DeliveryFromSession(sess)
	if d.DeliveryMethod != domain.DeliveryMethodFree || d.CostCents != 0 {
		t.Fatalf("expected free delivery at 0, got %s %d", d.DeliveryMethod, d.CostCents)
	}
}

func TestSetDeliveryExpressCost(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)

	in := guestDelivery()
	in.DeliveryMethod = domain.DeliveryMethodExpress
	if err := svc.SetDelivery(sess, in, nil); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	if d := DeliveryFromSession(sess); d.CostCents != 25000 {
		t.Fatalf("expected express cost 25000, got %d", d.CostCents)
	}
}

func TestSetDeliveryRejectsUnknownRegion(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)

	in := guestDelivery()
	in.Region = "Atlantis"
	err := svc.SetDelivery(sess, in, nil)

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fieldErrs["region"]; !ok {
		t.Fatalf("expected region error, got %v", fieldErrs)
	}
	// A failed submission writes nothing to the session.
	if len(sess.Keys()) != 0 {
		t.Fatalf("session must stay unchanged, got keys %v", sess.Keys())
	}
}

func TestSetDeliveryValidatesGuestFields(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)

	in := guestDelivery()
	in.FirstName = ""
	in.Email = "not-an-email"
	in.PhoneNumber = "0598670304"
	err := svc.SetDelivery(sess, in, nil)

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, f := range []string{"firstName", "email", "phoneNumber"} {
		if _, ok := fieldErrs[f]; !ok {
			t.Fatalf("expected error for %s, got %v", f, fieldErrs)
		}
	}
}

func TestSetDeliverySkipsGuestFieldsForCustomers(t *testing.T) {
	svc := testService(&stubOrderRepo{})
	sess := session.New("s1", nil)
	customer := &domain.Customer{ID: "cust-1", Username: "kwame", Email: "kwame@example.com"}

	in := guestDelivery()
	in.FirstName, in.LastName, in.Email, in.PhoneNumber = "", "", "", ""
	if err := svc.SetDelivery(sess, in, customer); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	if d := DeliveryFromSession(sess); d.FirstName != "" {
		t.Fatalf("customer delivery must not store guest identity, got %+v", d)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := FieldErrors{"region": "region required", "city": "city required"}
	want := "invalid fields: city: city required; region: region required"
	if errs.Error() != want {
		t.Fatalf("got %q, want %q", errs.Error(), want)
	}
}
