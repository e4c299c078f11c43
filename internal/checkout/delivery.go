package checkout

import (
	"strings"

	"buildkit-store/internal/domain"
	"buildkit-store/internal/session"
)

// Session keys the delivery preference lives under. All values are plain
// strings or int64 so the session always serializes cleanly.
const (
	keyDeliveryCountry = "delivery_country"
	keyRegion          = "region"
	keyAddress         = "address"
	keyCity            = "city"
	keyPostalCode      = "postal_code"
	keyDeliveryMethod  = "delivery_method"
	keyDeliveryCost    = "delivery_cost_cents"
	keyFirstName       = "first_name"
	keyLastName        = "last_name"
	keyEmail           = "email"
	keyPhoneNumber     = "phone_number"
)

var deliveryKeys = []string{
	keyDeliveryCountry,
	keyRegion,
	keyAddress,
	keyCity,
	keyPostalCode,
	keyDeliveryMethod,
	keyDeliveryCost,
	keyFirstName,
	keyLastName,
	keyEmail,
	keyPhoneNumber,
}

// DeliveryInput is the delivery-preferences form submission.
type DeliveryInput struct {
	Region         string `json:"region"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	DeliveryMethod string `json:"deliveryMethod"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
}

// SetDelivery validates the submitted preferences and writes them into the
// session. Personal fields are required for guests; authenticated visitors
// fall back to their profile at checkout. A validation failure leaves the
// session unchanged.
func (s *Service) SetDelivery(sess *session.Session, in DeliveryInput, customer *domain.Customer) error {
	in.Region = strings.TrimSpace(in.Region)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.DeliveryMethod = strings.TrimSpace(in.DeliveryMethod)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	errs := FieldErrors{}
	if in.Region == "" {
		errs["region"] = "region required"
	} else if !domain.ValidDeliveryRegion(in.Region) {
		errs["region"] = "unknown region"
	}
	if in.Address == "" {
		errs["address"] = "address required"
	}
	if in.City == "" {
		errs["city"] = "city required"
	}
	if in.DeliveryMethod == "" {
		in.DeliveryMethod = domain.DeliveryMethodFree
	} else if !domain.ValidDeliveryMethod(in.DeliveryMethod) {
		errs["deliveryMethod"] = "unknown delivery method"
	}

	if customer == nil {
		if in.FirstName == "" {
			errs["firstName"] = "first name required"
		}
		if in.LastName == "" {
			errs["lastName"] = "last name required"
		}
		if in.Email == "" {
			errs["email"] = "email required"
		} else if !strings.Contains(in.Email, "@") {
			errs["email"] = "invalid email"
		}
		if in.PhoneNumber == "" {
			errs["phoneNumber"] = "phone number required"
		} else if !domain.ValidPhoneNumber(in.PhoneNumber) {
			errs["phoneNumber"] = "phone number must be in international format, e.g. +233598670304"
		}
	} else if in.PhoneNumber != "" && !domain.ValidPhoneNumber(in.PhoneNumber) {
		errs["phoneNumber"] = "phone number must be in international format, e.g. +233598670304"
	}

	if len(errs) > 0 {
		return errs
	}

	cost := s.deliveryCost(in.DeliveryMethod)

	// Session writes only happen once validation passed in full.
	values := map[string]interface{}{
		keyDeliveryCountry: "GH",
		keyRegion:          in.Region,
		keyAddress:         in.Address,
		keyCity:            in.City,
		keyPostalCode:      in.PostalCode,
		keyDeliveryMethod:  in.DeliveryMethod,
		keyDeliveryCost:    cost,
	}
	if customer == nil {
		values[keyFirstName] = in.FirstName
		values[keyLastName] = in.LastName
		values[keyEmail] = in.Email
		values[keyPhoneNumber] = in.PhoneNumber
	}
	for key, value := range values {
		if err := sess.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Delivery is the read-back of the session-held preference for rendering
// the cart view.
type Delivery struct {
	Country        string `json:"country"`
	Region         string `json:"region"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	DeliveryMethod string `json:"deliveryMethod"`
	CostCents      int64  `json:"costCents"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
}

// DeliveryFromSession reads the stored preference, defaulting to free
// delivery when nothing was set.
func DeliveryFromSession(sess *session.Session) Delivery {
	method := sess.GetString(keyDeliveryMethod)
	if method == "" {
		method = domain.DeliveryMethodFree
	}
	return Delivery{
		Country:        sess.GetString(keyDeliveryCountry),
		Region:         sess.GetString(keyRegion),
		Address:        sess.GetString(keyAddress),
		City:           sess.GetString(keyCity),
		PostalCode:     sess.GetString(keyPostalCode),
		DeliveryMethod: method,
		CostCents:      sess.GetInt64(keyDeliveryCost),
		FirstName:      sess.GetString(keyFirstName),
		LastName:       sess.GetString(keyLastName),
		Email:          sess.GetString(keyEmail),
		PhoneNumber:    sess.GetString(keyPhoneNumber),
	}
}

func (s *Service) deliveryCost(method string) int64 {
	switch method {
	case domain.DeliveryMethodFlat:
		return s.opts.FlatFeeCents
	case domain.DeliveryMethodExpress:
		return s.opts.ExpressFeeCents
	}
	return 0
}
