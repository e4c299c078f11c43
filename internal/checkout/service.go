package checkout

import (
	"context"
	"fmt"
	"io"
	"log"

	"buildkit-store/internal/cart"
	"buildkit-store/internal/domain"
	orderrepo "buildkit-store/internal/repository/order"
	"buildkit-store/internal/session"
)

// Fire-once confirmation keys, deleted as soon as they are read.
const (
	keyWhatsAppURL = "whatsapp_url"
	keyOrderID     = "order_id"
)

type orderRepo interface {
	CreateWithLines(ctx context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Options configures delivery surcharges and the outbound contact line.
type Options struct {
	FlatFeeCents     int64
	ExpressFeeCents  int64
	AdminPhoneNumber string
	Currency         string
}

// Service coordinates delivery preferences and checkout materialization.
type Service struct {
	orders   orderRepo
	products productRepo
	opts     Options
	logger   *log.Logger
}

func New(orders orderrepo.Repository, products productRepo, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.Currency == "" {
		opts.Currency = "GHS"
	}
	return &Service{orders: orders, products: products, opts: opts, logger: logger}
}

// Confirmation is the payload handed to the confirmation page after a
// successful checkout. It is held in the session read-once and is not part
// of the persisted order.
type Confirmation struct {
	OrderID     string `json:"orderId"`
	Message     string `json:"message,omitempty"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// Checkout materializes the session cart into a durable order. Guards are
// checked in order and any failure aborts with no side effect: the cart
// must be non-empty and all required customer fields must resolve. Order
// and order lines are written in one transaction; on success the cart and
// delivery keys are purged and the confirmation payload is staged.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, customer *domain.Customer) (*Confirmation, error) {
	state := StateNoDelivery
	c := cart.New(sess)
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	delivery := DeliveryFromSession(sess)
	identity := resolveIdentity(delivery, customer)
	if errs := requireOrderFields(delivery, identity, customer == nil); len(errs) > 0 {
		return nil, errs
	}
	state = StateDeliverySet

	order := domain.Order{
		FirstName:         identity.firstName,
		LastName:          identity.lastName,
		Email:             identity.email,
		PhoneNumber:       identity.phoneNumber,
		Region:            delivery.Region,
		Address:           delivery.Address,
		City:              delivery.City,
		PostalCode:        delivery.PostalCode,
		DeliveryMethod:    delivery.DeliveryMethod,
		DeliveryCostCents: delivery.CostCents,
		Paid:              false,
		Status:            domain.OrderStatusPending,
	}
	if customer != nil {
		order.CustomerID = &customer.ID
	}

	lines := make([]domain.OrderLine, 0, c.Len())
	for _, l := range c.Lines() {
		lines = append(lines, domain.OrderLine{
			ProductID:      l.ProductID,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
		})
	}

	created, err := s.orders.CreateWithLines(ctx, order, lines)
	if err != nil {
		// The transaction rolled back as a unit; the cart stays intact so
		// the attempt is retryable.
		s.logger.Printf("checkout: create order failed at %s: %v", state, err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	state = StateOrderItemsCreated

	message := s.buildInvoiceMessage(ctx, created)

	c.Clear()
	for _, key := range deliveryKeys {
		sess.Delete(key)
	}
	if remaining := cart.New(sess); remaining.Len() != 0 {
		s.logger.Printf("checkout: order %s created but cart clear left %d lines", created.ID, remaining.Len())
		return nil, ErrSessionNotCleared
	}
	state = StateSessionCleared

	conf := &Confirmation{
		OrderID:     created.ID,
		Message:     message,
		WhatsAppURL: s.whatsAppURL(message),
	}
	if err := sess.Set(keyWhatsAppURL, conf.WhatsAppURL); err != nil {
		return nil, err
	}
	if err := sess.Set(keyOrderID, conf.OrderID); err != nil {
		return nil, err
	}
	s.logger.Printf("checkout: order %s created, state=%s", created.ID, state)
	return conf, nil
}

// PopConfirmation returns and deletes the staged confirmation payload.
// The second call after a checkout reports false.
func PopConfirmation(sess *session.Session) (Confirmation, bool) {
	rawURL, ok := sess.Pop(keyWhatsAppURL)
	if !ok {
		return Confirmation{}, false
	}
	url, _ := rawURL.(string)
	var orderID string
	if rawID, ok := sess.Pop(keyOrderID); ok {
		orderID, _ = rawID.(string)
	}
	return Confirmation{OrderID: orderID, WhatsAppURL: url}, true
}

type orderIdentity struct {
	firstName   string
	lastName    string
	email       string
	phoneNumber string
}

// resolveIdentity picks customer identity for the order: the account
// profile for authenticated visitors, the session-held guest fields
// otherwise.
func resolveIdentity(delivery Delivery, customer *domain.Customer) orderIdentity {
	if customer == nil {
		return orderIdentity{
			firstName:   delivery.FirstName,
			lastName:    delivery.LastName,
			email:       delivery.Email,
			phoneNumber: delivery.PhoneNumber,
		}
	}
	id := orderIdentity{
		firstName: customer.FirstName,
		lastName:  customer.LastName,
		email:     customer.Email,
	}
	if id.firstName == "" {
		id.firstName = customer.Username
	}
	if customer.PhoneNumber != nil {
		id.phoneNumber = *customer.PhoneNumber
	}
	return id
}

func requireOrderFields(delivery Delivery, identity orderIdentity, guest bool) FieldErrors {
	errs := FieldErrors{}
	if identity.firstName == "" {
		errs["firstName"] = "first name required"
	}
	if identity.lastName == "" {
		errs["lastName"] = "last name required"
	}
	if identity.email == "" {
		errs["email"] = "email required"
	}
	if delivery.Address == "" {
		errs["address"] = "address required"
	}
	if delivery.City == "" {
		errs["city"] = "city required"
	}
	if delivery.Region == "" {
		errs["region"] = "region required"
	}
	if guest && identity.phoneNumber == "" {
		errs["phoneNumber"] = "phone number required"
	}
	return errs
}
