package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"buildkit-store/internal/domain"
	custrepo "buildkit-store/internal/repository/customer"
	tokenrepo "buildkit-store/internal/repository/token"
	"buildkit-store/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// codeValidity is the window a verification code stays valid for.
const codeValidity = 600 * time.Second

// Session keys used by the registration flow.
const (
	keyRegistration  = "registration_data"
	keyCode          = "verification_code"
	keyCodeCreatedAt = "verification_code_created_at"
)

var registrationKeys = []string{keyRegistration, keyCode, keyCodeCreatedAt}

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCode is returned when the submitted verification code does
	// not match the one issued.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeExpired is returned when the verification code outlived its
	// validity window.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrNoRegistration indicates verification was attempted without a
	// pending registration in the session.
	ErrNoRegistration = errors.New("no registration in progress")
)

// Service handles registration with phone verification, login, and token
// lookups.
type Service struct {
	repo        custrepo.Repository
	tokens      *tokenManager
	sender      Sender
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
	now         func() time.Time
	newCode     func() (string, error)
}

// New creates a Service with sane defaults.
func New(repo custrepo.Repository, tokens tokenrepo.Repository, sender Sender) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		sender:      sender,
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
		now:         time.Now,
		newCode:     randomCode,
	}
}

// RegistrationInput captures the initial registration form.
type RegistrationInput struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// BeginRegistration validates the form, parks the pending registration in
// the session, and dispatches a verification code. No customer row is
// created until the code is verified.
func (s *Service) BeginRegistration(ctx context.Context, sess *session.Session, in RegistrationInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if in.Username == "" {
		return errors.New("username required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return errors.New("valid email required")
	}
	if !domain.ValidPhoneNumber(in.PhoneNumber) {
		return errors.New("phone number must be in international format, e.g. +233598670304")
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return err
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return errors.New("username already taken")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if _, err := s.repo.GetByPhone(ctx, in.PhoneNumber); err == nil {
		return errors.New("phone number already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// The raw password never enters the session; only the hash does.
	if err := sess.Set(keyRegistration, map[string]interface{}{
		"username":      in.Username,
		"first_name":    strings.TrimSpace(in.FirstName),
		"last_name":     strings.TrimSpace(in.LastName),
		"email":         in.Email,
		"phone_number":  in.PhoneNumber,
		"password_hash": string(hashed),
	}); err != nil {
		return err
	}
	return s.issueCode(ctx, sess, in.PhoneNumber)
}

// ResendCode issues a fresh verification code for the pending
// registration, restarting the validity window.
func (s *Service) ResendCode(ctx context.Context, sess *session.Session) error {
	reg, ok := pendingRegistration(sess)
	if !ok {
		return ErrNoRegistration
	}
	return s.issueCode(ctx, sess, reg.phoneNumber)
}

// VerifyRegistration checks the submitted code against the session-held
// one, enforces the validity window, and only then creates the customer.
// The registration keys are purged on success.
func (s *Service) VerifyRegistration(ctx context.Context, sess *session.Session, code string) (*domain.Customer, error) {
	reg, ok := pendingRegistration(sess)
	if !ok {
		return nil, ErrNoRegistration
	}
	want := sess.GetString(keyCode)
	if want == "" || strings.TrimSpace(code) != want {
		return nil, ErrInvalidCode
	}
	createdAt := sess.GetInt64(keyCodeCreatedAt)
	if createdAt == 0 || s.now().Unix()-createdAt > int64(codeValidity.Seconds()) {
		return nil, ErrCodeExpired
	}

	phone := reg.phoneNumber
	created, err := s.repo.Create(ctx, domain.Customer{
		Username:     reg.username,
		FirstName:    reg.firstName,
		LastName:     reg.lastName,
		Email:        reg.email,
		PhoneNumber:  &phone,
		PasswordHash: reg.passwordHash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, errors.New("username or phone number already registered")
		}
		return nil, err
	}
	for _, key := range registrationKeys {
		sess.Delete(key)
	}
	return created, nil
}

// Login validates credentials and returns issued tokens plus the customer.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Customer, string, string, error) {
	c, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, c.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, c.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return c, access, refresh, nil
}

// LookupByToken returns the customer bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, meta.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func (s *Service) issueCode(ctx context.Context, sess *session.Session, phoneNumber string) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	if err := sess.Set(keyCode, code); err != nil {
		return err
	}
	if err := sess.Set(keyCodeCreatedAt, s.now().Unix()); err != nil {
		return err
	}
	return s.sender.Send(ctx, phoneNumber, code)
}

type registration struct {
	username     string
	firstName    string
	lastName     string
	email        string
	phoneNumber  string
	passwordHash string
}

func pendingRegistration(sess *session.Session) (registration, bool) {
	raw, ok := sess.Get(keyRegistration)
	if !ok {
		return registration{}, false
	}
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return registration{}, false
	}
	get := func(key string) string {
		s, _ := entry[key].(string)
		return s
	}
	reg := registration{
		username:     get("username"),
		firstName:    get("first_name"),
		lastName:     get("last_name"),
		email:        get("email"),
		phoneNumber:  get("phone_number"),
		passwordHash: get("password_hash"),
	}
	if reg.username == "" || reg.phoneNumber == "" || reg.passwordHash == "" {
		return registration{}, false
	}
	return reg, true
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
