package domain

import (
	"regexp"
	"time"
)

// phonePattern matches international numbers: + then a 1-3 digit country
// code then 6-12 digits.
var phonePattern = regexp.MustCompile(`^\+\d{1,3}\d{6,12}$`)

// ValidPhoneNumber reports whether s is an international-format number.
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// Customer represents a registered user.
type Customer struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
