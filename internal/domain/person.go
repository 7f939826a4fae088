package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Person is a single contact.
type Person struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	FirstName string    `json:"firstName" yaml:"first_name"`
	LastName  string    `json:"lastName" yaml:"last_name"`
	Email     *string   `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	ImagePath *string   `json:"imagePath,omitempty" yaml:"image_path,omitempty"`
}

// NewPerson returns a person with a freshly generated identity.
func NewPerson(firstName, lastName string) Person {
	return Person{ID: uuid.New(), FirstName: firstName, LastName: lastName}
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Optional converts a blank string to nil and keeps anything else verbatim.
func Optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
