// Package validation checks staged contact fields. It is pure: callers decide
// what a failed check does to UI state.
package validation

import (
	"regexp"
	"strings"
)

// Field names an editable contact field.
type Field int

const (
	FirstName Field = iota
	LastName
	Email
	Phone
	ImagePath
)

// allFields lists every editable field in display order.
var allFields = []Field{FirstName, LastName, Email, Phone, ImagePath}

func (f Field) String() string {
	switch f {
	case FirstName:
		return "first name"
	case LastName:
		return "last name"
	case Email:
		return "email"
	case Phone:
		return "phone"
	case ImagePath:
		return "image path"
	default:
		return "unknown"
	}
}

const (
	MsgRequired      = "required"
	MsgInvalidFormat = "invalid format"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()./\-]+$`)
)

const (
	minPhoneDigits = 6
	maxPhoneDigits = 15
)

// Fields is the staged, not yet committed, editable state of a contact.
type Fields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	ImagePath string
}

// Get returns the value of a single field.
func (fs Fields) Get(f Field) string {
	switch f {
	case FirstName:
		return fs.FirstName
	case LastName:
		return fs.LastName
	case Email:
		return fs.Email
	case Phone:
		return fs.Phone
	case ImagePath:
		return fs.ImagePath
	}
	return ""
}

// With returns a copy with one field replaced.
func (fs Fields) With(f Field, value string) Fields {
	switch f {
	case FirstName:
		fs.FirstName = value
	case LastName:
		fs.LastName = value
	case Email:
		fs.Email = value
	case Phone:
		fs.Phone = value
	case ImagePath:
		fs.ImagePath = value
	}
	return fs
}

// FieldErrors maps an offending field to its message.
type FieldErrors map[Field]string

func (e FieldErrors) Valid() bool { return len(e) == 0 }

// Joined renders every error in field order, e.g.
// "first name: required; email: invalid format".
func (e FieldErrors) Joined() string {
	parts := make([]string, 0, len(e))
	for _, f := range allFields {
		if msg, ok := e[f]; ok {
			parts = append(parts, f.String()+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ValidateField checks one field and returns its message, or "" when valid.
func ValidateField(f Field, value string) string {
	v := strings.TrimSpace(value)
	switch f {
	case FirstName, LastName:
		if v == "" {
			return MsgRequired
		}
	case Email:
		if v != "" && !emailPattern.MatchString(v) {
			return MsgInvalidFormat
		}
	case Phone:
		if v != "" && !validPhone(v) {
			return MsgInvalidFormat
		}
	}
	return ""
}

// Validate checks every field and returns all errors found.
func Validate(fs Fields) FieldErrors {
	errs := FieldErrors{}
	for _, f := range allFields {
		if msg := ValidateField(f, fs.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func validPhone(v string) bool {
	if !phonePattern.MatchString(v) {
		return false
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}
