package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func valid() Fields {
	return Fields{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.org",
		Phone:     "+44 (20) 7946-0958",
	}
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	require.True(t, Validate(valid()).Valid())

	optional := Fields{FirstName: "Ada", LastName: "Lovelace"}
	require.True(t, Validate(optional).Valid())
}

func TestValidateReportsOnlyBlankNames(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
		want   FieldErrors
	}{
		{"first blank", valid().With(FirstName, "   "), FieldErrors{FirstName: MsgRequired}},
		{"last blank", valid().With(LastName, ""), FieldErrors{LastName: MsgRequired}},
		{"both blank", valid().With(FirstName, "").With(LastName, "\t"), FieldErrors{FirstName: MsgRequired, LastName: MsgRequired}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Validate(tc.fields))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"", "  ", "a@b.io", "first.last+tag@mail.example.com"} {
		require.Empty(t, ValidateField(Email, ok), ok)
	}
	for _, bad := range []string{"ada", "ada@", "@example.org", "ada@example", "ada @example.org"} {
		require.Equal(t, MsgInvalidFormat, ValidateField(Email, bad), bad)
	}
}

func TestValidatePhone(t *testing.T) {
	for _, ok := range []string{"", "0171 1234567", "+49-171-1234567", "(030) 123.456"} {
		require.Empty(t, ValidateField(Phone, ok), ok)
	}
	for _, bad := range []string{"12345", "call me", "+49 171 1234567 1234567", "12a4567"} {
		require.Equal(t, MsgInvalidFormat, ValidateField(Phone, bad), bad)
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	errs := Validate(Fields{Email: "nope", Phone: "x"})
	require.Len(t, errs, 4)
	require.Equal(t, "first name: required; last name: required; email: invalid format; phone: invalid format", errs.Joined())
}

func TestImagePathIsNeverRejected(t *testing.T) {
	require.Empty(t, ValidateField(ImagePath, ""))
	require.Empty(t, ValidateField(ImagePath, "/tmp/ada.png"))
}
