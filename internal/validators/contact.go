package validators

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

const (
	maxNameLen  = 100
	maxPhoneLen = 30
	maxEmailLen = 120
)

// IsEmailValid checks RFC 5322 syntax of a bare address.
func IsEmailValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// NormalizePhone keeps digits and a leading plus sign.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Client validates booking contact details and returns them normalised.
func Client(name, phone, email string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = NormalizePhone(phone)

	switch {
	case name == "":
		return "", "", "", httperr.ErrValidation("client_name", "required")
	case len(name) > maxNameLen:
		return "", "", "", httperr.ErrValidation("client_name", "too long")
	case len(phone) > maxPhoneLen:
		return "", "", "", httperr.ErrValidation("client_phone", "too long")
	case email != "" && (len(email) > maxEmailLen || !IsEmailValid(email)):
		return "", "", "", httperr.ErrValidation("client_email", "invalid")
	}

	return name, phone, email, nil
}
