// Package checkout covers the step between the cart and the remote store:
// validating the customer form and building the immutable order payload.
package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aarohi-jewels/storefront-api/models"
)

// Form carries the raw checkout fields as submitted.
type Form struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	Email   string `json:"email"`
}

// FieldError is one invalid field with its user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid field. The headline shown to the
// user is the first error's message; every listed field still gets marked.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// FieldNames lists the invalid fields in rule order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

var (
	nonDigits  = regexp.MustCompile(`\D`)
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate applies the field rules and either returns the cleaned-up
// customer record or a ValidationError carrying every failed field.
// Validation is synchronous; rules run in a stable order so the headline
// message is deterministic.
func Validate(form Form) (models.Customer, *ValidationError) {
	var errs []FieldError

	name := strings.TrimSpace(form.Name)
	if name == "" {
		errs = append(errs, FieldError{"name", "Please enter your name"})
	}

	mobile := nonDigits.ReplaceAllString(form.Mobile, "")
	if len(mobile) != 10 {
		errs = append(errs, FieldError{"mobile", "Mobile number must be exactly 10 digits"})
	}

	address := strings.TrimSpace(form.Address)
	if utf8.RuneCountInString(address) < 10 {
		errs = append(errs, FieldError{"address", "Please enter your full address (at least 10 characters)"})
	}

	pincode := nonDigits.ReplaceAllString(form.Pincode, "")
	if len(pincode) != 6 {
		errs = append(errs, FieldError{"pincode", "Pincode must be exactly 6 digits"})
	}

	email := strings.TrimSpace(form.Email)
	if email != "" && !emailShape.MatchString(email) {
		errs = append(errs, FieldError{"email", "Please enter a valid email address"})
	}

	if len(errs) > 0 {
		return models.Customer{}, &ValidationError{Fields: errs}
	}

	return models.Customer{
		Name:    name,
		Mobile:  mobile,
		Address: address,
		Pincode: pincode,
		Email:   email,
	}, nil
}
