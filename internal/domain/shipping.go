package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ShippingForm is the customer data captured at checkout and copied onto the
// order.
type ShippingForm struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Email     string `json:"email" validate:"email"`
	Phone     string `json:"phone" validate:"min=9"`
	Address   string `json:"address" validate:"min=5"`
	City      string `json:"city" validate:"min=2"`
	ZipCode   string `json:"zipCode" validate:"min=4"`
}

// SignUpForm is validated after Username has been trimmed.
type SignUpForm struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6"`
	Username string `json:"username" validate:"min=3"`
}

var fieldMessages = map[string]string{
	"firstName":     "First name must be at least 2 characters",
	"lastName":      "Last name must be at least 2 characters",
	"email":         "Invalid email address",
	"phone":         "Invalid phone number",
	"address":       "Address must be at least 5 characters",
	"city":          "City must be at least 2 characters",
	"zipCode":       "Zip code must be at least 4 characters",
	"password":      "Password must be at least 6 characters long",
	"username":      "Username must be at least 3 characters",
	"date_of_birth": "Date of birth must be formatted as YYYY-MM-DD",
	"avatar_url":    "Avatar must be a valid URL",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the form field by field in declaration order and reports
// the first failing field.
func (f ShippingForm) Validate() error {
	return validateStruct(f)
}

func (f *SignUpForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return validateStruct(f)
}

func (c ProfileChanges) Validate() error {
	return validateStruct(c)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		msg, ok := fieldMessages[field]
		if !ok {
			msg = "Invalid value"
		}
		return &ValidationError{Field: field, Message: msg}
	}
	return err
}
