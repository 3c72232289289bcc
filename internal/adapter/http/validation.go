package http

import (
	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "es obligatorio"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "debe ser un email válido"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "debe ser uno de: " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "debe ser mayor o igual a " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "debe ser menor o igual a " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: "no cumple la regla " + e.Tag()})
		}
	}
	return out
}
