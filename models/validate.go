package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validatable is implemented by every payload the gateway decodes.
type Validatable interface {
	Validate() error
}

// ValidateAll validates each element and stops at the first failure.
func ValidateAll[T Validatable](items []T) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNew validates a payload that has not been assigned an id yet.
func ValidateNew(v any) error {
	return validate.StructExcept(v, "ID")
}
