package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct validation plus the business rules used by the
// service layer.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		validate: business.validate,
		business: business,
	}
}

// Validate runs struct-tag validation and returns ValidationErrors on
// failure, nil otherwise.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator exposes rule sets that need more context than
// struct tags carry.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
