package validator

import (
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateQuestionCreate validates question creation business rules
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		errors = append(errors, ValidationError{
			Field:   "priority",
			Message: "must be one of low, medium, high",
			Value:   req.Priority,
			Rule:    "question_priority",
		})
	}

	return errors
}

// ValidateRoleChange validates an admin role assignment.
func (bv *BusinessValidator) ValidateRoleChange(role models.UserRole) ValidationErrors {
	if !models.ValidRole(role) {
		return ValidationErrors{{
			Field:   "role",
			Message: "must be one of student, teacher, admin",
			Value:   role,
			Rule:    "user_role",
		}}
	}
	return nil
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(models.UserRole(fl.Field().String()))
	})

	bv.validate.RegisterValidation("question_category", func(fl validator.FieldLevel) bool {
		return models.ValidCategory(models.QuestionCategory(fl.Field().String()))
	})

	bv.validate.RegisterValidation("question_priority", func(fl validator.FieldLevel) bool {
		return models.ValidPriority(models.QuestionPriority(fl.Field().String()))
	})
}
