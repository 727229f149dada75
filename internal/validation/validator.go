package validation

import (
	"reflect"
	"strings"
	"sync"

	"household-ledger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("member_role", validateMemberRole)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("member_filter", validateMemberFilter)

	// Decimals are validated as their float value so numeric tags apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s against its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// validatePositiveAmount validates that an amount is greater than 0
func validatePositiveAmount(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() > 0
	case reflect.String:
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	default:
		return false
	}
}

// validateTransactionType accepts credit or debit
func validateTransactionType(fl validator.FieldLevel) bool {
	return models.IsValidTransactionType(strings.ToLower(fl.Field().String()))
}

// validateMemberRole accepts admin or member
func validateMemberRole(fl validator.FieldLevel) bool {
	return models.IsValidRole(strings.ToLower(fl.Field().String()))
}

// validateCategoryType accepts credit, debit or both
func validateCategoryType(fl validator.FieldLevel) bool {
	return models.IsValidCategoryType(strings.ToLower(fl.Field().String()))
}

// validateMemberFilter accepts a member UUID or the literal "all"
func validateMemberFilter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == models.MemberFilterAll {
		return true
	}
	_, err := uuid.Parse(value)
	return err == nil
}
