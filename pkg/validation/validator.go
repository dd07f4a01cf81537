package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxPoresPerRequest = 1_000_000
	MaxKeyLength       = 100

	// Property keys are namespaced as pore.<name> or throat.<name>
	propKeyPattern = regexp.MustCompile(`^(pore|throat)\.[a-z][a-z0-9_]*$`)
)

func init() {
	validate = validator.New()
}

// BCRequest represents a request to apply a boundary condition set
type BCRequest struct {
	Kind   string    `yaml:"kind" validate:"required,oneof=value rate"`
	Pores  []int     `yaml:"pores" validate:"required,min=1"`
	Values []float64 `yaml:"values" validate:"required,min=1"`
}

// ValidateBCRequest validates a boundary condition request before it is
// handed to a solver's condition set
func ValidateBCRequest(req *BCRequest) error {
	if req == nil {
		return errors.New("boundary condition request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if len(req.Pores) > MaxPoresPerRequest {
		return fmt.Errorf("Pores: maximum %d pores per request, got %d", MaxPoresPerRequest, len(req.Pores))
	}
	if len(req.Values) != 1 && len(req.Values) != len(req.Pores) {
		return fmt.Errorf("Values: length must be 1 or %d, got %d", len(req.Pores), len(req.Values))
	}

	for i, p := range req.Pores {
		if p < 0 {
			return fmt.Errorf("Pores: negative pore index %d at position %d", p, i)
		}
	}
	for i, v := range req.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("Values: non-finite value at position %d", i)
		}
	}
	return nil
}

// ValidatePropertyKey validates a namespaced property key
func ValidatePropertyKey(key string) error {
	if key == "" {
		return errors.New("property key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("property key '%s' exceeds maximum length of %d characters", key, MaxKeyLength)
	}
	if !propKeyPattern.MatchString(key) {
		return fmt.Errorf("property key '%s' is invalid (must be pore.<name> or throat.<name> in lower snake case)", key)
	}
	return nil
}

// ValidateStruct runs struct-tag validation on any tagged value
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
