package validation

import (
	"math"
	"strings"
	"testing"
)

// TestValidateBCRequest tests boundary condition request validation
func TestValidateBCRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         *BCRequest
		expectError bool
	}{
		{
			name: "Valid broadcast value request",
			req: &BCRequest{
				Kind:   "value",
				Pores:  []int{0, 1, 2},
				Values: []float64{1.0},
			},
			expectError: false,
		},
		{
			name: "Valid per-pore rate request",
			req: &BCRequest{
				Kind:   "rate",
				Pores:  []int{3, 4},
				Values: []float64{1e-9, 2e-9},
			},
			expectError: false,
		},
		{
			name:        "Nil request",
			req:         nil,
			expectError: true,
		},
		{
			name: "Unknown kind",
			req: &BCRequest{
				Kind:   "neumann",
				Pores:  []int{0},
				Values: []float64{1.0},
			},
			expectError: true,
		},
		{
			name: "Empty pore list",
			req: &BCRequest{
				Kind:   "value",
				Pores:  []int{},
				Values: []float64{1.0},
			},
			expectError: true,
		},
		{
			name: "Value count mismatch",
			req: &BCRequest{
				Kind:   "value",
				Pores:  []int{0, 1, 2},
				Values: []float64{1.0, 2.0},
			},
			expectError: true,
		},
		{
			name: "Negative pore index",
			req: &BCRequest{
				Kind:   "value",
				Pores:  []int{0, -3},
				Values: []float64{1.0},
			},
			expectError: true,
		},
		{
			name: "NaN value",
			req: &BCRequest{
				Kind:   "value",
				Pores:  []int{0},
				Values: []float64{math.NaN()},
			},
			expectError: true,
		},
		{
			name: "Infinite value",
			req: &BCRequest{
				Kind:   "rate",
				Pores:  []int{0},
				Values: []float64{math.Inf(1)},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBCRequest(tt.req)
			if tt.expectError && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestValidatePropertyKey tests namespaced key validation
func TestValidatePropertyKey(t *testing.T) {
	valid := []string{
		"pore.volume",
		"pore.diameter",
		"throat.diffusive_conductance",
		"throat.cross_sectional_area",
	}
	for _, key := range valid {
		if err := ValidatePropertyKey(key); err != nil {
			t.Errorf("key %q rejected: %v", key, err)
		}
	}

	invalid := []string{
		"",
		"volume",
		"pore.",
		"Pore.volume",
		"pore.Volume",
		"edge.length",
		"pore volume",
		"pore." + strings.Repeat("x", 200),
	}
	for _, key := range invalid {
		if err := ValidatePropertyKey(key); err == nil {
			t.Errorf("key %q accepted, expected an error", key)
		}
	}
}

func TestValidateStructTags(t *testing.T) {
	type knobs struct {
		Scheme string  `validate:"oneof=steady implicit cranknicolson"`
		Step   float64 `validate:"gt=0"`
	}

	if err := ValidateStruct(knobs{Scheme: "implicit", Step: 0.1}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
	if err := ValidateStruct(knobs{Scheme: "rk4", Step: 0.1}); err == nil {
		t.Error("invalid scheme accepted")
	} else if !strings.Contains(err.Error(), "Scheme") {
		t.Errorf("error does not name the field: %v", err)
	}
	if err := ValidateStruct(knobs{Scheme: "steady", Step: 0}); err == nil {
		t.Error("zero step accepted")
	}
}
