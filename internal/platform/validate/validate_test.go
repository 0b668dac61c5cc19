// Copyright (c) 2026 Mindfolio. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "The Hobbit", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_HalfStep checks the half-star rating step rule.
*/
func TestValidator_HalfStep(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		isValid bool
	}{
		{"whole_star", 4.0, true},
		{"half_star", 3.5, true},
		{"minimum", 0.5, true},
		{"off_step", 3.7, false},
		{"tiny_fraction", 2.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.HalfStep("overall_rating", tt.value)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_FloatRange checks the inclusive float bounds rule.
*/
func TestValidator_FloatRange(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		isValid bool
	}{
		{"lower_bound", 0.5, true},
		{"upper_bound", 5.0, true},
		{"below", 0.0, false},
		{"above", 5.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.FloatRange("overall_rating", tt.value, 0.5, 5.0)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("title", "Dune").
		MaxLen("title", "Dune", 500).
		OneOf("status", "READING", "TO_READ", "READING", "FINISHED", "ABANDONED").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").                   // Fails
		OneOf("note_type", "ESSAY", "SUMMARY", "REFLECTION", "GENERAL"). // Fails
		Custom("page_end", true, "Must not be before page_start").       // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
