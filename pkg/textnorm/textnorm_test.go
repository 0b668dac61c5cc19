// Copyright (c) 2026 Mindfolio. All rights reserved.

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindfolio/mindfolio-server/pkg/textnorm"
)

/*
TestName verifies trimming, whitespace collapsing, and Unicode composition.
*/
func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Tolkien", "Tolkien"},
		{"trailing_space", "tolkien ", "tolkien"},
		{"inner_runs", "J.  R. R.\tTolkien", "J. R. R. Tolkien"},
		{"empty", "   ", ""},
		{"nfd_input", "Brontë", "Brontë"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Name(tt.input))
		})
	}
}

/*
TestName_Idempotent confirms that normalizing twice changes nothing.
*/
func TestName_Idempotent(t *testing.T) {
	inputs := []string{" Ursula  K. Le Guin ", "Brontë", "tolkien"}
	for _, input := range inputs {
		once := textnorm.Name(input)
		assert.Equal(t, once, textnorm.Name(once))
	}
}

/*
TestFold verifies that case-variant spellings fold to the same key.
*/
func TestFold(t *testing.T) {
	assert.Equal(t, textnorm.Fold("Tolkien"), textnorm.Fold("tolkien "))
	assert.Equal(t, textnorm.Fold("SCIENCE  Fiction"), "science fiction")
}
