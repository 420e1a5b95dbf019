// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savoria-app/savoria/pkg/normalize"
)

/*
TestEmail verifies canonicalization: trimming, case folding, and Unicode
normalization all collapse visually equal addresses into one form.
*/
func TestEmail(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_canonical", "anna@example.com", "anna@example.com"},
		{"mixed_case", "Anna@Example.COM", "anna@example.com"},
		{"surrounding_whitespace", "  anna@example.com\t", "anna@example.com"},
		{"case_and_whitespace", " ANNA@EXAMPLE.COM ", "anna@example.com"},
		{"unicode_fullwidth_compatibility", "ａnna@example.com", "anna@example.com"},
		{"empty", "", ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, normalize.Email(testCase.input))
		})
	}
}

/*
TestEmail_Idempotent verifies that canonicalizing twice is the same as once,
so repeated boundary crossings are harmless.
*/
func TestEmail_Idempotent(t *testing.T) {
	once := normalize.Email("  MÜller@Example.com ")
	assert.Equal(t, once, normalize.Email(once))
}
