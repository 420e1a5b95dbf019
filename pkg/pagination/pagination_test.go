// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savoria-app/savoria/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping of abusive values.
*/
func TestFromRequest(t *testing.T) {
	testCases := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page_clamped", "?page=0", 1, 20},
		{"negative_limit_clamped", "?limit=-5", 1, 20},
		{"excessive_limit_clamped", "?limit=5000", 1, 20},
		{"garbage_falls_back", "?page=abc&limit=xyz", 1, 20},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/users"+testCase.query, nil)
			params := pagination.FromRequest(request)
			assert.Equal(t, testCase.expectedPage, params.Page)
			assert.Equal(t, testCase.expectedLimit, params.Limit)
		})
	}
}

/*
TestOffset verifies the SQL offset derivation.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total-page rounding.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)

	empty := pagination.NewMeta(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
