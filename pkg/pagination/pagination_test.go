// Copyright (c) 2026 Vision. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Size: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 20, Params{Page: 2, Size: 20}.Offset())
	assert.Equal(t, 45, Params{Page: 10, Size: 5}.Offset())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		size      int
		total     int
		wantPages int
	}{
		{"exact division", 1, 10, 30, 3},
		{"remainder adds a page", 3, 10, 25, 3},
		{"single partial page", 1, 20, 5, 1},
		{"empty result", 1, 20, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, meta.Pages)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.size, meta.Size)
		})
	}
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit values", "?page=3&size=50", 3, 50},
		{"zero page clamps to first", "?page=0", 1, 20},
		{"negative page clamps to first", "?page=-4", 1, 20},
		{"oversized page size clamps to default", "?size=1000", 1, 20},
		{"zero size clamps to default", "?size=0", 1, 20},
		{"garbage falls back", "?page=abc&size=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/attributes"+tt.query, nil)
			params := FromRequest(request)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSize, params.Size)
		})
	}
}
