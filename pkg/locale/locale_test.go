// Copyright (c) 2026 Vision. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"already canonical", "en_US", "en_US", true},
		{"lowercase region", "en_us", "en_US", true},
		{"hyphen separator", "en-US", "en_US", true},
		{"shouting", "EN_US", "en_US", true},
		{"french", "fr_fr", "fr_FR", true},
		{"bare language keeps no region", "en", "en", true},
		{"bare arabic", "ar", "ar", true},
		{"empty", "", "", false},
		{"garbage", "not a locale", "", false},
		{"numeric", "123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("en_US"))
	assert.True(t, Valid("de"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("???"))
}

func TestNormalizeCaseVariantsConverge(t *testing.T) {
	variants := []string{"en_US", "en_us", "EN_US", "en-US", "eN-uS"}

	for _, variant := range variants {
		got, ok := Normalize(variant)
		assert.True(t, ok, variant)
		assert.Equal(t, "en_US", got, variant)
	}
}
