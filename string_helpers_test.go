package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Mount Charleston", "mount-charleston"},
		{"Eta Aquariids", "eta-aquariids"},
		{"Great Basin National Park", "great-basin-national-park"},
		{"  spaced   out  ", "spaced-out"},
		{"Café del Cielo", "cafe-del-cielo"},
		{"UPPERCASE", "uppercase"},
		{"already-a-slug", "already-a-slug"},
		{"punctuation!?(here)", "punctuation-here"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeSlug(tt.input), "input %q", tt.input)
	}
}
