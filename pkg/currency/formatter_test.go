package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		code   string
		amount float64
		want   string
	}{
		{"MYR", 298, "MYR 298.00"},
		{"MYR", 320.5, "MYR 320.50"},
		{"MYR", 1234.56, "MYR 1,234.56"},
		{"MYR", 1234567.89, "MYR 1,234,567.89"},
		{"myr", 275, "MYR 275.00"},
		{"THB", 0, "THB 0.00"},
		{"MYR", 0.005, "MYR 0.01"},
		{"MYR", -42.5, "-MYR 42.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.code, tt.amount))
	}
}
