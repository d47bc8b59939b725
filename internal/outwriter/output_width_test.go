package outwriter

import (
	"testing"

	"github.com/qualitydesk/qualens/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTableTextWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *contract.Config
		expected int
	}{
		{
			name:     "wide terminal capped at max",
			cfg:      &contract.Config{Width: 200},
			expected: 70,
		},
		{
			name:     "narrow terminal floored at min",
			cfg:      &contract.Config{Width: 60},
			expected: 15,
		},
		{
			name:     "standard terminal",
			cfg:      &contract.Config{Width: 100},
			expected: 50,
		},
		{
			name:     "detail columns shrink text space",
			cfg:      &contract.Config{Width: 100, Detail: true},
			expected: 15,
		},
		{
			name:     "detail with wide terminal",
			cfg:      &contract.Config{Width: 120, Detail: true},
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getMaxTableTextWidth(tt.cfg))
		})
	}
}

func TestGetMaxTableTextWidthAutoDetect(t *testing.T) {
	// No override: detected or fallback width still lands inside the clamp.
	got := getMaxTableTextWidth(&contract.Config{})
	assert.GreaterOrEqual(t, got, 15)
	assert.LessOrEqual(t, got, 70)
}
