package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePricing(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"discount below price", 100, 40, 40},
		{"discount equals price", 100, 100, 100},
		{"discount above price is clamped", 100, 150, 100},
		{"negative discount is zeroed", 100, -10, 0},
		{"free course", 0, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{Price: tt.price, Discount: tt.discount}
			c.NormalizePricing()
			assert.Equal(t, tt.want, c.Discount)
		})
	}
}

func TestProgressRecompute(t *testing.T) {
	var p CourseProgress

	p.Recompute(0, 4)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.False(t, p.Completed)

	p.Recompute(1, 4)
	assert.Equal(t, 25.0, p.ProgressPercentage)
	assert.False(t, p.Completed)

	p.Recompute(4, 4)
	assert.Equal(t, 100.0, p.ProgressPercentage)
	assert.True(t, p.Completed)
	assert.NotNil(t, p.CompletedAt)

	// Adding lectures after completion un-completes the course
	p.Recompute(4, 6)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
	assert.InDelta(t, 66.66, p.ProgressPercentage, 0.01)
}

func TestRecomputeZeroLectures(t *testing.T) {
	var p CourseProgress
	p.Recompute(0, 0)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.False(t, p.Completed)
}
