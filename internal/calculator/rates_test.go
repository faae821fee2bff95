package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		stage1, stage2 int64
		want           float64
	}{
		{"1000 -> 37", 1000, 37, 3.7},
		{"half up", 1000, 5, 0.5},
		{"round up at .x5", 2000, 1, 0.1},
		{"round down", 3, 1, 33.3},
		{"full", 40, 40, 100},
		{"zero denominator", 0, 12, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ConversionRate(tc.stage1, tc.stage2))
		})
	}
}

func TestRevenueConversionRate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.41, RevenueConversionRate(37, 2))
	assert.Equal(t, 0.0, RevenueConversionRate(0, 3))
	assert.Equal(t, 33.33, RevenueConversionRate(3, 1))
}

func TestNetRevenueAndCostPer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 700000.0, NetRevenue(1000000, 300000))
	assert.Equal(t, 0.3, NetRevenue(0.5, 0.2))
	assert.Equal(t, 333.0, CostPer(1000, 3))
	assert.Equal(t, 0.0, CostPer(1000, 0))
}
