package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name         string
		onHandQty    int64
		currentCost  string
		receivedQty  int64
		receivedCost string
		want         string
	}{
		{
			name:         "pools existing and received value",
			onHandQty:    100,
			currentCost:  "10.00",
			receivedQty:  50,
			receivedCost: "8.00",
			want:         "9.33",
		},
		{
			name:         "first receipt takes received cost",
			onHandQty:    0,
			currentCost:  "0",
			receivedQty:  100,
			receivedCost: "15.50",
			want:         "15.50",
		},
		{
			name:         "rounds half up",
			onHandQty:    10,
			currentCost:  "3.33",
			receivedQty:  5,
			receivedCost: "2.67",
			want:         "3.11",
		},
		{
			name:         "equal costs stay put",
			onHandQty:    200,
			currentCost:  "5.00",
			receivedQty:  300,
			receivedCost: "5.00",
			want:         "5.00",
		},
		{
			name:         "zero received keeps current cost",
			onHandQty:    100,
			currentCost:  "10.00",
			receivedQty:  0,
			receivedCost: "8.00",
			want:         "10.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(
				tt.onHandQty,
				decimal.RequireFromString(tt.currentCost),
				tt.receivedQty,
				decimal.RequireFromString(tt.receivedCost),
			)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
