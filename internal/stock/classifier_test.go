package stock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

func TestClassify(t *testing.T) {
	th := Thresholds{MinStock: 10, MaxStock: 100}

	cases := []struct {
		current float64
		want    Status
	}{
		{0, StatusCritical},
		{3, StatusCritical},
		{5, StatusCritical}, // boundary: 0.5*min
		{5.1, StatusLow},
		{8, StatusLow},
		{10, StatusLow}, // boundary: min
		{10.5, StatusGood},
		{45, StatusGood},
		{89.9, StatusGood},
		{90, StatusOverstock}, // boundary: 0.9*max
		{150, StatusOverstock},
	}
	for _, tc := range cases {
		got, err := Classify(tc.current, th)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "current=%v", tc.current)
	}
}

func TestClassifyRejectsBadThresholds(t *testing.T) {
	_, err := Classify(5, Thresholds{MinStock: 10, MaxStock: 10})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))

	_, err = Classify(5, Thresholds{MinStock: 20, MaxStock: 10})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))

	_, err = Classify(-1, Thresholds{MinStock: 10, MaxStock: 100})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))

	_, err = Classify(5, Thresholds{MinStock: -1, MaxStock: 100})
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))
}

func TestClassifyIdempotent(t *testing.T) {
	th := Thresholds{MinStock: 4, MaxStock: 40}
	a, err := Classify(12, th)
	require.NoError(t, err)
	b, err := Classify(12, th)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestStatusColor(t *testing.T) {
	require.Equal(t, "#dc2626", StatusCritical.Color())
	require.Equal(t, "#f59e0b", StatusLow.Color())
	require.Equal(t, "#16a34a", StatusGood.Color())
	require.Equal(t, "#8b5cf6", StatusOverstock.Color())
}
