package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCompoundAnnualGrowthRate(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 10.0, CalculateCompoundAnnualGrowthRate(100, 110, 1, 1), 1e-9)
	assert.InDelta(t, 10.0, CalculateCompoundAnnualGrowthRate(100, 121, 252, 504), 1e-9)
	assert.Zero(t, CalculateCompoundAnnualGrowthRate(0, 110, 1, 1))
	assert.Zero(t, CalculateCompoundAnnualGrowthRate(100, 110, 1, 0))
}

func TestCalculateCalmarRatio(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2.0, CalculateCalmarRatio(0.2, -0.1))
	assert.Zero(t, CalculateCalmarRatio(0.2, 0))
}

func TestSampleStandardDeviation(t *testing.T) {
	t.Parallel()
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, math.Sqrt(32.0/7.0), SampleStandardDeviation(values), 1e-12)
	assert.Zero(t, SampleStandardDeviation([]float64{1}))
}

func TestSampleVariance(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, SampleVariance([]float64{1, 2, 3}))
	assert.Zero(t, SampleVariance(nil))
}

func TestSampleCovariance(t *testing.T) {
	t.Parallel()
	c, err := SampleCovariance([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.Equal(t, 2.0, c)

	c, err = SampleCovariance([]float64{1}, []float64{1})
	require.NoError(t, err)
	assert.Zero(t, c)

	_, err = SampleCovariance([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, errMismatchedLengths)
}

func TestFinancialGeometricAverage(t *testing.T) {
	t.Parallel()
	_, err := FinancialGeometricAverage(nil)
	assert.ErrorIs(t, err, errZeroValue)

	_, err = FinancialGeometricAverage([]float64{-2})
	assert.ErrorIs(t, err, errNegativeValueOutOfRange)

	avg, err := FinancialGeometricAverage([]float64{0.21, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, avg, 1e-12)

	avg, err = FinancialGeometricAverage([]float64{0.5, -1})
	require.NoError(t, err)
	assert.Equal(t, -1.0, avg)
}

func TestArithmeticAverage(t *testing.T) {
	t.Parallel()
	assert.Zero(t, ArithmeticAverage(nil))
	assert.Equal(t, 2.5, ArithmeticAverage([]float64{1, 2, 3, 4}))
}

func TestCalculateSortinoRatio(t *testing.T) {
	t.Parallel()
	assert.Zero(t, CalculateSortinoRatio(nil, 0, 0))
	assert.Zero(t, CalculateSortinoRatio([]float64{0.1, 0.2}, 0, 0.15))
	r := CalculateSortinoRatio([]float64{0.1, -0.1}, 0, 0)
	assert.Zero(t, r)
	r = CalculateSortinoRatio([]float64{0.3, -0.1}, 0, 0.1)
	assert.InDelta(t, 0.1/math.Sqrt(0.01/2), r, 1e-12)
}

func TestPercentile(t *testing.T) {
	t.Parallel()
	_, err := Percentile(nil, 5)
	assert.ErrorIs(t, err, errZeroValue)
	_, err = Percentile([]float64{1}, 101)
	assert.ErrorIs(t, err, errPercentileOutOfRange)

	values := []float64{5, 1, 4, 2, 3}
	p, err := Percentile(values, 50)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p)

	p, err = Percentile(values, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, p, 1e-12)
	assert.Equal(t, 5.0, values[0], "input must not be sorted in place")
}
