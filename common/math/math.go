package math

import (
	"errors"
	"math"
	"sort"
)

var (
	errZeroValue               = errors.New("cannot calculate average of no values")
	errNegativeValueOutOfRange = errors.New("received negative number less than -1")
	errMismatchedLengths       = errors.New("value slices must be the same length")
	errPercentileOutOfRange    = errors.New("percentile must be between 0 and 100")
)

// CalculateCompoundAnnualGrowthRate Calculates CAGR.
// Using years, intervals per year would be 1 and number of intervals would be the number of years
// Using days, intervals per year would be 252 and number of intervals would be the number of trading days
func CalculateCompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue <= 0 || numberOfIntervals <= 0 {
		return 0
	}
	k := math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
	return k * 100
}

// CalculateCalmarRatio is a function of the average compounded annual rate of return versus its maximum drawdown.
// The higher the Calmar ratio, the better it performed on a risk-adjusted basis
func CalculateCalmarRatio(annualReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualReturn / math.Abs(maxDrawdown)
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
func SampleStandardDeviation(vals []float64) float64 {
	return math.Sqrt(SampleVariance(vals))
}

// SampleVariance returns the unbiased variance of vals, zero when there are
// fewer than two values
func SampleVariance(vals []float64) float64 {
	if len(vals) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(vals)
	var combined float64
	for i := range vals {
		combined += math.Pow(vals[i]-mean, 2)
	}
	return combined / (float64(len(vals)) - 1)
}

// SampleCovariance returns the unbiased covariance of two equally sized series
func SampleCovariance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errMismatchedLengths
	}
	if len(a) <= 1 {
		return 0, nil
	}
	meanA := ArithmeticAverage(a)
	meanB := ArithmeticAverage(b)
	var combined float64
	for i := range a {
		combined += (a[i] - meanA) * (b[i] - meanB)
	}
	return combined / (float64(len(a)) - 1), nil
}

// FinancialGeometricAverage is a modified geometric average to assess
// the negative returns of investments. It adds +1 to each value
// which should only be compared to other financial geometric averages
func FinancialGeometricAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errZeroValue
	}
	product := 1.0
	for i := range values {
		if values[i] < -1 {
			return 0, errNegativeValueOutOfRange
		}
		if values[i] == -1 {
			// a total loss wipes out the product
			return -1, nil
		}
		product *= values[i] + 1
	}
	return math.Pow(product, 1/float64(len(values))) - 1, nil
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// CalculateSortinoRatio returns sortino ratio of backtest compared to risk-free
func CalculateSortinoRatio(movementPerCandle []float64, riskFreeRate, average float64) float64 {
	if len(movementPerCandle) == 0 {
		return 0
	}
	totalNegativeResultsSquared := 0.0
	for x := range movementPerCandle {
		if movementPerCandle[x]-riskFreeRate < 0 {
			totalNegativeResultsSquared += math.Pow(movementPerCandle[x]-riskFreeRate, 2)
		}
	}
	averageDownsideDeviation := math.Sqrt(totalNegativeResultsSquared / float64(len(movementPerCandle)))
	if averageDownsideDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / averageDownsideDeviation
}

// Percentile returns the p-th percentile of values using linear interpolation
// between the closest ranks. values is not modified
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, errZeroValue
	}
	if p < 0 || p > 100 {
		return 0, errPercentileOutOfRange
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower], nil
	}
	return sorted[lower] + (rank-float64(lower))*(sorted[upper]-sorted[lower]), nil
}
