package usecase

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 0.000001

func TestVolatility_KnownSeries(t *testing.T) {
	// mean 100, deviations 0,-2,2,0, variance 8/4 = 2
	got := Volatility([]float64{100, 102, 98, 100})
	assert.InDelta(t, math.Sqrt(2), got, epsilon)
	assert.InDelta(t, 1.41421356, got, 1e-8)
}

func TestVolatility_PopulationNotSample(t *testing.T) {
	// sample std dev of {1, 3} would be sqrt(2); population is 1
	assert.InDelta(t, 1.0, Volatility([]float64{1, 3}), epsilon)
}

func TestVolatility_ConstantSeriesIsZero(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
	}{
		{"single", []float64{42}},
		{"repeated integers", []float64{7, 7, 7, 7, 7}},
		{"repeated fraction", []float64{0.1, 0.1, 0.1}},
		{"long repeated", func() []float64 {
			s := make([]float64, 365)
			for i := range s {
				s[i] = 0.30000000000000004
			}
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, Volatility(tt.series))
		})
	}
}

func TestVolatility_NonNegativeAndOrderInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := 1 + r.Intn(50)
		series := make([]float64, n)
		for j := range series {
			series[j] = r.Float64() * 1000
		}

		v := Volatility(series)
		assert.GreaterOrEqual(t, v, 0.0)

		shuffled := append([]float64(nil), series...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.InDelta(t, v, Volatility(shuffled), 1e-9)
	}
}

func TestVolatility_DependsOnWindow(t *testing.T) {
	full := []float64{10, 50, 100, 101, 102}
	recent := full[2:]
	assert.NotEqual(t, Volatility(full), Volatility(recent))
}

func TestVolatility_EmptyIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(Volatility(nil)))
}
