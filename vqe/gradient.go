package vqe

import (
	"sync"

	"github.com/pkg/errors"
)

// BatchCostFn evaluates the cost at every parameter vector in points.
type BatchCostFn func(points [][]float64) ([]float64, error)

// SerialBatch evaluates a batch one point at a time.
func SerialBatch(cost CostFn) BatchCostFn {
	return func(points [][]float64) ([]float64, error) {
		costs := make([]float64, len(points))
		for i, p := range points {
			c, err := cost(p)
			if err != nil {
				return nil, errors.Wrapf(err, "point %d", i)
			}
			costs[i] = c
		}
		return costs, nil
	}
}

// ConcurrentBatch evaluates a batch with one goroutine per point.
// cost must be safe for concurrent use.
func ConcurrentBatch(cost CostFn) BatchCostFn {
	return func(points [][]float64) ([]float64, error) {
		costs := make([]float64, len(points))
		errs := make([]error, len(points))
		var wg sync.WaitGroup
		for i, p := range points {
			wg.Add(1)
			go func() {
				defer wg.Done()
				costs[i], errs[i] = cost(p)
			}()
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return nil, errors.Wrapf(err, "point %d", i)
			}
		}
		return costs, nil
	}
}

// NumericalGradient estimates the gradient by central differences with
// step delta. All 2*len(params) displaced points are evaluated in a
// single batch call.
func NumericalGradient(batch BatchCostFn, delta float64) GradFn {
	return func(params []float64) ([]float64, error) {
		n := len(params)
		points := make([][]float64, 0, 2*n)
		for i := 0; i < n; i++ {
			plus := make([]float64, n)
			minus := make([]float64, n)
			copy(plus, params)
			copy(minus, params)
			plus[i] += delta
			minus[i] -= delta
			points = append(points, plus, minus)
		}

		costs, err := batch(points)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		grad := make([]float64, n)
		for i := 0; i < n; i++ {
			grad[i] = (costs[2*i] - costs[2*i+1]) / (2 * delta)
		}
		return grad, nil
	}
}
