// Package zstatistic keeps running count, sum, min, max and variance of a
// stream of samples in constant memory, without storing the samples.
package zstatistic

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Real interface {
	constraints.Float
}

type Unsigned interface {
	constraints.Unsigned
}

// Statistic accumulates samples of type T, counting them in C.
// V selects variance tracking at compile time: StdDev[T] keeps the sum of
// squared differences, NoStdDev[T] stores nothing and makes Variance,
// PopulationStdDev and SampleStdDev return NaN.
// The zero value is an empty Statistic.
type Statistic[T Real, C Unsigned, V Tracker[T, V]] struct {
	extra V // first, so a zero-size NoStdDev doesn't get tail padding
	count C
	sum   T
	min   T
	max   T
}

type Float32 = Statistic[float32, uint32, StdDev[float32]]
type Float64 = Statistic[float64, uint64, StdDev[float64]]
type Float64NoStdDev = Statistic[float64, uint64, NoStdDev[float64]]

func New[T Real, C Unsigned, V Tracker[T, V]]() *Statistic[T, C, V] {
	return &Statistic[T, C, V]{}
}

// Deprecated: use New. The flag is ignored; variance tracking is chosen by V.
func NewWithFlag[T Real, C Unsigned, V Tracker[T, V]](useStdDev bool) *Statistic[T, C, V] {
	return New[T, C, V]()
}

func nan[T Real]() T {
	return T(math.NaN())
}

func (s *Statistic[T, C, V]) Reset() {
	*s = Statistic[T, C, V]{}
}

// Deprecated: use Reset.
func (s *Statistic[T, C, V]) ResetWithFlag(useStdDev bool) {
	s.Reset()
}

// Add adds value and returns how much the sum actually changed.
// NaN and infinities are accepted and propagate into sum, min and max.
func (s *Statistic[T, C, V]) Add(value T) T {
	previousSum := s.sum
	if s.count == 0 {
		s.min = value
		s.max = value
	} else if value < s.min {
		s.min = value
	} else if value > s.max {
		s.max = value
	}
	s.sum += value
	s.count++

	s.extra = s.extra.added(value, T(s.count))
	return s.sum - previousSum
}

// AddSlice adds values in order, returning the total change of the sum.
func (s *Statistic[T, C, V]) AddSlice(values ...T) T {
	var added T
	for _, v := range values {
		added += s.Add(v)
	}
	return added
}

func (s *Statistic[T, C, V]) Count() C {
	return s.count
}

func (s *Statistic[T, C, V]) Sum() T {
	return s.sum
}

func (s *Statistic[T, C, V]) Minimum() T {
	return s.min
}

func (s *Statistic[T, C, V]) Maximum() T {
	return s.max
}

func (s *Statistic[T, C, V]) TracksVariance() bool {
	return s.extra.enabled()
}

// Average is NaN if nothing has been added.
func (s *Statistic[T, C, V]) Average() T {
	if s.count == 0 {
		return nan[T]()
	}
	return s.sum / T(s.count)
}

// Variance is the population variance.
func (s *Statistic[T, C, V]) Variance() T {
	if !s.extra.enabled() || s.count == 0 {
		return nan[T]()
	}
	return s.extra.sumSquaredDiff() / T(s.count)
}

func (s *Statistic[T, C, V]) PopulationStdDev() T {
	if !s.extra.enabled() || s.count == 0 {
		return nan[T]()
	}
	return T(math.Sqrt(float64(s.extra.sumSquaredDiff() / T(s.count))))
}

// SampleStdDev is the Bessel-corrected (n-1) standard deviation, NaN below two samples.
func (s *Statistic[T, C, V]) SampleStdDev() T {
	if !s.extra.enabled() || s.count < 2 {
		return nan[T]()
	}
	return T(math.Sqrt(float64(s.extra.sumSquaredDiff() / T(s.count-1))))
}

// Merge folds o into s, as if all of o's samples had been added to s.
// Used to combine per-goroutine Statistics. o is left unchanged.
func (s *Statistic[T, C, V]) Merge(o *Statistic[T, C, V]) {
	if o == nil || o.count == 0 {
		return
	}
	if s.count == 0 {
		*s = *o
		return
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.extra = s.extra.merged(o.extra, T(s.count), T(o.count))
	s.sum += o.sum
	s.count += o.count
}
