package zstatistic

import "fmt"

// Summary is a read-only snapshot of a Statistic's queries.
type Summary[T Real, C Unsigned] struct {
	Count            C
	Sum              T
	Min              T
	Max              T
	Average          T
	Variance         T
	PopulationStdDev T
	SampleStdDev     T
	TracksVariance   bool
}

func (s *Statistic[T, C, V]) Summary() Summary[T, C] {
	return Summary[T, C]{
		Count:            s.count,
		Sum:              s.sum,
		Min:              s.min,
		Max:              s.max,
		Average:          s.Average(),
		Variance:         s.Variance(),
		PopulationStdDev: s.PopulationStdDev(),
		SampleStdDev:     s.SampleStdDev(),
		TracksVariance:   s.extra.enabled(),
	}
}

func (s Summary[T, C]) String() string {
	if s.Count == 0 {
		return "count=0"
	}
	str := fmt.Sprintf("count=%d sum=%g min=%g max=%g avg=%g", s.Count, s.Sum, s.Min, s.Max, s.Average)
	if s.TracksVariance {
		str += fmt.Sprintf(" var=%g stddev=%g sample-stddev=%g", s.Variance, s.PopulationStdDev, s.SampleStdDev)
	}
	return str
}

func (s *Statistic[T, C, V]) String() string {
	return s.Summary().String()
}
