package zstatistic

// Tracker is satisfied only by StdDev[T] and NoStdDev[T].
type Tracker[T Real, V any] interface {
	StdDev[T] | NoStdDev[T]
	enabled() bool
	sumSquaredDiff() T
	added(value, n T) V
	merged(o V, na, nb T) V
}

// StdDev keeps a running mean and the sum of squared differences from it,
// updated with Welford's recurrence.
type StdDev[T Real] struct {
	mean T
	ssd  T
}

func (StdDev[T]) enabled() bool {
	return true
}

func (d StdDev[T]) sumSquaredDiff() T {
	return d.ssd
}

// added returns d with value included; n is the count including value.
func (d StdDev[T]) added(value, n T) StdDev[T] {
	if n <= 1 {
		return StdDev[T]{mean: value}
	}
	delta := value - d.mean
	d.mean += delta / n
	d.ssd += delta * (value - d.mean)
	return d
}

// merged combines d over na samples with o over nb samples.
func (d StdDev[T]) merged(o StdDev[T], na, nb T) StdDev[T] {
	n := na + nb
	delta := o.mean - d.mean
	return StdDev[T]{
		mean: d.mean + delta*nb/n,
		ssd:  d.ssd + o.ssd + delta*delta*na*nb/n,
	}
}

// NoStdDev turns variance tracking off and takes no space.
type NoStdDev[T Real] struct{}

func (NoStdDev[T]) enabled() bool {
	return false
}

func (NoStdDev[T]) sumSquaredDiff() T {
	return nan[T]()
}

func (NoStdDev[T]) added(T, T) NoStdDev[T] {
	return NoStdDev[T]{}
}

func (NoStdDev[T]) merged(NoStdDev[T], T, T) NoStdDev[T] {
	return NoStdDev[T]{}
}
