package largeimage

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the double view of an image.
type Statistics struct {
	Count    int64
	Mean     float64
	Variance float64 // unbiased (n-1) sample variance
	StdDev   float64
	Min      float64
	Max      float64
}

// moments are running moments merged across units.
type moments struct {
	n    int64
	mean float64
	m2   float64 // sum of squared deviations from mean
}

// merge combines two partial results (Chan et al. pairwise update).
func (a moments) merge(b moments) moments {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	n := a.n + b.n
	delta := b.mean - a.mean
	return moments{
		n:    n,
		mean: a.mean + delta*float64(b.n)/float64(n),
		m2:   a.m2 + b.m2 + delta*delta*float64(a.n)*float64(b.n)/float64(n),
	}
}

// unitMoments computes the moments of one unit's doubles.
func unitMoments(x []float64) moments {
	if len(x) == 1 {
		return moments{n: 1, mean: x[0]}
	}
	mean, variance := stat.MeanVariance(x, nil)
	return moments{n: int64(len(x)), mean: mean, m2: variance * float64(len(x)-1)}
}

// Statistics computes the mean, variance and range of the double view in
// one scan. Each unit is summarized with gonum/stat and the partial results
// are merged, so memory use is bounded by one unit.
func (l *LargeImage[T]) Statistics() (Statistics, error) {
	var acc moments
	var buf []float64
	lo, hi := math.Inf(1), math.Inf(-1)

	err := l.units.Visit(func(_ int64, values []T) error {
		if cap(buf) < len(values) {
			buf = make([]float64, len(values))
		}
		buf = buf[:len(values)]
		for j, v := range values {
			d := l.codec.Double(v)
			buf[j] = d
			if d < lo {
				lo = d
			}
			if d > hi {
				hi = d
			}
		}
		acc = acc.merge(unitMoments(buf))
		return nil
	})
	if err != nil {
		return Statistics{}, err
	}

	s := Statistics{Count: acc.n, Mean: acc.mean, Min: lo, Max: hi}
	if acc.n > 1 {
		s.Variance = acc.m2 / float64(acc.n-1)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s, nil
}
