package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a sparse feature vector: parallel index/value slices with the
// indices strictly increasing. The n-gram vocabulary makes the full feature
// space tens of thousands of columns wide while each record touches only a
// handful of them, so a dense row per record is not an option.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the euclidean norm of the vector.
func (v Vector) Norm() float64 {
	if len(v.Values) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(v.Values, v.Values))
}

// append adds one entry; callers must add indices in increasing order.
func (v *Vector) append(index int, value float64) {
	if value == 0 {
		return
	}
	v.Indices = append(v.Indices, index)
	v.Values = append(v.Values, value)
}

// scale multiplies every entry in place.
func (v *Vector) scale(factor float64) {
	for i := range v.Values {
		v.Values[i] *= factor
	}
}
