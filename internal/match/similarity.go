package match

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ferc1-etl/internal/features"
)

// Matrix is the pairwise cosine similarity matrix over all records of one
// plant table. It is symmetric with a unit diagonal; entries below the
// similarity floor are present but unusable for matching.
type Matrix struct {
	sim    *mat.SymDense
	minSim float64
}

// Similarities computes the exact pairwise cosine similarity between every
// pair of feature vectors. The computation and storage are O(n^2) in the
// record count, which bounds a table to a few thousand records; that ceiling
// is part of the design, one plant table is processed at a time.
func Similarities(vecs []features.Vector, minSim float64) *Matrix {
	n := len(vecs)
	sim := mat.NewSymDense(n, nil)

	norms := make([]float64, n)
	for i, v := range vecs {
		norms[i] = v.Norm()
	}

	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			sim.SetSym(i, j, vecs[i].Dot(vecs[j])/(norms[i]*norms[j]))
		}
	}

	return &Matrix{sim: sim, minSim: minSim}
}

// Len returns the number of records the matrix covers.
func (m *Matrix) Len() int {
	r, _ := m.sim.Dims()
	return r
}

// At returns the raw similarity between records i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.sim.At(i, j)
}

// Usable returns the similarity between i and j and whether it clears the
// floor. A pair exactly at the floor is usable; anything below is not.
func (m *Matrix) Usable(i, j int) (float64, bool) {
	s := m.sim.At(i, j)
	return s, s >= m.minSim
}

// MinSim returns the configured similarity floor.
func (m *Matrix) MinSim() float64 {
	return m.minSim
}
