package tfidf

import (
	"math"
	"sort"
)

// Vector is a sparse term-weight vector. Indices are vocabulary positions in
// ascending order and Values holds the weight for each index. The zero value
// is the empty (all-zero) vector.
type Vector struct {
	Indices []int
	Values  []float64
}

// newVector builds a Vector from an index->weight map, dropping zero weights.
func newVector(weights map[int]float64) Vector {
	indices := make([]int, 0, len(weights))
	for idx, w := range weights {
		if w != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return Vector{Indices: indices, Values: values}
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// IsZero reports whether every weight is zero.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Dot returns the inner product of v and o.
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

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	if s == 0 {
		return Vector{}
	}
	out := Vector{
		Indices: append([]int(nil), v.Indices...),
		Values:  make([]float64, len(v.Values)),
	}
	for i, x := range v.Values {
		out.Values[i] = x * s
	}
	return out
}

// Add returns the element-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	out := Vector{
		Indices: make([]int, 0, len(v.Indices)+len(o.Indices)),
		Values:  make([]float64, 0, len(v.Indices)+len(o.Indices)),
	}
	i, j := 0, 0
	for i < len(v.Indices) || j < len(o.Indices) {
		switch {
		case j >= len(o.Indices) || (i < len(v.Indices) && v.Indices[i] < o.Indices[j]):
			out.Indices = append(out.Indices, v.Indices[i])
			out.Values = append(out.Values, v.Values[i])
			i++
		case i >= len(v.Indices) || o.Indices[j] < v.Indices[i]:
			out.Indices = append(out.Indices, o.Indices[j])
			out.Values = append(out.Values, o.Values[j])
			j++
		default:
			out.Indices = append(out.Indices, v.Indices[i])
			out.Values = append(out.Values, v.Values[i]+o.Values[j])
			i++
			j++
		}
	}
	return out
}

// Hadamard returns the element-wise product of v and o. Only positions where
// both vectors are non-zero survive.
func (v Vector) Hadamard(o Vector) Vector {
	var out Vector
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			if p := v.Values[i] * o.Values[j]; p != 0 {
				out.Indices = append(out.Indices, v.Indices[i])
				out.Values = append(out.Values, p)
			}
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Mean returns the element-wise mean of vs, summed in the order given.
// The mean of no vectors is the zero vector.
func Mean(vs ...Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	var sum Vector
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vs)))
}

// Cosine returns the cosine similarity of a and b, defined as 0 when either is zero.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
