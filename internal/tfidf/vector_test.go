package tfidf

import (
	"math"
	"reflect"
	"testing"
)

func vec(pairs map[int]float64) Vector {
	return newVector(pairs)
}

func TestVectorOps(t *testing.T) {
	a := vec(map[int]float64{0: 1, 2: 2, 5: 3})
	b := vec(map[int]float64{2: 4, 3: 1, 5: 1})

	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot() = %f, want 11", got)
	}

	sum := a.Add(b)
	wantSum := Vector{Indices: []int{0, 2, 3, 5}, Values: []float64{1, 6, 1, 4}}
	if !reflect.DeepEqual(sum, wantSum) {
		t.Errorf("Add() = %v, want %v", sum, wantSum)
	}

	prod := a.Hadamard(b)
	wantProd := Vector{Indices: []int{2, 5}, Values: []float64{8, 3}}
	if !reflect.DeepEqual(prod, wantProd) {
		t.Errorf("Hadamard() = %v, want %v", prod, wantProd)
	}

	if got := vec(map[int]float64{1: 3, 4: 4}).Norm(); got != 5 {
		t.Errorf("Norm() = %f, want 5", got)
	}
}

func TestMean(t *testing.T) {
	a := vec(map[int]float64{0: 2})
	b := vec(map[int]float64{1: 4})

	got := Mean(a, b)
	want := Vector{Indices: []int{0, 1}, Values: []float64{1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Mean() = %v, want %v", got, want)
	}

	if !Mean().IsZero() {
		t.Error("Mean() of nothing should be zero")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{name: "zero left", a: Vector{}, b: vec(map[int]float64{0: 1}), want: 0},
		{name: "zero both", a: Vector{}, b: Vector{}, want: 0},
		{name: "orthogonal", a: vec(map[int]float64{0: 1}), b: vec(map[int]float64{1: 1}), want: 0},
		{name: "parallel", a: vec(map[int]float64{0: 1, 1: 1}), b: vec(map[int]float64{0: 3, 1: 3}), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNewVectorDropsZeros(t *testing.T) {
	v := vec(map[int]float64{3: 0, 1: 2})
	if v.Len() != 1 || v.Indices[0] != 1 {
		t.Errorf("newVector() = %v, want single entry at 1", v)
	}
}
