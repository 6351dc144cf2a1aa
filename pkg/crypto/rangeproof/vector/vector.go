package vector

import (
	"errors"

	ristretto "github.com/bwesterb/go-ristretto"
)

// Add adds two scalar slices element-wise
func Add(a, b []ristretto.Scalar) ([]ristretto.Scalar, error) {
	if len(a) != len(b) {
		return nil, errors.New("length of a does not equal length of b")
	}

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Add(&a[i], &b[i])
	}

	return res, nil
}

// AddScalar adds a scalar b to every element in the slice a
func AddScalar(a []ristretto.Scalar, b ristretto.Scalar) []ristretto.Scalar {

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Add(&a[i], &b)
	}

	return res
}

// Sub subtracts a vector b from a vector a
func Sub(a, b []ristretto.Scalar) ([]ristretto.Scalar, error) {
	if len(a) != len(b) {
		return nil, errors.New("length of a does not equal length of b")
	}

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Sub(&a[i], &b[i])
	}

	return res, nil
}

// SubScalar subtracts a scalar b from every element in the slice a
func SubScalar(a []ristretto.Scalar, b ristretto.Scalar) []ristretto.Scalar {

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Sub(&a[i], &b)
	}

	return res
}

// MulScalar multiplies every element in the slice a by the scalar b
func MulScalar(a []ristretto.Scalar, b ristretto.Scalar) []ristretto.Scalar {

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Mul(&a[i], &b)
	}

	return res
}

// InnerProduct takes two scalar slices and constructs the inner product
func InnerProduct(a, b []ristretto.Scalar) (ristretto.Scalar, error) {

	res := ristretto.Scalar{}
	res.SetZero()

	if len(a) != len(b) {
		return res, errors.New("length of a does not equal length of b")
	}

	for i := 0; i < len(a); i++ {
		res.MulAdd(&a[i], &b[i], &res)
	}

	return res, nil
}

// Exp exponentiates and sums a vector of scalars a against a vector
// of points b, creating a commitment
func Exp(a []ristretto.Scalar, b []ristretto.Point, n, m int) (ristretto.Point, error) {
	result := ristretto.Point{} // defaults to zero
	result.SetZero()

	if len(a) != len(b) {
		return result, errors.New("length of slice of scalars a does not equal length of slice of points b")
	}

	if len(a) < n*m {
		return result, errors.New("length of scalar a is less than n*m")
	}

	for i := range b {

		scalar := a[i]
		point := b[i]

		var sum ristretto.Point
		sum.ScalarMult(&point, &scalar)

		result.Add(&result, &sum)
	}

	return result, nil
}

// ScalarPowers constructs a vector of powers of a
// ScalarPowers(5, 3) = <5^0, 5^1, 5^2>
func ScalarPowers(a ristretto.Scalar, n uint32) []ristretto.Scalar {

	res := make([]ristretto.Scalar, n)

	if n == 0 {
		return res
	}

	var k ristretto.Scalar
	k.SetOne()
	res[0] = k

	if n == 1 {
		return res
	}
	res[1] = a

	for i := uint32(2); i < n; i++ {
		res[i].Mul(&res[i-1], &a)
	}

	return res
}

// ScalarPowersSum computes the sum of the first n powers of a,
// starting from a^0
func ScalarPowersSum(a ristretto.Scalar, n uint64) ristretto.Scalar {

	res := ristretto.Scalar{}
	res.SetZero()

	if n == 0 {
		return res
	}

	res.SetOne()

	if n == 1 {
		return res
	}

	prev := a

	for i := uint64(1); i < n; i++ {
		if i > 1 {
			prev.Mul(&prev, &a)
		}
		res.Add(&res, &prev)
	}

	return res
}

// Hadamard takes two scalar slices and constructs the Hadamard product
func Hadamard(a, b []ristretto.Scalar) ([]ristretto.Scalar, error) {

	if len(a) != len(b) {
		return nil, errors.New("length of a does not equal length of b")
	}

	res := make([]ristretto.Scalar, len(a))

	for i := 0; i < len(a); i++ {
		res[i].Mul(&a[i], &b[i])
	}
	return res, nil
}

// FromScalar returns a slice of size n, with all elements equal to a
func FromScalar(a ristretto.Scalar, n uint32) []ristretto.Scalar {
	res := make([]ristretto.Scalar, n)

	for i := uint32(0); i < n; i++ {
		res[i] = a
	}

	return res
}

// SplitScalars splits a scalar slice into two slices of n elements each
func SplitScalars(s []ristretto.Scalar, n uint32) ([]ristretto.Scalar, []ristretto.Scalar, error) {
	if uint32(len(s)) < 2*n {
		return nil, nil, errors.New("cannot split scalar slice; not enough elements")
	}
	return s[:n], s[n : 2*n], nil
}

// SplitPoints splits a point slice into two slices of n elements each
func SplitPoints(p []ristretto.Point, n uint32) ([]ristretto.Point, []ristretto.Point, error) {
	if uint32(len(p)) < 2*n {
		return nil, nil, errors.New("cannot split point slice; not enough elements")
	}
	return p[:n], p[n : 2*n], nil
}
