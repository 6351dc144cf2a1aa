package rangeproof

import (
	"math/big"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/vector"
)

// polynomial holds the two vector polynomials l(x) and r(x)
// along with the coefficients of t(x) = <l(x), r(x)>
type polynomial struct {
	l0, l1, r0, r1 []ristretto.Scalar
	t0, t1, t2     ristretto.Scalar
}

// computePoly assembles l(x) and r(x) from the bit commitments and the
// blinding vectors, for m aggregated values of n bits each
// l(x) = (aL - z) + sL * x
// r(x) = y^nm Had (aR + z + sR * x) + zMTwoN
func computePoly(aL, aR, sL, sR []ristretto.Scalar, y, z ristretto.Scalar) (*polynomial, error) {

	nm := uint32(len(aL))
	m := nm / N

	// l0 = aL - z
	l0 := vector.SubScalar(aL, z)

	// l1 = sL
	l1 := sL

	// yNM = <y^0, y^1, .., y^nm-1>
	yNM := vector.ScalarPowers(y, nm)

	// r0 = y^nm Had (aR + z) + zMTwoN
	aRPlusZ := vector.AddScalar(aR, z)

	r0, err := vector.Hadamard(yNM, aRPlusZ)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - r0 (1)")
	}

	r0, err = vector.Add(r0, sumZMTwoN(z, m))
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - r0 (2)")
	}

	// r1 = y^nm Had sR
	r1, err := vector.Hadamard(yNM, sR)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - r1")
	}

	// t0 = <l0, r0>
	t0, err := vector.InnerProduct(l0, r0)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - t0")
	}

	// t2 = <l1, r1>
	t2, err := vector.InnerProduct(l1, r1)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - t2")
	}

	// t1 = <l0, r1> + <l1, r0>
	t1Left, err := vector.InnerProduct(l0, r1)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - t1 (1)")
	}
	t1Right, err := vector.InnerProduct(l1, r0)
	if err != nil {
		return nil, errors.Wrap(err, "[computePoly] - t1 (2)")
	}

	var t1 ristretto.Scalar
	t1.Add(&t1Left, &t1Right)

	return &polynomial{
		l0: l0,
		l1: l1,
		r0: r0,
		r1: r1,
		t0: t0,
		t1: t1,
		t2: t2,
	}, nil
}

// computeL evaluates l(x) = l0 + l1 * x
func (p *polynomial) computeL(x ristretto.Scalar) ([]ristretto.Scalar, error) {
	lx := vector.MulScalar(p.l1, x)
	return vector.Add(p.l0, lx)
}

// computeR evaluates r(x) = r0 + r1 * x
func (p *polynomial) computeR(x ristretto.Scalar) ([]ristretto.Scalar, error) {
	rx := vector.MulScalar(p.r1, x)
	return vector.Add(p.r0, rx)
}

// eval evaluates t(x) = t0 + t1 * x + t2 * x^2
func (p *polynomial) eval(x ristretto.Scalar) ristretto.Scalar {

	var t ristretto.Scalar

	var xSq ristretto.Scalar
	xSq.Square(&x)

	t.MulAdd(&p.t1, &x, &p.t0)

	var t2xSq ristretto.Scalar
	t2xSq.Mul(&p.t2, &xSq)

	t.Add(&t, &t2xSq)

	return t
}

// computeT0 computes t0 from the public data alone
// t0 = sum(z^j+2 * v[j]) + D(y, z)
func (p *polynomial) computeT0(y, z ristretto.Scalar, v []ristretto.Scalar, n, m uint32) ristretto.Scalar {

	delta := computeDelta(y, z, n, m)

	var zM ristretto.Scalar
	zM.Square(&z) // start at z^2

	var sumZmV ristretto.Scalar
	sumZmV.SetZero()

	for i := range v {
		sumZmV.MulAdd(&zM, &v[i], &sumZmV)
		zM.Mul(&zM, &z)
	}

	var t0 ristretto.Scalar
	t0.Add(&sumZmV, &delta)

	return t0
}

// computeDelta computes the polynomial offset
// D(y, z) = (z - z^2) * sumOfPowers(y, nm) - sum(z^j+2 * sumOfPowers(2, n)) from j = 1 to j = m
func computeDelta(y, z ristretto.Scalar, n, m uint32) ristretto.Scalar {

	var res ristretto.Scalar
	res.SetZero()

	sumY := sumOfPowers(y, n*m)

	var two ristretto.Scalar
	two.SetBigInt(big.NewInt(2))
	sumTwo := sumOfPowers(two, n)

	var zSq ristretto.Scalar
	zSq.Square(&z)

	var zMinusZSq ristretto.Scalar
	zMinusZSq.Sub(&z, &zSq)

	res.Mul(&zMinusZSq, &sumY)

	var zM ristretto.Scalar
	zM.Mul(&zSq, &z) // start at z^3

	for j := uint32(0); j < m; j++ {

		var zMSumTwo ristretto.Scalar
		zMSumTwo.Mul(&zM, &sumTwo)

		res.Sub(&res, &zMSumTwo)

		zM.Mul(&zM, &z)
	}

	return res
}

// sumZMTwoN computes the aggregated offset vector for r0
// for the j'th value the n-bit segment is scaled by z^j+2
// res[j*n + i] = z^j+2 * 2^i
func sumZMTwoN(z ristretto.Scalar, m uint32) []ristretto.Scalar {

	res := make([]ristretto.Scalar, 0, N*m)

	var two ristretto.Scalar
	two.SetBigInt(big.NewInt(2))
	twoN := vector.ScalarPowers(two, N)

	var zM ristretto.Scalar
	zM.Square(&z) // start at z^2

	for j := uint32(0); j < m; j++ {
		res = append(res, vector.MulScalar(twoN, zM)...)
		zM.Mul(&zM, &z)
	}

	return res
}

// sumOfPowers returns the sum a^0 + a^1 + .. + a^n-1
func sumOfPowers(a ristretto.Scalar, n uint32) ristretto.Scalar {
	return vector.ScalarPowersSum(a, uint64(n))
}
