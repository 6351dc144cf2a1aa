package rangeproof

import (
	"math/big"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/vector"
)

// Put all debug functions here

func debugProve(x, y, z ristretto.Scalar, v, l, r, aL, aR, sL, sR []ristretto.Scalar) error {

	ok, err := debugLxG(l, x, z, aL, sL)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("<l(x), G> is constructed incorrectly")
	}

	ok, err = debugRxHPrime(r, x, y, z, aR, sR)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("<r(x), H'> is constructed incorrectly")
	}

	for i := range v {
		if !debugSizeOfV(v[i].BigInt()) {
			return errors.New("value is more than 2^N - 1")
		}
	}

	return nil
}

// debugT0 recomputes t0 directly from the bit commitments
// t0 = <aL - z, y^nm Had (aR + z) + zMTwoN>
func debugT0(aL, aR []ristretto.Scalar, y, z ristretto.Scalar) (ristretto.Scalar, error) {

	var iP ristretto.Scalar
	iP.SetZero()

	nm := uint32(len(aL))
	m := nm / N

	aLMinusZ := vector.SubScalar(aL, z)

	aRPlusZ := vector.AddScalar(aR, z)

	yNM := vector.ScalarPowers(y, nm)

	hada, err := vector.Hadamard(yNM, aRPlusZ)
	if err != nil {
		return iP, err
	}

	rightIP, err := vector.Add(hada, sumZMTwoN(z, m))
	if err != nil {
		return iP, err
	}

	return vector.InnerProduct(aLMinusZ, rightIP)
}

// <l(x), G> = <aL, G> + x<sL, G> + <-z1, G>
func debugLxG(l []ristretto.Scalar, x, z ristretto.Scalar, aL, sL []ristretto.Scalar) (bool, error) {

	nm := len(aL)

	genData := []byte("umbra.BulletProof.vec1")
	ped := pedersen.New(genData)
	ped.BaseVector.Compute(uint32(nm))

	G := ped.BaseVector.Bases

	lG, err := vector.Exp(l, G, nm, 1)
	if err != nil {
		return false, err
	}

	// <aL, G>
	aLG, err := vector.Exp(aL, G, nm, 1)
	if err != nil {
		return false, err
	}

	// x<sL, G>
	sLG, err := vector.Exp(sL, G, nm, 1)
	if err != nil {
		return false, err
	}
	var xsLG ristretto.Point
	xsLG.ScalarMult(&sLG, &x)

	// <-z1, G>
	var zNeg ristretto.Scalar
	zNeg.Neg(&z)
	zNegG, err := vector.Exp(vector.FromScalar(zNeg, uint32(nm)), G, nm, 1)
	if err != nil {
		return false, err
	}

	var rhs ristretto.Point
	rhs.SetZero()
	rhs.Add(&aLG, &xsLG)
	rhs.Add(&rhs, &zNegG)

	return lG.Equals(&rhs), nil
}

// <r(x), H'> = <aR, H> + x<sR, H> + <z*y^nm + zMTwoN, H'>
func debugRxHPrime(r []ristretto.Scalar, x, y, z ristretto.Scalar, aR, sR []ristretto.Scalar) (bool, error) {

	nm := len(aR)
	m := uint32(nm) / N

	genData := []byte("umbra.BulletProof.vec1")
	genData = append(genData, uint8(1))

	ped2 := pedersen.New(genData)
	ped2.BaseVector.Compute(uint32(nm))

	H := ped2.BaseVector.Bases

	Hprime := computeHprime(H, y)

	// <r(x), H'>
	rH, err := vector.Exp(r, Hprime, nm, 1)
	if err != nil {
		return false, err
	}

	// <aR, H>
	aRH, err := vector.Exp(aR, H, nm, 1)
	if err != nil {
		return false, err
	}

	// x<sR, H>
	sRH, err := vector.Exp(sR, H, nm, 1)
	if err != nil {
		return false, err
	}
	var xsRH ristretto.Point
	xsRH.ScalarMult(&sRH, &x)

	// y^nm
	yNM := vector.ScalarPowers(y, uint32(nm))

	// z*y^nm
	zMulYn := vector.MulScalar(yNM, z)

	// p = z*y^nm + zMTwoN
	p, err := vector.Add(zMulYn, sumZMTwoN(z, m))
	if err != nil {
		return false, err
	}

	// k = <p, H'>
	k, err := vector.Exp(p, Hprime, nm, 1)
	if err != nil {
		return false, err
	}

	var rhs ristretto.Point
	rhs.Add(&aRH, &xsRH)
	rhs.Add(&rhs, &k)

	return rH.Equals(&rhs), nil
}

// debugSizeOfV returns true if v is strictly less than 2^N
func debugSizeOfV(v *big.Int) bool {
	var twoN, e = big.NewInt(2), big.NewInt(int64(N))
	twoN.Exp(twoN, e, nil)

	return v.Cmp(twoN) == -1
}
