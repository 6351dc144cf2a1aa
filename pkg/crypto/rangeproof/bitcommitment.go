package rangeproof

import (
	"math/big"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"
)

// BitCommitment holds the bit vectors aL and aR for a single value,
// where aL is the binary decomposition of the value
// and aR = aL - 1
type BitCommitment struct {
	AL, AR []ristretto.Scalar
}

// BitCommit decomposes v into N bits, producing aL and aR
func BitCommit(v *big.Int) BitCommitment {

	bc := BitCommitment{
		AL: make([]ristretto.Scalar, N),
		AR: make([]ristretto.Scalar, N),
	}

	var zero ristretto.Scalar
	zero.SetZero()
	var one ristretto.Scalar
	one.SetOne()

	for i := 0; i < N; i++ {
		if v.Bit(i) == 1 {
			bc.AL[i] = one
		} else {
			bc.AL[i] = zero
		}
		bc.AR[i].Sub(&bc.AL[i], &one)
	}

	return bc
}

// Ensure recomposes the value from aL and aR
// and checks it matches v
func (b *BitCommitment) Ensure(v *big.Int) error {

	var zero ristretto.Scalar
	zero.SetZero()
	var one ristretto.Scalar
	one.SetOne()

	testAL := big.NewInt(0)
	testAR := big.NewInt(0)

	for i := 0; i < N; i++ {

		var basePow, e = big.NewInt(2), big.NewInt(int64(i))
		basePow.Exp(basePow, e, nil)

		if b.AL[i].Equals(&one) {
			testAL = testAL.Add(testAL, basePow)
		}
		if b.AR[i].Equals(&zero) {
			testAR = testAR.Add(testAR, basePow)
		}
	}

	if testAL.Cmp(v) != 0 {
		return errors.New("aL does not decompose to v")
	}

	if testAR.Cmp(v) != 0 {
		return errors.New("aR + 1 does not decompose to v")
	}

	return nil
}
