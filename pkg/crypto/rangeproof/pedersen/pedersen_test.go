package pedersen_test

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"testing"

	ristretto "github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
)

func TestPedersenScalar(t *testing.T) {
	ped := pedersen.New([]byte("random data"))

	s := ristretto.Scalar{}
	s.Rand()

	commitment := ped.CommitToScalar(s)

	assert.NotEqual(t, nil, commitment)
}

func TestBlindBaseFixed(t *testing.T) {

	a := pedersen.BlindBase()
	b := pedersen.BlindBase()

	assert.True(t, a.Equals(&b))

	var base ristretto.Point
	base.SetBase()
	assert.False(t, a.Equals(&base))
}

func TestCommitWithBlind(t *testing.T) {
	ped := pedersen.New([]byte("random data"))

	var v, blind ristretto.Scalar
	v.SetBigInt(big.NewInt(42))
	blind.Rand()

	c1 := ped.CommitToScalarWithBlind(v, blind)
	c2 := ped.CommitToScalarWithBlind(v, blind)

	assert.True(t, c1.Equals(c2))

	// V = v * Base + blind * BlindPoint
	var vBase, blindPoint, want ristretto.Point
	vBase.ScalarMult(&ped.BasePoint, &v)
	blindPoint.ScalarMult(&ped.BlindPoint, &blind)
	want.Add(&vBase, &blindPoint)

	assert.True(t, want.Equals(&c1.Value))
}

func TestCommitmentHomomorphism(t *testing.T) {
	ped := pedersen.New([]byte("random data"))

	var a, b, sum ristretto.Scalar
	a.SetBigInt(big.NewInt(100))
	b.SetBigInt(big.NewInt(250))
	sum.Add(&a, &b)

	cA := ped.CommitToScalar(a)
	cB := ped.CommitToScalar(b)

	combined := pedersen.AddCommitments(cA, cB)

	want := ped.CommitToScalarWithBlind(sum, combined.BlindingFactor)

	assert.True(t, want.EqualValue(combined))
}

func TestEncodeDecode(t *testing.T) {
	s := ristretto.Scalar{}
	s.Rand()

	c := pedersen.New([]byte("rand")).CommitToScalar(s)
	assert.True(t, c.Equals(c))

	buf := &bytes.Buffer{}
	err := c.Encode(buf)
	assert.Nil(t, err)

	var decC pedersen.Commitment
	err = decC.Decode(buf)
	assert.Nil(t, err)

	ok := decC.EqualValue(c)
	assert.True(t, ok)
}

func TestDecodeCommitmentsBadCount(t *testing.T) {

	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.BigEndian, uint32(0xFFFFFFFF))
	assert.Nil(t, err)

	// a hostile count prefix must be rejected before any allocation
	_, err = pedersen.DecodeCommitments(buf)
	assert.Equal(t, pedersen.ErrCommitmentCount, err)
}

func TestPedersenVector(t *testing.T) {
	ped := pedersen.New([]byte("some data"))

	var one ristretto.Scalar
	one.SetOne()

	var two ristretto.Scalar
	two.SetBigInt(big.NewInt(2))

	vec1 := []ristretto.Scalar{one, one}
	vec2 := []ristretto.Scalar{two, two}

	comm := ped.CommitToVectors(vec1, vec2)

	blind := comm.BlindingFactor

	H0 := ped.BlindPoint
	H1 := ped.BaseVector.Bases[0]
	H2 := ped.BaseVector.Bases[1]

	ped2 := pedersen.New(append(ped.GenData, uint8(1)))
	ped2.BaseVector.Compute(4)

	B0 := ped2.BaseVector.Bases[0]
	B1 := ped2.BaseVector.Bases[1]

	var H0blind ristretto.Point
	H0blind.ScalarMult(&H0, &blind)

	var H1one ristretto.Point
	H1one.ScalarMult(&H1, &one)

	var H2one ristretto.Point
	H2one.ScalarMult(&H2, &one)

	var B0two ristretto.Point
	B0two.ScalarMult(&B0, &two)

	var B1two ristretto.Point
	B1two.ScalarMult(&B1, &two)

	var expected ristretto.Point
	expected.Add(&H0blind, &H1one)
	expected.Add(&expected, &H2one)
	expected.Add(&expected, &B0two)
	expected.Add(&expected, &B1two)

	assert.Equal(t, expected.Bytes(), comm.Value.Bytes())
}
