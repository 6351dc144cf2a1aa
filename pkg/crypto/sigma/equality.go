package sigma

import (
	"bytes"
	"io"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/fiatshamir"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
)

// EqualityProofSize is the serialized length of an EqualityProof
const EqualityProofSize = 192

// EqualityProof shows that a ciphertext the prover can decrypt holds
// the same value as a second instance, either a Pedersen commitment or
// a ciphertext under another key. The prover decrypts with secret s,
// so the statement for the first ciphertext reads
//
//	P          = s*G
//	Commitment = x*G + s*Handle
type EqualityProof struct {
	Y0 ristretto.Point
	Y1 ristretto.Point
	Y2 ristretto.Point
	ZS ristretto.Scalar
	ZX ristretto.Scalar
	ZR ristretto.Scalar
}

func equalityChallenge(pk ristretto.Point, ct elgamal.Ciphertext, second ristretto.Point, Y0, Y1, Y2 ristretto.Point) ristretto.Scalar {
	hs := fiatshamir.HashCacher{Cache: []byte{}}
	hs.Append(pk.Bytes(), ct.Commitment.Bytes(), ct.Handle.Bytes(), second.Bytes())
	hs.Append(Y0.Bytes(), Y1.Bytes(), Y2.Bytes())
	return hs.Derive()
}

// ProveCiphertextCommitment proves that ct, decryptable with secret s,
// holds the value x that comm commits to with blinding factor b
//
//	comm = x*G + b*H
func ProveCiphertextCommitment(s ristretto.Scalar, ct elgamal.Ciphertext, comm ristretto.Point, x, b ristretto.Scalar) EqualityProof {

	var pk ristretto.Point
	pk.ScalarMultBase(&s)

	var yS, yX, yR ristretto.Scalar
	yS.Rand()
	yX.Rand()
	yR.Rand()

	// Y0 = yS*G
	var Y0 ristretto.Point
	Y0.ScalarMultBase(&yS)

	// Y1 = yX*G + yS*Handle
	var yXG, ySD, Y1 ristretto.Point
	yXG.ScalarMultBase(&yX)
	ySD.ScalarMult(&ct.Handle, &yS)
	Y1.Add(&yXG, &ySD)

	// Y2 = yX*G + yR*H
	H := pedersen.BlindBase()
	var yRH, Y2 ristretto.Point
	yRH.ScalarMult(&H, &yR)
	Y2.Add(&yXG, &yRH)

	c := equalityChallenge(pk, ct, comm, Y0, Y1, Y2)

	var zS, zX, zR ristretto.Scalar
	zS.MulAdd(&c, &s, &yS)
	zX.MulAdd(&c, &x, &yX)
	zR.MulAdd(&c, &b, &yR)

	return EqualityProof{
		Y0: Y0,
		Y1: Y1,
		Y2: Y2,
		ZS: zS,
		ZX: zX,
		ZR: zR,
	}
}

// VerifyCiphertextCommitment checks the proof against the public key,
// the ciphertext and the commitment
func (p *EqualityProof) VerifyCiphertextCommitment(pk ristretto.Point, ct elgamal.Ciphertext, comm ristretto.Point) bool {

	c := equalityChallenge(pk, ct, comm, p.Y0, p.Y1, p.Y2)

	// zS*G == Y0 + c*P
	var zSG, cP, rhs ristretto.Point
	zSG.ScalarMultBase(&p.ZS)
	cP.ScalarMult(&pk, &c)
	rhs.Add(&p.Y0, &cP)
	if !zSG.Equals(&rhs) {
		return false
	}

	// zX*G + zS*Handle == Y1 + c*Commitment
	var zXG, zSD, lhs ristretto.Point
	zXG.ScalarMultBase(&p.ZX)
	zSD.ScalarMult(&ct.Handle, &p.ZS)
	lhs.Add(&zXG, &zSD)

	var cC ristretto.Point
	cC.ScalarMult(&ct.Commitment, &c)
	rhs.Add(&p.Y1, &cC)
	if !lhs.Equals(&rhs) {
		return false
	}

	// zX*G + zR*H == Y2 + c*comm
	H := pedersen.BlindBase()
	var zRH ristretto.Point
	zRH.ScalarMult(&H, &p.ZR)
	lhs.Add(&zXG, &zRH)

	var cComm ristretto.Point
	cComm.ScalarMult(&comm, &c)
	rhs.Add(&p.Y2, &cComm)

	return lhs.Equals(&rhs)
}

// ProveCiphertextCiphertext proves that ct, decryptable with secret s,
// holds the same value x as a second ciphertext encrypted under dstPK
// with randomness r
//
//	ct2.Commitment = r*Pdst + x*G
func ProveCiphertextCiphertext(s ristretto.Scalar, ct elgamal.Ciphertext, dstPK ristretto.Point, ct2 elgamal.Ciphertext, x, r ristretto.Scalar) EqualityProof {

	var pk ristretto.Point
	pk.ScalarMultBase(&s)

	var yS, yX, yR ristretto.Scalar
	yS.Rand()
	yX.Rand()
	yR.Rand()

	// Y0 = yS*G
	var Y0 ristretto.Point
	Y0.ScalarMultBase(&yS)

	// Y1 = yX*G + yS*Handle
	var yXG, ySD, Y1 ristretto.Point
	yXG.ScalarMultBase(&yX)
	ySD.ScalarMult(&ct.Handle, &yS)
	Y1.Add(&yXG, &ySD)

	// Y2 = yX*G + yR*Pdst
	var yRP, Y2 ristretto.Point
	yRP.ScalarMult(&dstPK, &yR)
	Y2.Add(&yXG, &yRP)

	c := ciphertextEqualityChallenge(pk, ct, dstPK, ct2, Y0, Y1, Y2)

	var zS, zX, zR ristretto.Scalar
	zS.MulAdd(&c, &s, &yS)
	zX.MulAdd(&c, &x, &yX)
	zR.MulAdd(&c, &r, &yR)

	return EqualityProof{
		Y0: Y0,
		Y1: Y1,
		Y2: Y2,
		ZS: zS,
		ZX: zX,
		ZR: zR,
	}
}

func ciphertextEqualityChallenge(pk ristretto.Point, ct elgamal.Ciphertext, dstPK ristretto.Point, ct2 elgamal.Ciphertext, Y0, Y1, Y2 ristretto.Point) ristretto.Scalar {
	hs := fiatshamir.HashCacher{Cache: []byte{}}
	hs.Append(pk.Bytes(), ct.Commitment.Bytes(), ct.Handle.Bytes())
	hs.Append(dstPK.Bytes(), ct2.Commitment.Bytes(), ct2.Handle.Bytes())
	hs.Append(Y0.Bytes(), Y1.Bytes(), Y2.Bytes())
	return hs.Derive()
}

// VerifyCiphertextCiphertext checks the proof against both
// ciphertexts and their keys
func (p *EqualityProof) VerifyCiphertextCiphertext(pk ristretto.Point, ct elgamal.Ciphertext, dstPK ristretto.Point, ct2 elgamal.Ciphertext) bool {

	c := ciphertextEqualityChallenge(pk, ct, dstPK, ct2, p.Y0, p.Y1, p.Y2)

	// zS*G == Y0 + c*P
	var zSG, cP, rhs ristretto.Point
	zSG.ScalarMultBase(&p.ZS)
	cP.ScalarMult(&pk, &c)
	rhs.Add(&p.Y0, &cP)
	if !zSG.Equals(&rhs) {
		return false
	}

	// zX*G + zS*Handle == Y1 + c*Commitment
	var zXG, zSD, lhs ristretto.Point
	zXG.ScalarMultBase(&p.ZX)
	zSD.ScalarMult(&ct.Handle, &p.ZS)
	lhs.Add(&zXG, &zSD)

	var cC ristretto.Point
	cC.ScalarMult(&ct.Commitment, &c)
	rhs.Add(&p.Y1, &cC)
	if !lhs.Equals(&rhs) {
		return false
	}

	// zX*G + zR*Pdst == Y2 + c*ct2.Commitment
	var zRP ristretto.Point
	zRP.ScalarMult(&dstPK, &p.ZR)
	lhs.Add(&zXG, &zRP)

	var cC2 ristretto.Point
	cC2.ScalarMult(&ct2.Commitment, &c)
	rhs.Add(&p.Y2, &cC2)

	return lhs.Equals(&rhs)
}

// Encode the proof to w
func (p *EqualityProof) Encode(w io.Writer) error {
	for _, pt := range []*ristretto.Point{&p.Y0, &p.Y1, &p.Y2} {
		if _, err := w.Write(pt.Bytes()); err != nil {
			return err
		}
	}
	for _, s := range []*ristretto.Scalar{&p.ZS, &p.ZX, &p.ZR} {
		if _, err := w.Write(s.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Decode the proof from r
func (p *EqualityProof) Decode(r io.Reader) error {
	for _, pt := range []*ristretto.Point{&p.Y0, &p.Y1, &p.Y2} {
		if err := readerToPoint(r, pt); err != nil {
			return err
		}
	}
	for _, s := range []*ristretto.Scalar{&p.ZS, &p.ZX, &p.ZR} {
		if err := readerToScalar(r, s); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the fixed length serialization of the proof
func (p *EqualityProof) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, EqualityProofSize))
	_ = p.Encode(buf)
	return buf.Bytes()
}

// FromBytes deserializes the proof from a fixed length byte slice
func (p *EqualityProof) FromBytes(b []byte) error {
	if len(b) != EqualityProofSize {
		return ErrProofSize
	}
	return p.Decode(bytes.NewReader(b))
}
