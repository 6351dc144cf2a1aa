package sigma

import (
	"bytes"
	"io"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/fiatshamir"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
)

// ValidityProofSize is the serialized length of a ValidityProof
const ValidityProofSize = 96

// TransferValidityProofSize is the serialized length of a TransferValidityProof
const TransferValidityProofSize = 128

// ValidityProof shows that a ciphertext under a public key P is well
// formed, i.e. the prover knows v and r with
// Commitment = r*P + v*G and Handle = r*G
type ValidityProof struct {
	C  ristretto.Scalar
	ZV ristretto.Scalar
	ZR ristretto.Scalar
}

func validityChallenge(pk ristretto.Point, ct elgamal.Ciphertext, R1, R2 ristretto.Point) ristretto.Scalar {
	hs := fiatshamir.HashCacher{Cache: []byte{}}
	hs.Append(pk.Bytes(), ct.Commitment.Bytes(), ct.Handle.Bytes(), R1.Bytes(), R2.Bytes())
	return hs.Derive()
}

// ProveValidity proves that ct encrypts v under pk with randomness r
func ProveValidity(pk ristretto.Point, ct elgamal.Ciphertext, v, r ristretto.Scalar) ValidityProof {

	var yV, yR ristretto.Scalar
	yV.Rand()
	yR.Rand()

	// R1 = yV*G + yR*P
	var yVG, yRP, R1 ristretto.Point
	yVG.ScalarMultBase(&yV)
	yRP.ScalarMult(&pk, &yR)
	R1.Add(&yVG, &yRP)

	// R2 = yR*G
	var R2 ristretto.Point
	R2.ScalarMultBase(&yR)

	c := validityChallenge(pk, ct, R1, R2)

	// zV = yV + c*v, zR = yR + c*r
	var zV, zR ristretto.Scalar
	zV.MulAdd(&c, &v, &yV)
	zR.MulAdd(&c, &r, &yR)

	return ValidityProof{
		C:  c,
		ZV: zV,
		ZR: zR,
	}
}

// Verify checks the proof against pk and ct
func (p *ValidityProof) Verify(pk ristretto.Point, ct elgamal.Ciphertext) bool {

	// R1 = zV*G + zR*P - c*Commitment
	var zVG, zRP, cC, R1 ristretto.Point
	zVG.ScalarMultBase(&p.ZV)
	zRP.ScalarMult(&pk, &p.ZR)
	cC.ScalarMult(&ct.Commitment, &p.C)
	R1.Add(&zVG, &zRP)
	R1.Sub(&R1, &cC)

	// R2 = zR*G - c*Handle
	var zRG, cD, R2 ristretto.Point
	zRG.ScalarMultBase(&p.ZR)
	cD.ScalarMult(&ct.Handle, &p.C)
	R2.Sub(&zRG, &cD)

	c := validityChallenge(pk, ct, R1, R2)

	return c.Equals(&p.C)
}

// Encode the proof to w
func (p *ValidityProof) Encode(w io.Writer) error {
	for _, s := range []*ristretto.Scalar{&p.C, &p.ZV, &p.ZR} {
		if _, err := w.Write(s.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Decode the proof from r
func (p *ValidityProof) Decode(r io.Reader) error {
	for _, s := range []*ristretto.Scalar{&p.C, &p.ZV, &p.ZR} {
		if err := readerToScalar(r, s); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the fixed length serialization of the proof
func (p *ValidityProof) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, ValidityProofSize))
	_ = p.Encode(buf)
	return buf.Bytes()
}

// FromBytes deserializes the proof from a fixed length byte slice
func (p *ValidityProof) FromBytes(b []byte) error {
	if len(b) != ValidityProofSize {
		return ErrProofSize
	}
	return p.Decode(bytes.NewReader(b))
}

// TransferValidityProof shows, with a single challenge, that two
// ciphertexts sharing one handle encrypt the same amount v under the
// source and destination keys, and that a Pedersen commitment opens
// to the same v:
//
//	CtSrc.Commitment = r*Psrc + v*G
//	CtDst.Commitment = r*Pdst + v*G
//	Handle           = r*G
//	V                = v*G + b*H
type TransferValidityProof struct {
	C  ristretto.Scalar
	ZV ristretto.Scalar
	ZR ristretto.Scalar
	ZB ristretto.Scalar
}

func transferValidityChallenge(srcPK, dstPK ristretto.Point, ctSrc, ctDst elgamal.Ciphertext, amountComm ristretto.Point, R1, R2, R3, R4 ristretto.Point) ristretto.Scalar {
	hs := fiatshamir.HashCacher{Cache: []byte{}}
	hs.Append(srcPK.Bytes(), dstPK.Bytes())
	hs.Append(ctSrc.Commitment.Bytes(), ctDst.Commitment.Bytes(), ctSrc.Handle.Bytes())
	hs.Append(amountComm.Bytes())
	hs.Append(R1.Bytes(), R2.Bytes(), R3.Bytes(), R4.Bytes())
	return hs.Derive()
}

// ProveTransferValidity proves that ctSrc and ctDst encrypt v with
// shared randomness r, and that amountComm commits to v with blinding
// factor b
func ProveTransferValidity(srcPK, dstPK ristretto.Point, ctSrc, ctDst elgamal.Ciphertext, amountComm ristretto.Point, v, r, b ristretto.Scalar) TransferValidityProof {

	var yV, yR, yB ristretto.Scalar
	yV.Rand()
	yR.Rand()
	yB.Rand()

	var yVG ristretto.Point
	yVG.ScalarMultBase(&yV)

	// R1 = yV*G + yR*Psrc
	var yRPsrc, R1 ristretto.Point
	yRPsrc.ScalarMult(&srcPK, &yR)
	R1.Add(&yVG, &yRPsrc)

	// R2 = yV*G + yR*Pdst
	var yRPdst, R2 ristretto.Point
	yRPdst.ScalarMult(&dstPK, &yR)
	R2.Add(&yVG, &yRPdst)

	// R3 = yR*G
	var R3 ristretto.Point
	R3.ScalarMultBase(&yR)

	// R4 = yV*G + yB*H
	H := pedersen.BlindBase()
	var yBH, R4 ristretto.Point
	yBH.ScalarMult(&H, &yB)
	R4.Add(&yVG, &yBH)

	c := transferValidityChallenge(srcPK, dstPK, ctSrc, ctDst, amountComm, R1, R2, R3, R4)

	var zV, zR, zB ristretto.Scalar
	zV.MulAdd(&c, &v, &yV)
	zR.MulAdd(&c, &r, &yR)
	zB.MulAdd(&c, &b, &yB)

	return TransferValidityProof{
		C:  c,
		ZV: zV,
		ZR: zR,
		ZB: zB,
	}
}

// Verify checks the proof against the two ciphertexts and the
// amount commitment
func (p *TransferValidityProof) Verify(srcPK, dstPK ristretto.Point, ctSrc, ctDst elgamal.Ciphertext, amountComm ristretto.Point) bool {

	// both ciphertexts must share the handle
	if !ctSrc.Handle.Equals(&ctDst.Handle) {
		return false
	}

	var zVG ristretto.Point
	zVG.ScalarMultBase(&p.ZV)

	// R1 = zV*G + zR*Psrc - c*CSrc
	var zRPsrc, cCSrc, R1 ristretto.Point
	zRPsrc.ScalarMult(&srcPK, &p.ZR)
	cCSrc.ScalarMult(&ctSrc.Commitment, &p.C)
	R1.Add(&zVG, &zRPsrc)
	R1.Sub(&R1, &cCSrc)

	// R2 = zV*G + zR*Pdst - c*CDst
	var zRPdst, cCDst, R2 ristretto.Point
	zRPdst.ScalarMult(&dstPK, &p.ZR)
	cCDst.ScalarMult(&ctDst.Commitment, &p.C)
	R2.Add(&zVG, &zRPdst)
	R2.Sub(&R2, &cCDst)

	// R3 = zR*G - c*Handle
	var zRG, cD, R3 ristretto.Point
	zRG.ScalarMultBase(&p.ZR)
	cD.ScalarMult(&ctSrc.Handle, &p.C)
	R3.Sub(&zRG, &cD)

	// R4 = zV*G + zB*H - c*V
	H := pedersen.BlindBase()
	var zBH, cV, R4 ristretto.Point
	zBH.ScalarMult(&H, &p.ZB)
	cV.ScalarMult(&amountComm, &p.C)
	R4.Add(&zVG, &zBH)
	R4.Sub(&R4, &cV)

	c := transferValidityChallenge(srcPK, dstPK, ctSrc, ctDst, amountComm, R1, R2, R3, R4)

	return c.Equals(&p.C)
}

// Encode the proof to w
func (p *TransferValidityProof) Encode(w io.Writer) error {
	for _, s := range []*ristretto.Scalar{&p.C, &p.ZV, &p.ZR, &p.ZB} {
		if _, err := w.Write(s.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Decode the proof from r
func (p *TransferValidityProof) Decode(r io.Reader) error {
	for _, s := range []*ristretto.Scalar{&p.C, &p.ZV, &p.ZR, &p.ZB} {
		if err := readerToScalar(r, s); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the fixed length serialization of the proof
func (p *TransferValidityProof) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, TransferValidityProofSize))
	_ = p.Encode(buf)
	return buf.Bytes()
}

// FromBytes deserializes the proof from a fixed length byte slice
func (p *TransferValidityProof) FromBytes(b []byte) error {
	if len(b) != TransferValidityProofSize {
		return ErrProofSize
	}
	return p.Decode(bytes.NewReader(b))
}
