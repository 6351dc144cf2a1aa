package transactions

import (
	"bytes"
	"encoding/binary"
	"io"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
	"github.com/umbra-network/umbra-go/pkg/crypto/sigma"
)

// WithdrawProofSize is the serialized length of a WithdrawProof
const WithdrawProofSize = 1004

// WithdrawProof removes a public amount from an encrypted balance.
// The amount is in the clear; the proof shows the remaining balance
// is still in range, so the account cannot overdraw.
type WithdrawProof struct {
	// Amount is the public amount withdrawn
	Amount uint64
	// NewSourceCommitment commits to the balance after the withdrawal
	NewSourceCommitment pedersen.Commitment
	// NewSourceCiphertext is the balance after the withdrawal
	NewSourceCiphertext elgamal.Ciphertext
	// Equality ties NewSourceCiphertext to NewSourceCommitment
	Equality sigma.EqualityProof
	// RangeProof shows the new balance is in range
	RangeProof rangeproof.Proof
}

// GenerateWithdraw builds a proof that removes amount from the
// source's encrypted balance
func GenerateWithdraw(src *elgamal.Keypair, balanceCt elgamal.Ciphertext, balance, amount uint64) (*WithdrawProof, error) {

	if amount > balance {
		return nil, ErrInsufficientBalance
	}

	newBalanceScalar := scalarFromUint64(balance - amount)

	// a public amount has no randomness to hide
	amountCt := elgamal.PlainCiphertext(scalarFromUint64(amount))
	newCt := elgamal.Sub(balanceCt, amountCt)

	rp, err := rangeproof.Prove([]ristretto.Scalar{newBalanceScalar}, false)
	if err != nil {
		return nil, err
	}

	newSourceComm := rp.V[0]

	equality := sigma.ProveCiphertextCommitment(src.Secret(), newCt, newSourceComm.Value, newBalanceScalar, newSourceComm.BlindingFactor)

	log.Debugln("generated withdraw proof")

	return &WithdrawProof{
		Amount:              amount,
		NewSourceCommitment: newSourceComm,
		NewSourceCiphertext: newCt,
		Equality:            equality,
		RangeProof:          rp,
	}, nil
}

// VerifyWithdraw checks the proof against the source's current
// encrypted balance. On success the caller replaces the balance with
// NewSourceCiphertext and releases Amount.
func VerifyWithdraw(srcPK ristretto.Point, balanceCt elgamal.Ciphertext, p *WithdrawProof) (bool, error) {

	// the new balance must be the old one minus the public amount
	amountCt := elgamal.PlainCiphertext(scalarFromUint64(p.Amount))
	want := elgamal.Sub(balanceCt, amountCt)
	if !want.Equals(p.NewSourceCiphertext) {
		return false, nil
	}

	if !p.Equality.VerifyCiphertextCommitment(srcPK, p.NewSourceCiphertext, p.NewSourceCommitment.Value) {
		return false, nil
	}

	if len(p.RangeProof.V) != 1 {
		return false, ErrProofSize
	}
	if !p.RangeProof.V[0].EqualValue(p.NewSourceCommitment) {
		return false, nil
	}

	ok, err := rangeproof.Verify(p.RangeProof)
	if err != nil {
		return false, err
	}

	log.Debugln("verified withdraw proof")

	return ok, nil
}

// Encode the proof bundle to w
func (p *WithdrawProof) Encode(w io.Writer) error {

	if err := binary.Write(w, binary.LittleEndian, p.Amount); err != nil {
		return err
	}
	if err := p.NewSourceCommitment.Encode(w); err != nil {
		return err
	}
	if err := p.NewSourceCiphertext.Encode(w); err != nil {
		return err
	}
	if err := p.Equality.Encode(w); err != nil {
		return err
	}
	return p.RangeProof.Encode(w, true)
}

// Decode the proof bundle from r
func (p *WithdrawProof) Decode(r io.Reader) error {

	if err := binary.Read(r, binary.LittleEndian, &p.Amount); err != nil {
		return err
	}
	if err := p.NewSourceCommitment.Decode(r); err != nil {
		return err
	}
	if err := p.NewSourceCiphertext.Decode(r); err != nil {
		return err
	}
	if err := p.Equality.Decode(r); err != nil {
		return err
	}
	return p.RangeProof.Decode(r, true)
}

// Bytes returns the fixed length serialization of the proof bundle
func (p *WithdrawProof) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, WithdrawProofSize))
	if err := p.Encode(buf); err != nil {
		return nil, err
	}
	if buf.Len() != WithdrawProofSize {
		return nil, ErrProofSize
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes the proof bundle from a fixed length byte slice
func (p *WithdrawProof) FromBytes(b []byte) error {
	if len(b) != WithdrawProofSize {
		return ErrProofSize
	}
	return p.Decode(bytes.NewReader(b))
}
