package transactions

import (
	"bytes"
	"io"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
	"github.com/umbra-network/umbra-go/pkg/crypto/sigma"
)

// TransferProofSize is the serialized length of a TransferProof
const TransferProofSize = 1316

// TransferProof lets a verifier update two encrypted balances without
// learning the amount moved. The verifier recomputes the amount
// ciphertext under the source key as balanceCt - NewSourceCiphertext,
// so conservation holds by construction.
type TransferProof struct {
	// AmountCommitment commits to the transferred amount
	AmountCommitment pedersen.Commitment
	// NewSourceCommitment commits to the source balance after the transfer
	NewSourceCommitment pedersen.Commitment
	// NewSourceCiphertext is the source balance after the transfer
	NewSourceCiphertext elgamal.Ciphertext
	// DestCiphertext encrypts the amount under the destination key
	DestCiphertext elgamal.Ciphertext
	// Equality ties NewSourceCiphertext to NewSourceCommitment
	Equality sigma.EqualityProof
	// Validity ties the amount ciphertexts to AmountCommitment
	Validity sigma.TransferValidityProof
	// RangeProof shows the new balance and the amount are in range
	RangeProof rangeproof.Proof
}

// GenerateTransfer builds a proof that moves amount from the source
// account to the destination. balanceCt is the source's current
// encrypted balance and balance its plaintext value; if the claimed
// balance does not match the ciphertext the resulting proof will not
// verify.
func GenerateTransfer(src *elgamal.Keypair, dstPK ristretto.Point, balanceCt elgamal.Ciphertext, balance, amount uint64) (*TransferProof, error) {

	if amount > balance {
		return nil, ErrInsufficientBalance
	}

	amountScalar := scalarFromUint64(amount)
	newBalanceScalar := scalarFromUint64(balance - amount)

	// encrypt the amount under both keys with shared randomness,
	// so the handles coincide
	var r ristretto.Scalar
	r.Rand()

	ctSrc := elgamal.EncryptWith(src.PublicKey, amountScalar, r)
	ctDst := elgamal.EncryptWith(dstPK, amountScalar, r)

	newCt := elgamal.Sub(balanceCt, ctSrc)

	// one aggregated range proof over the new balance and the amount
	rp, err := rangeproof.Prove([]ristretto.Scalar{newBalanceScalar, amountScalar}, false)
	if err != nil {
		return nil, err
	}

	newSourceComm := rp.V[0]
	amountComm := rp.V[1]

	equality := sigma.ProveCiphertextCommitment(src.Secret(), newCt, newSourceComm.Value, newBalanceScalar, newSourceComm.BlindingFactor)

	validity := sigma.ProveTransferValidity(src.PublicKey, dstPK, ctSrc, ctDst, amountComm.Value, amountScalar, r, amountComm.BlindingFactor)

	log.Debugln("generated transfer proof")

	return &TransferProof{
		AmountCommitment:    amountComm,
		NewSourceCommitment: newSourceComm,
		NewSourceCiphertext: newCt,
		DestCiphertext:      ctDst,
		Equality:            equality,
		Validity:            validity,
		RangeProof:          rp,
	}, nil
}

// VerifyTransfer checks the proof against the source's current
// encrypted balance. On success the caller replaces the source balance
// with NewSourceCiphertext and adds DestCiphertext to the destination.
func VerifyTransfer(srcPK, dstPK ristretto.Point, balanceCt elgamal.Ciphertext, p *TransferProof) (bool, error) {

	// the amount ciphertext under the source key is implied by
	// the balance update
	ctSrc := elgamal.Sub(balanceCt, p.NewSourceCiphertext)

	if !p.Validity.Verify(srcPK, dstPK, ctSrc, p.DestCiphertext, p.AmountCommitment.Value) {
		return false, nil
	}

	if !p.Equality.VerifyCiphertextCommitment(srcPK, p.NewSourceCiphertext, p.NewSourceCommitment.Value) {
		return false, nil
	}

	// the range proof must cover exactly the two commitments the
	// sigma proofs are tied to
	if len(p.RangeProof.V) != 2 {
		return false, ErrProofSize
	}
	if !p.RangeProof.V[0].EqualValue(p.NewSourceCommitment) {
		return false, nil
	}
	if !p.RangeProof.V[1].EqualValue(p.AmountCommitment) {
		return false, nil
	}

	ok, err := rangeproof.Verify(p.RangeProof)
	if err != nil {
		return false, err
	}

	log.Debugln("verified transfer proof")

	return ok, nil
}

// Encode the proof bundle to w
func (p *TransferProof) Encode(w io.Writer) error {

	if err := p.AmountCommitment.Encode(w); err != nil {
		return err
	}
	if err := p.NewSourceCommitment.Encode(w); err != nil {
		return err
	}
	if err := p.NewSourceCiphertext.Encode(w); err != nil {
		return err
	}
	if err := p.DestCiphertext.Encode(w); err != nil {
		return err
	}
	if err := p.Equality.Encode(w); err != nil {
		return err
	}
	if err := p.Validity.Encode(w); err != nil {
		return err
	}
	return p.RangeProof.Encode(w, true)
}

// Decode the proof bundle from r
func (p *TransferProof) Decode(r io.Reader) error {

	if err := p.AmountCommitment.Decode(r); err != nil {
		return err
	}
	if err := p.NewSourceCommitment.Decode(r); err != nil {
		return err
	}
	if err := p.NewSourceCiphertext.Decode(r); err != nil {
		return err
	}
	if err := p.DestCiphertext.Decode(r); err != nil {
		return err
	}
	if err := p.Equality.Decode(r); err != nil {
		return err
	}
	if err := p.Validity.Decode(r); err != nil {
		return err
	}
	return p.RangeProof.Decode(r, true)
}

// Bytes returns the fixed length serialization of the proof bundle
func (p *TransferProof) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, TransferProofSize))
	if err := p.Encode(buf); err != nil {
		return nil, err
	}
	if buf.Len() != TransferProofSize {
		return nil, ErrProofSize
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes the proof bundle from a fixed length byte slice
func (p *TransferProof) FromBytes(b []byte) error {
	if len(b) != TransferProofSize {
		return ErrProofSize
	}
	return p.Decode(bytes.NewReader(b))
}
