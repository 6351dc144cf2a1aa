package transactions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
)

func TestTransferRoundTrip(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balance := uint64(1000)
	amount := uint64(300)

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(balance))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, balance, amount)
	assert.Nil(t, err)

	ok, err := VerifyTransfer(src.PublicKey, dst.PublicKey, balanceCt, proof)
	assert.Nil(t, err)
	assert.True(t, ok)

	// conservation: the source is left with balance - amount and the
	// destination receives exactly amount
	got, err := src.Decrypt(proof.NewSourceCiphertext, balance)
	assert.Nil(t, err)
	assert.Equal(t, balance-amount, got)

	got, err = dst.Decrypt(proof.DestCiphertext, balance)
	assert.Nil(t, err)
	assert.Equal(t, amount, got)
}

func TestTransferFullBalance(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balance := uint64(500)

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(balance))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, balance, balance)
	assert.Nil(t, err)

	ok, err := VerifyTransfer(src.PublicKey, dst.PublicKey, balanceCt, proof)
	assert.Nil(t, err)
	assert.True(t, ok)

	got, err := src.Decrypt(proof.NewSourceCiphertext, balance)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestTransferInsufficientBalance(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(100))

	_, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 100, 101)
	assert.Equal(t, ErrInsufficientBalance, err)
}

func TestTransferClaimedBalanceMismatch(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	// the ciphertext holds 100 but the prover claims 1000
	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(100))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 1000, 300)
	assert.Nil(t, err)

	ok, _ := VerifyTransfer(src.PublicKey, dst.PublicKey, balanceCt, proof)
	assert.False(t, ok)
}

func TestTransferWrongBalanceCiphertext(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))
	otherCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(900))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 1000, 300)
	assert.Nil(t, err)

	// verifying against a different balance ciphertext must fail
	ok, _ := VerifyTransfer(src.PublicKey, dst.PublicKey, otherCt, proof)
	assert.False(t, ok)
}

func TestTransferSwappedKeys(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 1000, 300)
	assert.Nil(t, err)

	ok, _ := VerifyTransfer(dst.PublicKey, src.PublicKey, balanceCt, proof)
	assert.False(t, ok)
}

func TestTransferProofBytes(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 1000, 250)
	assert.Nil(t, err)

	b, err := proof.Bytes()
	assert.Nil(t, err)
	assert.Equal(t, TransferProofSize, len(b))

	var decoded TransferProof
	err = decoded.FromBytes(b)
	assert.Nil(t, err)

	ok, err := VerifyTransfer(src.PublicKey, dst.PublicKey, balanceCt, &decoded)
	assert.Nil(t, err)
	assert.True(t, ok)

	err = decoded.FromBytes(b[:TransferProofSize-1])
	assert.Equal(t, ErrProofSize, err)
}

func TestTransferProofCorruptedCommitmentCount(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateTransfer(src, dst.PublicKey, balanceCt, 1000, 250)
	assert.Nil(t, err)

	b, err := proof.Bytes()
	assert.Nil(t, err)

	// the range proof commitment count prefix sits after the two
	// commitments, two ciphertexts and two sigma proofs
	for i := 512; i < 516; i++ {
		b[i] = 0xFF
	}

	var decoded TransferProof
	err = decoded.FromBytes(b)
	assert.NotNil(t, err)
}
