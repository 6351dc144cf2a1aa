package transactions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
)

func TestWithdrawRoundTrip(t *testing.T) {

	src := elgamal.NewKeypair()

	balance := uint64(1000)
	amount := uint64(400)

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(balance))

	proof, err := GenerateWithdraw(src, balanceCt, balance, amount)
	assert.Nil(t, err)
	assert.Equal(t, amount, proof.Amount)

	ok, err := VerifyWithdraw(src.PublicKey, balanceCt, proof)
	assert.Nil(t, err)
	assert.True(t, ok)

	got, err := src.Decrypt(proof.NewSourceCiphertext, balance)
	assert.Nil(t, err)
	assert.Equal(t, balance-amount, got)
}

func TestWithdrawFullBalance(t *testing.T) {

	src := elgamal.NewKeypair()

	balance := uint64(750)

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(balance))

	proof, err := GenerateWithdraw(src, balanceCt, balance, balance)
	assert.Nil(t, err)

	ok, err := VerifyWithdraw(src.PublicKey, balanceCt, proof)
	assert.Nil(t, err)
	assert.True(t, ok)

	got, err := src.Decrypt(proof.NewSourceCiphertext, balance)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestWithdrawInsufficientBalance(t *testing.T) {

	src := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(100))

	_, err := GenerateWithdraw(src, balanceCt, 100, 101)
	assert.Equal(t, ErrInsufficientBalance, err)
}

func TestWithdrawTamperedAmount(t *testing.T) {

	src := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateWithdraw(src, balanceCt, 1000, 400)
	assert.Nil(t, err)

	// claim a smaller public amount after the fact
	proof.Amount = 300

	ok, _ := VerifyWithdraw(src.PublicKey, balanceCt, proof)
	assert.False(t, ok)
}

func TestWithdrawClaimedBalanceMismatch(t *testing.T) {

	src := elgamal.NewKeypair()

	// the ciphertext holds 100 but the prover claims 1000
	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(100))

	proof, err := GenerateWithdraw(src, balanceCt, 1000, 400)
	assert.Nil(t, err)

	ok, _ := VerifyWithdraw(src.PublicKey, balanceCt, proof)
	assert.False(t, ok)
}

func TestWithdrawProofBytes(t *testing.T) {

	src := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateWithdraw(src, balanceCt, 1000, 250)
	assert.Nil(t, err)

	b, err := proof.Bytes()
	assert.Nil(t, err)
	assert.Equal(t, WithdrawProofSize, len(b))

	var decoded WithdrawProof
	err = decoded.FromBytes(b)
	assert.Nil(t, err)

	ok, err := VerifyWithdraw(src.PublicKey, balanceCt, &decoded)
	assert.Nil(t, err)
	assert.True(t, ok)

	err = decoded.FromBytes(b[:WithdrawProofSize-1])
	assert.Equal(t, ErrProofSize, err)
}

func TestWithdrawProofCorruptedCommitmentCount(t *testing.T) {

	src := elgamal.NewKeypair()

	balanceCt, _ := elgamal.Encrypt(src.PublicKey, scalarFromUint64(1000))

	proof, err := GenerateWithdraw(src, balanceCt, 1000, 250)
	assert.Nil(t, err)

	b, err := proof.Bytes()
	assert.Nil(t, err)

	// the range proof commitment count prefix sits after the amount,
	// commitment, ciphertext and equality proof
	for i := 296; i < 300; i++ {
		b[i] = 0xFF
	}

	var decoded WithdrawProof
	err = decoded.FromBytes(b)
	assert.NotNil(t, err)
}
