package sigma

import (
	"testing"

	ristretto "github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"

	"github.com/umbra-network/umbra-go/pkg/crypto/elgamal"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
)

func TestCiphertextCommitmentEquality(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(750)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(x, b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	assert.True(t, proof.VerifyCiphertextCommitment(kp.PublicKey, ct, comm.Value))
}

func TestCiphertextCommitmentEqualityAfterSubtraction(t *testing.T) {

	// the statement survives homomorphic arithmetic on the ciphertext
	kp := elgamal.NewKeypair()

	balance := scalarFromUint64(1000)
	amount := scalarFromUint64(300)
	remaining := scalarFromUint64(700)

	balanceCt, _ := elgamal.Encrypt(kp.PublicKey, balance)
	amountCt, _ := elgamal.Encrypt(kp.PublicKey, amount)

	newCt := elgamal.Sub(balanceCt, amountCt)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(remaining, b)

	proof := ProveCiphertextCommitment(kp.Secret(), newCt, comm.Value, remaining, b)

	assert.True(t, proof.VerifyCiphertextCommitment(kp.PublicKey, newCt, comm.Value))
}

func TestCiphertextCommitmentEqualityWrongValue(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(750)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	// commitment opens to a different value
	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(scalarFromUint64(751), b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	assert.False(t, proof.VerifyCiphertextCommitment(kp.PublicKey, ct, comm.Value))
}

func TestCiphertextCommitmentEqualityTampered(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(10)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(x, b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	var one ristretto.Scalar
	one.SetOne()
	proof.ZX.Add(&proof.ZX, &one)

	assert.False(t, proof.VerifyCiphertextCommitment(kp.PublicKey, ct, comm.Value))
}

func TestCiphertextCiphertextEquality(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	x := scalarFromUint64(555)

	ct, _ := elgamal.Encrypt(src.PublicKey, x)
	ct2, r := elgamal.Encrypt(dst.PublicKey, x)

	proof := ProveCiphertextCiphertext(src.Secret(), ct, dst.PublicKey, ct2, x, r)

	assert.True(t, proof.VerifyCiphertextCiphertext(src.PublicKey, ct, dst.PublicKey, ct2))
}

func TestCiphertextCiphertextEqualityWrongValue(t *testing.T) {

	src := elgamal.NewKeypair()
	dst := elgamal.NewKeypair()

	x := scalarFromUint64(555)

	ct, _ := elgamal.Encrypt(src.PublicKey, x)
	ct2, r := elgamal.Encrypt(dst.PublicKey, scalarFromUint64(556))

	proof := ProveCiphertextCiphertext(src.Secret(), ct, dst.PublicKey, ct2, x, r)

	assert.False(t, proof.VerifyCiphertextCiphertext(src.PublicKey, ct, dst.PublicKey, ct2))
}

func TestEqualityProofBytes(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(88)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(x, b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	buf := proof.Bytes()
	assert.Equal(t, EqualityProofSize, len(buf))

	var decoded EqualityProof
	err := decoded.FromBytes(buf)
	assert.Nil(t, err)
	assert.True(t, decoded.VerifyCiphertextCommitment(kp.PublicKey, ct, comm.Value))

	err = decoded.FromBytes(buf[:100])
	assert.Equal(t, ErrProofSize, err)
}

func TestEqualityProofNonCanonicalScalar(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(88)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(x, b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	// overwrite ZS, the first scalar after the three points
	buf := proof.Bytes()
	copy(buf[96:128], orderBytes)

	var decoded EqualityProof
	err := decoded.FromBytes(buf)
	assert.NotNil(t, err)
}

func TestEqualityProofTamperedBytes(t *testing.T) {

	kp := elgamal.NewKeypair()

	x := scalarFromUint64(42)
	ct, _ := elgamal.Encrypt(kp.PublicKey, x)

	var b ristretto.Scalar
	b.Rand()

	ped := pedersen.New([]byte("umbra.BulletProof.vec1"))
	comm := ped.CommitToScalarWithBlind(x, b)

	proof := ProveCiphertextCommitment(kp.Secret(), ct, comm.Value, x, b)

	buf := proof.Bytes()

	// flipping any byte of the wire form must break either decoding
	// or verification
	for i := range buf {
		corrupted := make([]byte, len(buf))
		copy(corrupted, buf)
		corrupted[i] ^= 1

		var decoded EqualityProof
		if err := decoded.FromBytes(corrupted); err != nil {
			continue
		}

		assert.False(t, decoded.VerifyCiphertextCommitment(kp.PublicKey, ct, comm.Value), "flipped byte %d went undetected", i)
	}
}
