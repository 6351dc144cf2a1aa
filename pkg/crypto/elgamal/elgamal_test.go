package elgamal

import (
	"bytes"
	"math/big"
	"testing"

	ristretto "github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
)

func scalarFromUint64(v uint64) ristretto.Scalar {
	var s ristretto.Scalar
	s.SetBigInt(new(big.Int).SetUint64(v))
	return s
}

func TestEncryptDecrypt(t *testing.T) {

	kp := NewKeypair()

	for _, v := range []uint64{0, 1, 2, 57, 300, 1000} {

		ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(v))

		got, err := kp.Decrypt(ct, 1000)
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
}

func TestDecryptZeroFastPath(t *testing.T) {

	kp := NewKeypair()

	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(0))

	// a zero bound still decrypts a zero balance
	got, err := kp.Decrypt(ct, 0)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestDecryptOutOfBound(t *testing.T) {

	kp := NewKeypair()

	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(501))

	_, err := kp.Decrypt(ct, 500)
	assert.Equal(t, ErrDecryptionFailed, err)

	// the maximum encryptable value is far beyond any practical bound
	ct, _ = Encrypt(kp.PublicKey, scalarFromUint64(1<<64-1))

	_, err = kp.Decrypt(ct, 500)
	assert.Equal(t, ErrDecryptionFailed, err)
}

func TestDecryptWrongKey(t *testing.T) {

	kp := NewKeypair()
	other := NewKeypair()

	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(42))

	_, err := other.Decrypt(ct, 100)
	assert.Equal(t, ErrDecryptionFailed, err)
}

func TestDecryptZeroSecret(t *testing.T) {

	kp := NewKeypair()
	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(5))

	kp.Wipe()

	_, err := kp.Decrypt(ct, 100)
	assert.Equal(t, ErrInvalidSecretKey, err)
}

func TestHomomorphicAddSub(t *testing.T) {

	kp := NewKeypair()

	ctA, _ := Encrypt(kp.PublicKey, scalarFromUint64(100))
	ctB, _ := Encrypt(kp.PublicKey, scalarFromUint64(250))

	sum := Add(ctA, ctB)
	got, err := kp.Decrypt(sum, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(350), got)

	diff := Sub(sum, ctA)
	got, err = kp.Decrypt(diff, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(250), got)
}

func TestSharedRandomness(t *testing.T) {

	src := NewKeypair()
	dst := NewKeypair()

	var r ristretto.Scalar
	r.Rand()

	amount := scalarFromUint64(77)

	ctSrc := EncryptWith(src.PublicKey, amount, r)
	ctDst := EncryptWith(dst.PublicKey, amount, r)

	// both parties recover the same value, and the handles coincide
	assert.True(t, ctSrc.Handle.Equals(&ctDst.Handle))

	got, err := src.Decrypt(ctSrc, 100)
	assert.Nil(t, err)
	assert.Equal(t, uint64(77), got)

	got, err = dst.Decrypt(ctDst, 100)
	assert.Nil(t, err)
	assert.Equal(t, uint64(77), got)
}

func TestPlainCiphertext(t *testing.T) {

	ct := PlainCiphertext(scalarFromUint64(33))

	// no randomness, so any secret opens it
	kp := NewKeypair()
	got, err := kp.Decrypt(ct, 100)
	assert.Nil(t, err)
	assert.Equal(t, uint64(33), got)
}

func TestEncodeDecode(t *testing.T) {

	kp := NewKeypair()
	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(12))

	buf := &bytes.Buffer{}
	err := ct.Encode(buf)
	assert.Nil(t, err)
	assert.Equal(t, Size, buf.Len())

	var decoded Ciphertext
	err = decoded.Decode(buf)
	assert.Nil(t, err)
	assert.True(t, ct.Equals(decoded))
}

func TestBytesRoundTrip(t *testing.T) {

	kp := NewKeypair()
	ct, _ := Encrypt(kp.PublicKey, scalarFromUint64(9000))

	b := ct.Bytes()
	assert.Equal(t, Size, len(b))

	var decoded Ciphertext
	err := decoded.FromBytes(b)
	assert.Nil(t, err)
	assert.True(t, ct.Equals(decoded))

	err = decoded.FromBytes(b[:63])
	assert.Equal(t, ErrCiphertextSize, err)
}
