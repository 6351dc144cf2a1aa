package elgamal

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"
)

// Size is the serialized length of a ciphertext
const Size = 64

var (
	// ErrInvalidSecretKey is returned when a secret key is zero
	ErrInvalidSecretKey = errors.New("secret key is not usable")
	// ErrDecryptionFailed is returned when no value within the
	// search bound decrypts the ciphertext
	ErrDecryptionFailed = errors.New("no value within the bound decrypts the ciphertext")
	// ErrCiphertextSize is returned when a serialized ciphertext
	// does not have the expected length
	ErrCiphertextSize = errors.New("ciphertext size mismatch")
	// ErrInvalidAddress is returned when a public address fails to
	// decode back into a public key
	ErrInvalidAddress = errors.New("address is not valid")
)

// Ciphertext is a twisted ElGamal encryption of a value
// under a public key P = sG
// Commitment = r*P + v*G
// Handle     = r*G
// The same value encrypted under two keys with the same r shares
// the commitment structure, which the transfer proofs rely on.
type Ciphertext struct {
	Commitment ristretto.Point
	Handle     ristretto.Point
}

// Encrypt encrypts v under pk with fresh randomness,
// returning the ciphertext along with the randomness used
func Encrypt(pk ristretto.Point, v ristretto.Scalar) (Ciphertext, ristretto.Scalar) {
	var r ristretto.Scalar
	r.Rand()
	return EncryptWith(pk, v, r), r
}

// EncryptWith encrypts v under pk using the caller supplied randomness.
// Callers that bind the ciphertext to a sigma proof need control over r.
func EncryptWith(pk ristretto.Point, v, r ristretto.Scalar) Ciphertext {

	// r*P + v*G
	var rP, vG, C ristretto.Point
	rP.ScalarMult(&pk, &r)
	vG.ScalarMultBase(&v)
	C.Add(&rP, &vG)

	// r*G
	var D ristretto.Point
	D.ScalarMultBase(&r)

	return Ciphertext{
		Commitment: C,
		Handle:     D,
	}
}

// PlainCiphertext encodes a public value as a ciphertext with zero
// randomness. The handle is the identity, so any secret key opens it.
func PlainCiphertext(v ristretto.Scalar) Ciphertext {

	var C ristretto.Point
	C.ScalarMultBase(&v)

	var D ristretto.Point
	D.SetZero()

	return Ciphertext{
		Commitment: C,
		Handle:     D,
	}
}

// Decrypt recovers the value from ct by cancelling the handle and
// walking the multiples of the base point up to max. The scheme only
// supports small plaintext spaces; max bounds the search.
func Decrypt(sk ristretto.Scalar, ct Ciphertext, max uint64) (uint64, error) {

	if sk.IsNonZeroI() == 0 {
		return 0, ErrInvalidSecretKey
	}

	// v*G = Commitment - sk*Handle
	var sD, target ristretto.Point
	sD.ScalarMult(&ct.Handle, &sk)
	target.Sub(&ct.Commitment, &sD)

	var zero ristretto.Point
	zero.SetZero()
	if target.Equals(&zero) {
		return 0, nil
	}

	var acc, base ristretto.Point
	base.SetBase()
	acc.SetBase()

	for i := uint64(1); i <= max; i++ {
		if acc.Equals(&target) {
			return i, nil
		}
		acc.Add(&acc, &base)
	}

	return 0, ErrDecryptionFailed
}

// Add sums two ciphertexts component-wise. Decrypting the result
// yields the sum of the plaintexts.
func Add(a, b Ciphertext) Ciphertext {
	var c Ciphertext
	c.Commitment.Add(&a.Commitment, &b.Commitment)
	c.Handle.Add(&a.Handle, &b.Handle)
	return c
}

// Sub subtracts b from a component-wise
func Sub(a, b Ciphertext) Ciphertext {
	var c Ciphertext
	c.Commitment.Sub(&a.Commitment, &b.Commitment)
	c.Handle.Sub(&a.Handle, &b.Handle)
	return c
}

// Equals returns true if both ciphertexts hold the same points
func (c *Ciphertext) Equals(other Ciphertext) bool {
	return c.Commitment.Equals(&other.Commitment) && c.Handle.Equals(&other.Handle)
}

// Encode the ciphertext to w
func (c *Ciphertext) Encode(w io.Writer) error {
	err := binary.Write(w, binary.BigEndian, c.Commitment.Bytes())
	if err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, c.Handle.Bytes())
}

// Decode the ciphertext from r
func (c *Ciphertext) Decode(r io.Reader) error {
	if c == nil {
		return errors.New("struct is nil")
	}

	var cBytes, dBytes [32]byte
	err := binary.Read(r, binary.BigEndian, &cBytes)
	if err != nil {
		return err
	}
	err = binary.Read(r, binary.BigEndian, &dBytes)
	if err != nil {
		return err
	}

	if ok := c.Commitment.SetBytes(&cBytes); !ok {
		return errors.New("commitment is not an encodable point")
	}
	if ok := c.Handle.SetBytes(&dBytes); !ok {
		return errors.New("handle is not an encodable point")
	}
	return nil
}

// Bytes returns the fixed length serialization of the ciphertext
func (c *Ciphertext) Bytes() []byte {
	buf := make([]byte, 0, Size)
	buf = append(buf, c.Commitment.Bytes()...)
	buf = append(buf, c.Handle.Bytes()...)
	return buf
}

// FromBytes deserializes a ciphertext from a fixed length byte slice
func (c *Ciphertext) FromBytes(b []byte) error {
	if len(b) != Size {
		return ErrCiphertextSize
	}

	var cBytes, dBytes [32]byte
	copy(cBytes[:], b[:32])
	copy(dBytes[:], b[32:])

	if ok := c.Commitment.SetBytes(&cBytes); !ok {
		return errors.New("commitment is not an encodable point")
	}
	if ok := c.Handle.SetBytes(&dBytes); !ok {
		return errors.New("handle is not an encodable point")
	}
	return nil
}
