package elgamal

import (
	"bytes"
	"encoding/binary"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto"
)

var netPrefix = byte(0xEF)

// Keypair holds an account's public key point and the secret scalar
// it was derived from
type Keypair struct {
	PublicKey ristretto.Point
	secret    ristretto.Scalar
}

// NewKeypair generates a fresh keypair, resampling until the
// secret is non-zero
func NewKeypair() *Keypair {

	var s ristretto.Scalar
	s.Rand()
	for s.IsNonZeroI() == 0 {
		s.Rand()
	}

	kp, _ := KeypairFromSecret(s)
	return kp
}

// KeypairFromSecret builds a keypair from an existing secret scalar
func KeypairFromSecret(s ristretto.Scalar) (*Keypair, error) {

	if s.IsNonZeroI() == 0 {
		return nil, ErrInvalidSecretKey
	}

	var pk ristretto.Point
	pk.ScalarMultBase(&s)

	return &Keypair{
		PublicKey: pk,
		secret:    s,
	}, nil
}

// KeypairFromSeed deterministically derives a keypair from a seed
func KeypairFromSeed(seed []byte) (*Keypair, error) {

	var s ristretto.Scalar
	s.Derive(seed)

	return KeypairFromSecret(s)
}

// Secret returns the secret scalar
func (kp *Keypair) Secret() ristretto.Scalar {
	return kp.secret
}

// Wipe zeroes the secret scalar. The keypair cannot decrypt
// after being wiped.
func (kp *Keypair) Wipe() {
	kp.secret.SetZero()
}

// Decrypt recovers the value of a ciphertext encrypted
// under this keypair's public key
func (kp *Keypair) Decrypt(ct Ciphertext, max uint64) (uint64, error) {
	return Decrypt(kp.secret, ct, max)
}

// PublicAddress returns the base58 encoded public address,
// a net prefix followed by the public key and a checksum
func (kp *Keypair) PublicAddress() (string, error) {

	buf := new(bytes.Buffer)

	err := buf.WriteByte(netPrefix)
	if err != nil {
		return "", err
	}

	_, err = buf.Write(kp.PublicKey.Bytes())
	if err != nil {
		return "", err
	}

	checksum, err := crypto.Checksum(buf.Bytes())
	if err != nil {
		return "", err
	}

	err = binary.Write(buf, binary.BigEndian, checksum)
	if err != nil {
		return "", err
	}

	return base58.Encode(buf.Bytes()), nil
}

// PublicKeyFromAddress decodes a base58 public address back
// into a public key point, verifying the checksum
func PublicKeyFromAddress(address string) (ristretto.Point, error) {

	var pk ristretto.Point

	raw, err := base58.Decode(address)
	if err != nil {
		return pk, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	if len(raw) != 1+32+4 {
		return pk, errors.Wrap(ErrInvalidAddress, "wrong length")
	}

	if raw[0] != netPrefix {
		return pk, errors.Wrap(ErrInvalidAddress, "wrong net prefix")
	}

	want := binary.BigEndian.Uint32(raw[33:])
	if !crypto.CompareChecksum(raw[:33], want) {
		return pk, errors.Wrap(ErrInvalidAddress, "checksum mismatch")
	}

	var pkBytes [32]byte
	copy(pkBytes[:], raw[1:33])
	if ok := pk.SetBytes(&pkBytes); !ok {
		return pk, errors.Wrap(ErrInvalidAddress, "not an encodable point")
	}

	return pk, nil
}
