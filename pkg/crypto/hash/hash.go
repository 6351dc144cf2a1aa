package hash

import (
	"hash"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/crypto/sha3"
)

// Sha3256 takes a byte slice
// and returns the SHA3-256 hash
func Sha3256(bs []byte) ([]byte, error) {
	return PerformHash(sha3.New256(), bs)
}

// DoubleSha3256 takes a byte slice
// and returns the SHA3-256 hash of the SHA3-256 hash
func DoubleSha3256(bs []byte) ([]byte, error) {
	digest, err := Sha3256(bs)
	if err != nil {
		return nil, err
	}
	return Sha3256(digest)
}

// Xxhash takes a byte slice
// and returns the xxhash64 digest
func Xxhash(bs []byte) ([]byte, error) {
	return PerformHash(xxhash.New64(), bs)
}

// PerformHash takes a generic hash.Hash and returns the hashed payload
func PerformHash(H hash.Hash, bs []byte) ([]byte, error) {
	_, err := H.Write(bs)
	if err != nil {
		return nil, err
	}
	return H.Sum(nil), err
}
