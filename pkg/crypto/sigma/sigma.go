package sigma

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"
)

// Sigma protocols over the ristretto group. Each proof binds its full
// statement into the Fiat-Shamir transcript, so a proof transplanted
// onto different public data fails verification.

var (
	// ErrProofSize is returned when a serialized proof does not
	// have the expected length
	ErrProofSize = errors.New("proof size mismatch")
)

func readerToPoint(r io.Reader, p *ristretto.Point) error {
	var x [32]byte
	err := binary.Read(r, binary.BigEndian, &x)
	if err != nil {
		return err
	}
	ok := p.SetBytes(&x)
	if !ok {
		return errors.New("point not encodable")
	}
	return nil
}

func readerToScalar(r io.Reader, s *ristretto.Scalar) error {
	var x [32]byte
	err := binary.Read(r, binary.BigEndian, &x)
	if err != nil {
		return err
	}
	s.SetBytes(&x)
	// SetBytes reduces mod the group order, so a round trip detects
	// non-canonical encodings
	if !bytes.Equal(s.Bytes(), x[:]) {
		return errors.New("scalar not canonical")
	}
	return nil
}
