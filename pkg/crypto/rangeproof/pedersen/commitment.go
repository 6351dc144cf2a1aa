package pedersen

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxCommitments bounds the count prefix of a serialized commitment
// list. No aggregated proof carries more values than this, so a larger
// count can only come from corrupted or hostile input.
const maxCommitments = 16

// ErrCommitmentCount is returned when a serialized commitment list
// claims more entries than any proof can carry
var ErrCommitmentCount = errors.New("commitment count out of range")

// Encode a Commitment's value to w. The blinding factor is the
// prover's secret and is never serialized.
func (c *Commitment) Encode(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, c.Value.Bytes())
}

// Decode a Commitment's value from r
func (c *Commitment) Decode(r io.Reader) error {
	if c == nil {
		return errors.New("struct is nil")
	}

	var cBytes [32]byte
	err := binary.Read(r, binary.BigEndian, &cBytes)
	if err != nil {
		return err
	}
	ok := c.Value.SetBytes(&cBytes)
	if !ok {
		return errors.New("could not set bytes for commitment, not an encodable point")
	}
	return nil
}

// Equals returns true if both commitments hold the same value
// and the same blinding factor
func (c *Commitment) Equals(other Commitment) bool {
	return c.Value.Equals(&other.Value) && c.BlindingFactor.Equals(&other.BlindingFactor)
}

// EqualValue returns true if both commitments hold the same value,
// ignoring the blinding factor
func (c *Commitment) EqualValue(other Commitment) bool {
	return c.Value.Equals(&other.Value)
}

// EncodeCommitments takes a slice of commitments and encodes
// them to w, prefixed with the amount of commitments
func EncodeCommitments(w io.Writer, comms []Commitment) error {
	lenV := uint32(len(comms))
	err := binary.Write(w, binary.BigEndian, lenV)
	if err != nil {
		return err
	}
	for i := range comms {
		err := comms[i].Encode(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeCommitments takes a reader and decodes a
// length-prefixed slice of commitments
func DecodeCommitments(r io.Reader) ([]Commitment, error) {
	var lenV uint32
	err := binary.Read(r, binary.BigEndian, &lenV)
	if err != nil {
		return nil, err
	}

	if lenV > maxCommitments {
		return nil, ErrCommitmentCount
	}

	comms := make([]Commitment, lenV)
	for i := uint32(0); i < lenV; i++ {
		err := comms[i].Decode(r)
		if err != nil {
			return nil, err
		}
	}
	return comms, nil
}

// AddCommitments sums the commitment values a and b, retaining the sum
// of the blinding factors. The Pedersen scheme is additively
// homomorphic: Commit(a, r1) + Commit(b, r2) = Commit(a+b, r1+r2).
func AddCommitments(a, b Commitment) Commitment {
	var c Commitment
	c.Value.Add(&a.Value, &b.Value)
	c.BlindingFactor.Add(&a.BlindingFactor, &b.BlindingFactor)
	return c
}
