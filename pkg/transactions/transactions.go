package transactions

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ristretto "github.com/bwesterb/go-ristretto"
)

// Proof bundles for confidential balance updates. A transfer moves a
// hidden amount between two accounts; a withdraw reveals the amount
// and proves the remaining balance stays in range. Amounts and
// balances never appear in logs.

var log = logrus.WithField("process", "transactions")

var (
	// ErrInsufficientBalance is returned when the amount to move
	// exceeds the current balance
	ErrInsufficientBalance = errors.New("amount exceeds balance")
	// ErrProofSize is returned when a serialized proof bundle does
	// not have the expected length
	ErrProofSize = errors.New("proof size mismatch")
)

func scalarFromUint64(v uint64) ristretto.Scalar {
	var s ristretto.Scalar
	s.SetBigInt(new(big.Int).SetUint64(v))
	return s
}
