package rangeproof

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitCommit(t *testing.T) {

	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(99),
		new(big.Int).SetUint64(1<<64 - 1),
		big.NewInt(rand.Int63()),
	}

	for _, v := range values {
		bc := BitCommit(v)

		assert.Equal(t, N, len(bc.AL))
		assert.Equal(t, N, len(bc.AR))

		err := bc.Ensure(v)
		assert.Nil(t, err)
	}
}
