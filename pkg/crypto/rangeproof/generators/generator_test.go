package generator_test

import (
	"testing"

	ristretto "github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	generator "github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/generators"
)

func TestGeneratorsLen(t *testing.T) {

	point := ristretto.Point{}
	point.SetBase()

	generators := generator.New(point.Bytes())

	generators.Compute(64)

	assert.Equal(t, 64, len(generators.Bases))

}

func TestGeneratorsClear(t *testing.T) {

	gens := generator.New([]byte("some data"))

	gens.Compute(64)
	expected := gens.Bases

	gens.Compute(64)
	actual := gens.Bases

	assert.NotEqual(t, expected, actual)

	gens.Clear()

	gens.Compute(64)
	actual = gens.Bases

	assert.Equal(t, expected, actual)

}

func TestGeneratorsDeterministic(t *testing.T) {

	a := generator.New([]byte("seed data"))
	b := generator.New([]byte("seed data"))

	a.Compute(32)
	b.Compute(32)

	for i := range a.Bases {
		assert.True(t, a.Bases[i].Equals(&b.Bases[i]))
	}
}
