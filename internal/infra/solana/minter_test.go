package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"

	royaltydom "bulkminter/internal/domain/royalty"
)

func TestAllocateSharesSumsToHundred(t *testing.T) {
	cases := [][]royaltydom.Creator{
		{{Share: 98}, {Share: 2}},
		{{Share: 49}, {Share: 49}, {Share: 2}},
		// Equal three-way split of 98 leaves fractions to distribute.
		{{Share: 98.0 / 3}, {Share: 98.0 / 3}, {Share: 98.0 / 3}, {Share: 2}},
		{{Share: 32.5}, {Share: 32.5}, {Share: 33}, {Share: 2}},
	}

	for _, creators := range cases {
		shares := allocateShares(creators)
		sum := 0
		for _, s := range shares {
			sum += int(s)
		}
		assert.Equal(t, 100, sum, "shares=%v", shares)
	}
}

func TestAllocateSharesKeepsProportions(t *testing.T) {
	shares := allocateShares([]royaltydom.Creator{{Share: 98}, {Share: 2}})
	assert.Equal(t, []uint8{98, 2}, shares)
}

func TestAllocateSharesEmpty(t *testing.T) {
	assert.Empty(t, allocateShares(nil))
}
